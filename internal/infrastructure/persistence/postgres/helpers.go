package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation      = "23505"
	foreignKeyViolation  = "23503"
	phoneNumberUniqueKey = "customers_phone_number_key"
)

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isDuplicatePhone(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == uniqueViolation && pgErr.ConstraintName == phoneNumberUniqueKey
}

func isMissingCustomer(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == foreignKeyViolation
}
