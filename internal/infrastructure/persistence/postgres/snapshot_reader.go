package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bibbank/credit-service/internal/domain/model"
	pgpkg "github.com/bibbank/credit-service/pkg/postgres"
)

// SnapshotReader implements port.SnapshotReader. The customer row and the
// loan history are read in one repeatable-read, read-only transaction so a
// concurrent loan insert cannot be half visible to a decision.
type SnapshotReader struct {
	pool *pgxpool.Pool
}

// NewSnapshotReader creates a new snapshot reader.
func NewSnapshotReader(pool *pgxpool.Pool) *SnapshotReader {
	return &SnapshotReader{pool: pool}
}

// LoadSnapshot returns the customer, all of their loans, and the subset that
// is still active on asOf.
func (r *SnapshotReader) LoadSnapshot(ctx context.Context, customerID int64, asOf time.Time) (model.CustomerSnapshot, error) {
	var snap model.CustomerSnapshot
	err := pgpkg.WithTxOptions(ctx, r.pool, pgpkg.SnapshotTxOptions, func(tx pgx.Tx) error {
		customer, err := findCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}
		history, err := customerLoans(ctx, tx, customerID)
		if err != nil {
			return err
		}

		snap.Customer = customer
		snap.History = history
		for _, loan := range history {
			if loan.IsActive(asOf) {
				snap.ActiveLoans = append(snap.ActiveLoans, loan)
			}
		}
		return nil
	})
	if err != nil {
		return model.CustomerSnapshot{}, err
	}
	return snap, nil
}
