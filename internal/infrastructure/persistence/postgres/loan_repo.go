package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/model"
	pgpkg "github.com/bibbank/credit-service/pkg/postgres"
)

const loanColumns = `id, customer_id, principal, tenure_months, interest_rate,
	monthly_installment, emis_paid_on_time, start_date, end_date, created_at`

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Create inserts a loan and returns it with the generated ID.
func (r *LoanRepo) Create(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query := `
		INSERT INTO loans (
			customer_id, principal, tenure_months, interest_rate,
			monthly_installment, emis_paid_on_time, start_date, end_date, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		loan.CustomerID(), loan.Principal(), loan.TenureMonths(), loan.AnnualRate(),
		loan.MonthlyInstallment(), loan.PaidOnTime(), loan.StartDate(), loan.EndDate(),
		loan.CreatedAt(),
	).Scan(&id)
	if err != nil {
		if isMissingCustomer(err) {
			return model.Loan{}, model.ErrCustomerNotFound
		}
		return model.Loan{}, fmt.Errorf("insert loan: %w", err)
	}
	return loan.WithID(id), nil
}

// FindByID retrieves a loan by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id int64) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, model.ErrLoanNotFound
		}
		return model.Loan{}, fmt.Errorf("find loan %d: %w", id, err)
	}
	return loan, nil
}

// FindByCustomerID retrieves every loan of a customer, oldest first.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	return customerLoans(ctx, r.pool, customerID)
}

// FindActiveByCustomerID retrieves the loans of a customer that end after
// the calendar date of asOf.
func (r *LoanRepo) FindActiveByCustomerID(ctx context.Context, customerID int64, asOf time.Time) ([]model.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE customer_id = $1 AND end_date > $2
		ORDER BY id
	`
	return queryLoans(ctx, r.pool, query, customerID, model.DateOf(asOf))
}

// IncrementPaidOnTime adds one on-time installment to a loan in a single
// statement and returns the stored result. A loan already fully paid is left
// unchanged and reported as ErrInvalidInput.
func (r *LoanRepo) IncrementPaidOnTime(ctx context.Context, id int64) (model.Loan, error) {
	query := `
		UPDATE loans
		SET emis_paid_on_time = emis_paid_on_time + 1
		WHERE id = $1 AND emis_paid_on_time < tenure_months
		RETURNING ` + loanColumns
	loan, err := scanLoanRow(r.pool.QueryRow(ctx, query, id))
	if err == nil {
		return loan, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Loan{}, fmt.Errorf("update loan %d: %w", id, err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists); err != nil {
		return model.Loan{}, fmt.Errorf("check loan %d: %w", id, err)
	}
	if !exists {
		return model.Loan{}, model.ErrLoanNotFound
	}
	return model.Loan{}, fmt.Errorf("%w: all installments of loan %d are already paid", model.ErrInvalidInput, id)
}

// Upsert inserts a loan under its own ID unless that ID is taken.
func (r *LoanRepo) Upsert(ctx context.Context, loan model.Loan) (bool, error) {
	var inserted bool
	err := pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO loans (
				id, customer_id, principal, tenure_months, interest_rate,
				monthly_installment, emis_paid_on_time, start_date, end_date, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (id) DO NOTHING
		`
		tag, err := tx.Exec(ctx, query,
			loan.ID(), loan.CustomerID(), loan.Principal(), loan.TenureMonths(), loan.AnnualRate(),
			loan.MonthlyInstallment(), loan.PaidOnTime(), loan.StartDate(), loan.EndDate(),
			loan.CreatedAt(),
		)
		if err != nil {
			if isMissingCustomer(err) {
				return model.ErrCustomerNotFound
			}
			return fmt.Errorf("upsert loan %d: %w", loan.ID(), err)
		}
		inserted = tag.RowsAffected() > 0
		if !inserted {
			return nil
		}
		return syncSequence(ctx, tx, "loans")
	})
	return inserted, err
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func customerLoans(ctx context.Context, q pgpkg.Querier, customerID int64) ([]model.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE customer_id = $1
		ORDER BY id
	`
	return queryLoans(ctx, q, query, customerID)
}

func queryLoans(ctx context.Context, q pgpkg.Querier, query string, args ...any) ([]model.Loan, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, customerID                              int64
		principal, interestRate, monthlyInstallment decimal.Decimal
		tenureMonths, paidOnTime                    int
		startDate, endDate, createdAt               time.Time
	)
	err := s.Scan(
		&id, &customerID, &principal, &tenureMonths, &interestRate,
		&monthlyInstallment, &paidOnTime, &startDate, &endDate, &createdAt,
	)
	if err != nil {
		return model.Loan{}, err
	}
	return model.ReconstructLoan(
		id, customerID, principal, tenureMonths, interestRate,
		monthlyInstallment, paidOnTime, startDate, endDate, createdAt,
	), nil
}
