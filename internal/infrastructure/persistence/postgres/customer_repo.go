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

const customerColumns = `id, first_name, last_name, age, phone_number,
	monthly_income, approved_limit, current_debt, created_at`

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new PostgreSQL-backed customer repository.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// Create inserts a customer and returns it with the generated ID.
func (r *CustomerRepo) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	query := `
		INSERT INTO customers (
			first_name, last_name, age, phone_number,
			monthly_income, approved_limit, current_debt, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		c.FirstName(), c.LastName(), c.Age(), c.PhoneNumber(),
		c.MonthlyIncome(), c.ApprovedLimit(), c.CurrentDebt(), c.CreatedAt(),
	).Scan(&id)
	if err != nil {
		if isDuplicatePhone(err) {
			return model.Customer{}, model.ErrDuplicatePhoneNumber
		}
		return model.Customer{}, fmt.Errorf("insert customer: %w", err)
	}
	return c.WithID(id), nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepo) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	return findCustomer(ctx, r.pool, id)
}

// Upsert inserts a customer under its own ID unless that ID is taken. The ID
// sequence is moved past the inserted row so later Create calls do not
// collide with ingested identifiers.
func (r *CustomerRepo) Upsert(ctx context.Context, c model.Customer) (bool, error) {
	var inserted bool
	err := pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO customers (
				id, first_name, last_name, age, phone_number,
				monthly_income, approved_limit, current_debt, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO NOTHING
		`
		tag, err := tx.Exec(ctx, query,
			c.ID(), c.FirstName(), c.LastName(), c.Age(), c.PhoneNumber(),
			c.MonthlyIncome(), c.ApprovedLimit(), c.CurrentDebt(), c.CreatedAt(),
		)
		if err != nil {
			if isDuplicatePhone(err) {
				return model.ErrDuplicatePhoneNumber
			}
			return fmt.Errorf("upsert customer %d: %w", c.ID(), err)
		}
		inserted = tag.RowsAffected() > 0
		if !inserted {
			return nil
		}
		return syncSequence(ctx, tx, "customers")
	})
	return inserted, err
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func findCustomer(ctx context.Context, q pgpkg.Querier, id int64) (model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomerRow(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Customer{}, model.ErrCustomerNotFound
		}
		return model.Customer{}, fmt.Errorf("find customer %d: %w", id, err)
	}
	return c, nil
}

func scanCustomerRow(s scannable) (model.Customer, error) {
	var (
		id                                        int64
		firstName, lastName, phoneNumber          string
		age                                       int
		monthlyIncome, approvedLimit, currentDebt decimal.Decimal
		createdAt                                 time.Time
	)
	err := s.Scan(
		&id, &firstName, &lastName, &age, &phoneNumber,
		&monthlyIncome, &approvedLimit, &currentDebt, &createdAt,
	)
	if err != nil {
		return model.Customer{}, err
	}
	return model.ReconstructCustomer(
		id, firstName, lastName, age, phoneNumber,
		monthlyIncome, approvedLimit, currentDebt, createdAt,
	), nil
}

// syncSequence moves a table's serial sequence up to its highest stored ID.
func syncSequence(ctx context.Context, q pgpkg.Querier, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT MAX(id) FROM %[1]s), 1))`,
		table,
	)
	if _, err := q.Exec(ctx, query); err != nil {
		return fmt.Errorf("sync %s id sequence: %w", table, err)
	}
	return nil
}
