//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/credit-service/pkg/testutil"
)

const migrationsDir = "../../../../migrations"

func setup(t *testing.T) (*testutil.PostgresContainer, context.Context) {
	t.Helper()
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pc.Cleanup(t) })
	pc.RunMigrations(t, migrationsDir)
	return pc, ctx
}

func newCustomer(t *testing.T, phone string, income int64) model.Customer {
	t.Helper()
	c, err := model.NewCustomer("Asha", "Rao", 30, phone, decimal.NewFromInt(income), testutil.ReferenceDate)
	require.NoError(t, err)
	return c
}

func newLoan(t *testing.T, customerID int64, start time.Time, tenure int) model.Loan {
	t.Helper()
	loan, err := model.NewHistoricalLoan(
		0, customerID,
		decimal.NewFromInt(100000), tenure,
		decimal.NewFromInt(12), decimal.RequireFromString("8884.88"),
		0, start, start.AddDate(0, tenure, 0), testutil.ReferenceDate,
	)
	require.NoError(t, err)
	return loan
}

func TestCustomerRepo(t *testing.T) {
	pc, ctx := setup(t)
	repo := postgres.NewCustomerRepo(pc.Pool)

	t.Run("create and find", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")

		created, err := repo.Create(ctx, newCustomer(t, "9000000001", 50000))
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID())

		found, err := repo.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", found.FullName())
		assert.True(t, found.ApprovedLimit().Equal(decimal.NewFromInt(1800000)))
		assert.True(t, found.CurrentDebt().IsZero())
	})

	t.Run("duplicate phone", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")

		_, err := repo.Create(ctx, newCustomer(t, "9000000002", 50000))
		require.NoError(t, err)
		_, err = repo.Create(ctx, newCustomer(t, "9000000002", 60000))
		assert.ErrorIs(t, err, model.ErrDuplicatePhoneNumber)
	})

	t.Run("missing customer", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")

		_, err := repo.FindByID(ctx, 404)
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("upsert keeps ID and advances sequence", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")

		ingested := newCustomer(t, "9000000003", 40000).WithID(250)
		inserted, err := repo.Upsert(ctx, ingested)
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = repo.Upsert(ctx, ingested)
		require.NoError(t, err)
		assert.False(t, inserted)

		next, err := repo.Create(ctx, newCustomer(t, "9000000004", 40000))
		require.NoError(t, err)
		assert.Equal(t, int64(251), next.ID())
	})
}

func TestLoanRepo(t *testing.T) {
	pc, ctx := setup(t)
	customers := postgres.NewCustomerRepo(pc.Pool)
	loans := postgres.NewLoanRepo(pc.Pool)

	t.Run("create find and record payment", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")
		c, err := customers.Create(ctx, newCustomer(t, "9000000010", 50000))
		require.NoError(t, err)

		created, err := loans.Create(ctx, newLoan(t, c.ID(), testutil.Date(2025, time.January, 1), 12))
		require.NoError(t, err)

		paid, err := loans.IncrementPaidOnTime(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, paid.PaidOnTime())

		found, err := loans.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, found.PaidOnTime())
		assert.Equal(t, testutil.Date(2026, time.January, 1), found.EndDate())
		assert.True(t, found.AnnualRate().Equal(decimal.NewFromInt(12)))
	})

	t.Run("concurrent payments are all counted", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")
		c, err := customers.Create(ctx, newCustomer(t, "9000000012", 50000))
		require.NoError(t, err)
		created, err := loans.Create(ctx, newLoan(t, c.ID(), testutil.Date(2025, time.January, 1), 12))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 12 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := loans.IncrementPaidOnTime(ctx, created.ID())
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		found, err := loans.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, 12, found.PaidOnTime())

		_, err = loans.IncrementPaidOnTime(ctx, created.ID())
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("interest-free loan is stored", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")
		c, err := customers.Create(ctx, newCustomer(t, "9000000013", 50000))
		require.NoError(t, err)

		loan, err := model.NewLoan(c.ID(), decimal.NewFromInt(120000), 12, decimal.Zero, decimal.NewFromInt(10000), testutil.ReferenceDate)
		require.NoError(t, err)
		created, err := loans.Create(ctx, loan)
		require.NoError(t, err)

		found, err := loans.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.True(t, found.AnnualRate().IsZero())
	})

	t.Run("active filter uses end date", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")
		c, err := customers.Create(ctx, newCustomer(t, "9000000011", 50000))
		require.NoError(t, err)

		_, err = loans.Create(ctx, newLoan(t, c.ID(), testutil.Date(2024, time.June, 15), 12))
		require.NoError(t, err)
		running, err := loans.Create(ctx, newLoan(t, c.ID(), testutil.Date(2025, time.January, 1), 12))
		require.NoError(t, err)

		all, err := loans.FindByCustomerID(ctx, c.ID())
		require.NoError(t, err)
		assert.Len(t, all, 2)

		active, err := loans.FindActiveByCustomerID(ctx, c.ID(), testutil.ReferenceDate)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, running.ID(), active[0].ID())
	})

	t.Run("unknown customer", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")

		_, err := loans.Create(ctx, newLoan(t, 77, testutil.Date(2025, time.January, 1), 12))
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("missing loan", func(t *testing.T) {
		pc.Truncate(t, "customers", "loans")

		_, err := loans.FindByID(ctx, 9)
		assert.ErrorIs(t, err, model.ErrLoanNotFound)
		_, err = loans.IncrementPaidOnTime(ctx, 9)
		assert.ErrorIs(t, err, model.ErrLoanNotFound)
	})
}

func TestSnapshotReader(t *testing.T) {
	pc, ctx := setup(t)
	customers := postgres.NewCustomerRepo(pc.Pool)
	loans := postgres.NewLoanRepo(pc.Pool)
	reader := postgres.NewSnapshotReader(pc.Pool)

	c, err := customers.Create(ctx, newCustomer(t, "9000000020", 50000))
	require.NoError(t, err)
	_, err = loans.Create(ctx, newLoan(t, c.ID(), testutil.Date(2024, time.June, 15), 12))
	require.NoError(t, err)
	_, err = loans.Create(ctx, newLoan(t, c.ID(), testutil.Date(2025, time.March, 1), 24))
	require.NoError(t, err)

	snap, err := reader.LoadSnapshot(ctx, c.ID(), testutil.ReferenceDate)
	require.NoError(t, err)
	assert.Equal(t, c.ID(), snap.Customer.ID())
	assert.Len(t, snap.History, 2)
	assert.Len(t, snap.ActiveLoans, 1)

	_, err = reader.LoadSnapshot(ctx, c.ID()+100, testutil.ReferenceDate)
	assert.ErrorIs(t, err, model.ErrCustomerNotFound)
}
