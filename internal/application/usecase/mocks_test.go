package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/model"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	createFunc   func(ctx context.Context, c model.Customer) (model.Customer, error)
	findByIDFunc func(ctx context.Context, id int64) (model.Customer, error)
	upsertFunc   func(ctx context.Context, c model.Customer) (bool, error)
	created      []model.Customer
	upserted     []model.Customer
}

func (m *mockCustomerRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	c = c.WithID(int64(len(m.created) + 1))
	m.created = append(m.created, c)
	return c, nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Customer{}, model.ErrCustomerNotFound
}

func (m *mockCustomerRepository) Upsert(ctx context.Context, c model.Customer) (bool, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, c)
	}
	m.upserted = append(m.upserted, c)
	return true, nil
}

type mockLoanRepository struct {
	createFunc           func(ctx context.Context, loan model.Loan) (model.Loan, error)
	findByIDFunc         func(ctx context.Context, id int64) (model.Loan, error)
	findByCustomerIDFunc func(ctx context.Context, customerID int64) ([]model.Loan, error)
	incrementFunc        func(ctx context.Context, id int64) (model.Loan, error)
	upsertFunc           func(ctx context.Context, loan model.Loan) (bool, error)
	created              []model.Loan
	updated              []model.Loan
	upserted             []model.Loan
}

func (m *mockLoanRepository) Create(ctx context.Context, loan model.Loan) (model.Loan, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, loan)
	}
	loan = loan.WithID(int64(100 + len(m.created)))
	m.created = append(m.created, loan)
	return loan, nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id int64) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, model.ErrLoanNotFound
}

func (m *mockLoanRepository) FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error) {
	if m.findByCustomerIDFunc != nil {
		return m.findByCustomerIDFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *mockLoanRepository) FindActiveByCustomerID(ctx context.Context, customerID int64, asOf time.Time) ([]model.Loan, error) {
	all, err := m.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	var active []model.Loan
	for _, l := range all {
		if l.IsActive(asOf) {
			active = append(active, l)
		}
	}
	return active, nil
}

func (m *mockLoanRepository) IncrementPaidOnTime(ctx context.Context, id int64) (model.Loan, error) {
	if m.incrementFunc != nil {
		return m.incrementFunc(ctx, id)
	}
	loan, err := m.FindByID(ctx, id)
	if err != nil {
		return model.Loan{}, err
	}
	loan, err = loan.RecordOnTimePayment()
	if err != nil {
		return model.Loan{}, err
	}
	m.updated = append(m.updated, loan)
	return loan, nil
}

func (m *mockLoanRepository) Upsert(ctx context.Context, loan model.Loan) (bool, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, loan)
	}
	m.upserted = append(m.upserted, loan)
	return true, nil
}

type mockSnapshotReader struct {
	loadFunc func(ctx context.Context, customerID int64, asOf time.Time) (model.CustomerSnapshot, error)
	asOf     time.Time
}

func (m *mockSnapshotReader) LoadSnapshot(ctx context.Context, customerID int64, asOf time.Time) (model.CustomerSnapshot, error) {
	m.asOf = asOf
	if m.loadFunc != nil {
		return m.loadFunc(ctx, customerID, asOf)
	}
	return model.CustomerSnapshot{}, model.ErrCustomerNotFound
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockDecisionRecorder struct {
	mu        sync.Mutex
	decisions []model.EligibilityDecision
}

func (m *mockDecisionRecorder) RecordDecision(_ context.Context, d model.EligibilityDecision) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, d)
}

// --- Fixtures ---

var today = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCustomer(id int64, income string) model.Customer {
	return model.ReconstructCustomer(
		id, "Asha", "Rao", 30, "9876543210",
		dec(income), model.ApprovedLimitFor(dec(income)), decimal.Zero, today,
	)
}

func snapshotOf(c model.Customer, loans ...model.Loan) model.CustomerSnapshot {
	snap := model.CustomerSnapshot{Customer: c, History: loans}
	for _, l := range loans {
		if l.IsActive(today) {
			snap.ActiveLoans = append(snap.ActiveLoans, l)
		}
	}
	return snap
}
