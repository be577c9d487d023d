package port

import (
	"context"
	"time"

	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	// Create inserts a new customer and returns it with its assigned ID.
	// A phone number that is already registered yields ErrDuplicatePhoneNumber.
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	// FindByID returns ErrCustomerNotFound when no customer has the ID.
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	// Upsert stores a customer with a caller-chosen ID. It reports false when
	// the ID already existed and nothing was written.
	Upsert(ctx context.Context, c model.Customer) (bool, error)
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	Create(ctx context.Context, loan model.Loan) (model.Loan, error)
	// FindByID returns ErrLoanNotFound when no loan has the ID.
	FindByID(ctx context.Context, id int64) (model.Loan, error)
	FindByCustomerID(ctx context.Context, customerID int64) ([]model.Loan, error)
	// FindActiveByCustomerID returns loans whose end date is after asOf.
	FindActiveByCustomerID(ctx context.Context, customerID int64, asOf time.Time) ([]model.Loan, error)
	// IncrementPaidOnTime atomically records one more on-time installment.
	// It fails with ErrInvalidInput once every installment is paid.
	IncrementPaidOnTime(ctx context.Context, id int64) (model.Loan, error)
	// Upsert stores a loan with a caller-chosen ID. It reports false when the
	// ID already existed and nothing was written.
	Upsert(ctx context.Context, loan model.Loan) (bool, error)
}

// SnapshotReader loads everything a decision needs in one consistent read.
type SnapshotReader interface {
	LoadSnapshot(ctx context.Context, customerID int64, asOf time.Time) (model.CustomerSnapshot, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Metrics port
// ---------------------------------------------------------------------------

// DecisionRecorder observes eligibility decisions.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, decision model.EligibilityDecision)
}
