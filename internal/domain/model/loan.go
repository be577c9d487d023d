package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/valueobject"
)

const (
	MinTenureMonths = 1
	MaxTenureMonths = 360
)

var (
	minPersistedRate = decimal.Zero
	maxPersistedRate = decimal.NewFromInt(100)
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	id                 int64
	customerID         int64
	principal          decimal.Decimal
	tenureMonths       int
	annualRate         decimal.Decimal
	monthlyInstallment decimal.Decimal
	paidOnTime         int
	startDate          time.Time
	endDate            time.Time
	createdAt          time.Time
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan creates a freshly sanctioned loan. The loan starts on the calendar
// date of now and ends tenureMonths later; nothing has been repaid yet.
func NewLoan(
	customerID int64,
	principal decimal.Decimal,
	tenureMonths int,
	annualRate decimal.Decimal,
	monthlyInstallment decimal.Decimal,
	now time.Time,
) (Loan, error) {
	start := DateOf(now)
	end := start.AddDate(0, tenureMonths, 0)
	return NewHistoricalLoan(0, customerID, principal, tenureMonths, annualRate, monthlyInstallment, 0, start, end, now)
}

// NewHistoricalLoan validates a loan whose terms were agreed elsewhere, such
// as a record imported from a legacy system. id may be zero to let the store
// assign one.
func NewHistoricalLoan(
	id, customerID int64,
	principal decimal.Decimal,
	tenureMonths int,
	annualRate, monthlyInstallment decimal.Decimal,
	paidOnTime int,
	startDate, endDate time.Time,
	now time.Time,
) (Loan, error) {
	switch {
	case customerID <= 0:
		return Loan{}, fmt.Errorf("%w: customer ID is required", ErrInvalidInput)
	case !principal.IsPositive():
		return Loan{}, fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	case tenureMonths < MinTenureMonths || tenureMonths > MaxTenureMonths:
		return Loan{}, fmt.Errorf("%w: tenure must be between %d and %d months", ErrInvalidInput, MinTenureMonths, MaxTenureMonths)
	case annualRate.LessThan(minPersistedRate) || annualRate.GreaterThan(maxPersistedRate):
		return Loan{}, fmt.Errorf("%w: interest rate %s outside [%s, %s]", ErrInvalidInput, annualRate, minPersistedRate, maxPersistedRate)
	case !monthlyInstallment.IsPositive():
		return Loan{}, fmt.Errorf("%w: monthly installment must be positive", ErrInvalidInput)
	case paidOnTime < 0 || paidOnTime > tenureMonths:
		return Loan{}, fmt.Errorf("%w: installments paid on time must be between 0 and %d", ErrInvalidInput, tenureMonths)
	}

	startDate, endDate = DateOf(startDate), DateOf(endDate)
	if !endDate.After(startDate) {
		return Loan{}, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	return Loan{
		id:                 id,
		customerID:         customerID,
		principal:          principal,
		tenureMonths:       tenureMonths,
		annualRate:         annualRate,
		monthlyInstallment: monthlyInstallment,
		paidOnTime:         paidOnTime,
		startDate:          startDate,
		endDate:            endDate,
		createdAt:          now,
	}, nil
}

// ReconstructLoan rebuilds a Loan from persistence without validation.
func ReconstructLoan(
	id, customerID int64,
	principal decimal.Decimal,
	tenureMonths int,
	annualRate, monthlyInstallment decimal.Decimal,
	paidOnTime int,
	startDate, endDate, createdAt time.Time,
) Loan {
	return Loan{
		id:                 id,
		customerID:         customerID,
		principal:          principal,
		tenureMonths:       tenureMonths,
		annualRate:         annualRate,
		monthlyInstallment: monthlyInstallment,
		paidOnTime:         paidOnTime,
		startDate:          DateOf(startDate),
		endDate:            DateOf(endDate),
		createdAt:          createdAt,
	}
}

// ---------------------------------------------------------------------------
// Domain behaviour
// ---------------------------------------------------------------------------

// IsActive reports whether the loan is still running on the calendar date of
// asOf. A loan ending on asOf itself is no longer active.
func (l Loan) IsActive(asOf time.Time) bool {
	return l.endDate.After(DateOf(asOf))
}

// Status derives ACTIVE or CLOSED from IsActive.
func (l Loan) Status(asOf time.Time) valueobject.LoanStatus {
	if l.IsActive(asOf) {
		return valueobject.LoanStatusActive
	}
	return valueobject.LoanStatusClosed
}

// InstallmentsRemaining is tenure minus installments paid on time.
func (l Loan) InstallmentsRemaining() int {
	return l.tenureMonths - l.paidOnTime
}

// RecordOnTimePayment returns a copy with one more installment paid on time.
func (l Loan) RecordOnTimePayment() (Loan, error) {
	if l.paidOnTime >= l.tenureMonths {
		return Loan{}, fmt.Errorf("%w: all %d installments of loan %d are already paid", ErrInvalidInput, l.tenureMonths, l.id)
	}
	next := l
	next.paidOnTime++
	return next, nil
}

// WithID returns a copy carrying the store-assigned identifier.
func (l Loan) WithID(id int64) Loan {
	next := l
	next.id = id
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() int64                           { return l.id }
func (l Loan) CustomerID() int64                   { return l.customerID }
func (l Loan) Principal() decimal.Decimal          { return l.principal }
func (l Loan) TenureMonths() int                   { return l.tenureMonths }
func (l Loan) AnnualRate() decimal.Decimal         { return l.annualRate }
func (l Loan) MonthlyInstallment() decimal.Decimal { return l.monthlyInstallment }
func (l Loan) PaidOnTime() int                     { return l.paidOnTime }
func (l Loan) StartDate() time.Time                { return l.startDate }
func (l Loan) EndDate() time.Time                  { return l.endDate }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
