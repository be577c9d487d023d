package event

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateCustomer = "Customer"
	aggregateLoan     = "Loan"

	TypeCustomerRegistered = "credit.customer.registered"
	TypeEligibilityChecked = "credit.eligibility.checked"
	TypeLoanApproved       = "credit.loan.approved"
	TypeLoanRejected       = "credit.loan.rejected"
	TypeInstallmentPaid    = "credit.loan.installment_paid"
	TypeLoanPaidOff        = "credit.loan.paid_off"
)

func idString(id int64) string { return strconv.FormatInt(id, 10) }

// ---------------------------------------------------------------------------
// Customer Events
// ---------------------------------------------------------------------------

// CustomerRegistered is raised when a new customer is onboarded.
type CustomerRegistered struct {
	events.BaseEvent
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

func NewCustomerRegistered(
	customerID int64, firstName, lastName string,
	monthlyIncome, approvedLimit decimal.Decimal, at time.Time,
) CustomerRegistered {
	return CustomerRegistered{
		BaseEvent:     events.NewBaseEvent(TypeCustomerRegistered, idString(customerID), aggregateCustomer, at),
		FirstName:     firstName,
		LastName:      lastName,
		MonthlyIncome: monthlyIncome,
		ApprovedLimit: approvedLimit,
	}
}

// EligibilityChecked is raised for every eligibility evaluation, approved or
// not.
type EligibilityChecked struct {
	events.BaseEvent
	RequestedAmount    decimal.Decimal     `json:"requested_amount"`
	RequestedRate      decimal.Decimal     `json:"requested_rate"`
	CorrectedRate      decimal.NullDecimal `json:"corrected_rate"`
	MonthlyInstallment decimal.Decimal     `json:"monthly_installment"`
	Reason             string              `json:"reason,omitempty"`
	TenureMonths       int                 `json:"tenure_months"`
	CreditScore        int                 `json:"credit_score"`
	Approved           bool                `json:"approved"`
}

func NewEligibilityChecked(
	customerID int64,
	amount, rate decimal.Decimal, tenure int,
	approved bool, score int, corrected decimal.NullDecimal,
	installment decimal.Decimal, reason string, at time.Time,
) EligibilityChecked {
	return EligibilityChecked{
		BaseEvent:          events.NewBaseEvent(TypeEligibilityChecked, idString(customerID), aggregateCustomer, at),
		RequestedAmount:    amount,
		RequestedRate:      rate,
		TenureMonths:       tenure,
		Approved:           approved,
		CreditScore:        score,
		CorrectedRate:      corrected,
		MonthlyInstallment: installment,
		Reason:             reason,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanApproved is raised when a loan is sanctioned and recorded.
type LoanApproved struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	events.BaseEvent
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	CustomerID         int64           `json:"customer_id"`
	TenureMonths       int             `json:"tenure_months"`
	CreditScore        int             `json:"credit_score"`
}

func NewLoanApproved(
	loanID, customerID int64,
	principal, rate, installment decimal.Decimal,
	tenure, score int, start, end, at time.Time,
) LoanApproved {
	return LoanApproved{
		BaseEvent:          events.NewBaseEvent(TypeLoanApproved, idString(loanID), aggregateLoan, at),
		CustomerID:         customerID,
		Principal:          principal,
		InterestRate:       rate,
		MonthlyInstallment: installment,
		TenureMonths:       tenure,
		CreditScore:        score,
		StartDate:          start,
		EndDate:            end,
	}
}

// LoanRejected is raised when a loan request is declined. No loan exists, so
// the customer is the aggregate.
type LoanRejected struct {
	events.BaseEvent
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	RequestedRate   decimal.Decimal `json:"requested_rate"`
	Reason          string          `json:"reason"`
	TenureMonths    int             `json:"tenure_months"`
	CreditScore     int             `json:"credit_score"`
}

func NewLoanRejected(
	customerID int64,
	amount, rate decimal.Decimal, tenure, score int,
	reason string, at time.Time,
) LoanRejected {
	return LoanRejected{
		BaseEvent:       events.NewBaseEvent(TypeLoanRejected, idString(customerID), aggregateCustomer, at),
		RequestedAmount: amount,
		RequestedRate:   rate,
		TenureMonths:    tenure,
		CreditScore:     score,
		Reason:          reason,
	}
}

// InstallmentPaid is raised when an installment is recorded as paid on time.
type InstallmentPaid struct {
	events.BaseEvent
	CustomerID            int64 `json:"customer_id"`
	PaidOnTime            int   `json:"emis_paid_on_time"`
	InstallmentsRemaining int   `json:"repayments_left"`
}

func NewInstallmentPaid(loanID, customerID int64, paid, remaining int, at time.Time) InstallmentPaid {
	return InstallmentPaid{
		BaseEvent:             events.NewBaseEvent(TypeInstallmentPaid, idString(loanID), aggregateLoan, at),
		CustomerID:            customerID,
		PaidOnTime:            paid,
		InstallmentsRemaining: remaining,
	}
}

// LoanPaidOff is raised when the last installment of a loan is recorded.
type LoanPaidOff struct {
	events.BaseEvent
	CustomerID int64 `json:"customer_id"`
}

func NewLoanPaidOff(loanID, customerID int64, at time.Time) LoanPaidOff {
	return LoanPaidOff{
		BaseEvent:  events.NewBaseEvent(TypeLoanPaidOff, idString(loanID), aggregateLoan, at),
		CustomerID: customerID,
	}
}
