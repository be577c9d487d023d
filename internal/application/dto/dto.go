package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterCustomerRequest carries the data needed to onboard a customer.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name" validate:"required,max=100"`
	LastName      string          `json:"last_name" validate:"required,max=100"`
	PhoneNumber   string          `json:"phone_number" validate:"required,max=15"`
	MonthlyIncome decimal.Decimal `json:"monthly_income" validate:"gt=0,decimal_places=2"`
	Age           int             `json:"age" validate:"gte=18,lte=100"`
}

// LoanRequest carries the terms of a requested loan. It is used both to check
// eligibility and to create a loan.
type LoanRequest struct {
	LoanAmount   decimal.Decimal `json:"loan_amount" validate:"gt=0,decimal_places=2"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100,decimal_places=2"`
	CustomerID   int64           `json:"customer_id" validate:"required,gt=0"`
	Tenure       int             `json:"tenure" validate:"gte=1,lte=360"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID int64 `json:"loan_id" validate:"required,gt=0"`
}

// ListCustomerLoansRequest identifies the customer whose loans are listed.
type ListCustomerLoansRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
}

// RecordRepaymentRequest identifies the loan whose next installment was paid
// on time.
type RecordRepaymentRequest struct {
	LoanID int64 `json:"loan_id" validate:"required,gt=0"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CustomerResponse is returned on registration.
type CustomerResponse struct {
	Name          string          `json:"name"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	CustomerID    int64           `json:"customer_id"`
	Age           int             `json:"age"`
}

// EligibilityResponse reports an eligibility decision. CorrectedInterestRate
// is null when the request is not approved.
type EligibilityResponse struct {
	InterestRate          decimal.Decimal     `json:"interest_rate"`
	CorrectedInterestRate decimal.NullDecimal `json:"corrected_interest_rate"`
	MonthlyInstallment    decimal.Decimal     `json:"monthly_installment"`
	RejectionReason       string              `json:"rejection_reason,omitempty"`
	CustomerID            int64               `json:"customer_id"`
	Tenure                int                 `json:"tenure"`
	CreditScore           int                 `json:"credit_score"`
	Approval              bool                `json:"approval"`
}

// CreateLoanResponse reports the outcome of a loan request. LoanID is nil
// when the loan was not approved.
type CreateLoanResponse struct {
	LoanID             *int64          `json:"loan_id"`
	Message            string          `json:"message"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	CustomerID         int64           `json:"customer_id"`
	LoanApproved       bool            `json:"loan_approved"`
}

// LoanCustomerResponse is the customer summary embedded in a loan view.
type LoanCustomerResponse struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	ID          int64  `json:"id"`
	Age         int    `json:"age"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	DueDate          time.Time       `json:"due_date"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Total            decimal.Decimal `json:"total"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Period           int             `json:"period"`
}

// LoanResponse is the external representation of a single loan.
type LoanResponse struct {
	StartDate          time.Time                   `json:"start_date"`
	EndDate            time.Time                   `json:"end_date"`
	LoanAmount         decimal.Decimal             `json:"loan_amount"`
	InterestRate       decimal.Decimal             `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal             `json:"monthly_installment"`
	Status             string                      `json:"status"`
	Schedule           []AmortizationEntryResponse `json:"schedule,omitempty"`
	Customer           LoanCustomerResponse        `json:"customer"`
	LoanID             int64                       `json:"loan_id"`
	Tenure             int                         `json:"tenure"`
	EMIsPaidOnTime     int                         `json:"emis_paid_on_time"`
}

// CustomerLoanResponse is one row of a customer's loan list.
type CustomerLoanResponse struct {
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	Status             string          `json:"status"`
	LoanID             int64           `json:"loan_id"`
	RepaymentsLeft     int             `json:"repayments_left"`
}

// RepaymentResponse reports a loan's repayment progress.
type RepaymentResponse struct {
	LoanID         int64 `json:"loan_id"`
	CustomerID     int64 `json:"customer_id"`
	EMIsPaidOnTime int   `json:"emis_paid_on_time"`
	RepaymentsLeft int   `json:"repayments_left"`
	PaidOff        bool  `json:"paid_off"`
}

// ---------------------------------------------------------------------------
// Ingestion DTOs
// ---------------------------------------------------------------------------

// CustomerRecord is one customer row from a bulk import.
type CustomerRecord struct {
	FirstName     string
	LastName      string
	PhoneNumber   string
	MonthlyIncome decimal.Decimal
	ApprovedLimit decimal.Decimal
	CustomerID    int64
	Age           int
	Line          int
}

// LoanRecord is one loan row from a bulk import.
type LoanRecord struct {
	StartDate          time.Time
	EndDate            time.Time
	LoanAmount         decimal.Decimal
	InterestRate       decimal.Decimal
	MonthlyInstallment decimal.Decimal
	CustomerID         int64
	LoanID             int64
	Tenure             int
	EMIsPaidOnTime     int
	Line               int
}

// IngestReport summarises a bulk import.
type IngestReport struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add accumulates other into r.
func (r IngestReport) Add(other IngestReport) IngestReport {
	return IngestReport{
		Created: r.Created + other.Created,
		Skipped: r.Skipped + other.Skipped,
		Failed:  r.Failed + other.Failed,
	}
}
