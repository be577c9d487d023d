package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/valueobject"
)

// EligibilityDecision is the outcome of evaluating a loan request. A negative
// outcome is a regular value; errors are reserved for invalid input.
type EligibilityDecision struct {
	Approved    bool
	CreditScore int
	// EffectiveRate is only valid when Approved.
	EffectiveRate decimal.NullDecimal
	// MonthlyInstallment is computed at EffectiveRate when approved and at the
	// requested rate otherwise.
	MonthlyInstallment decimal.Decimal
	RejectionReason    valueobject.RejectionReason
}

// Approve builds a positive decision.
func Approve(score int, rate, installment decimal.Decimal) EligibilityDecision {
	return EligibilityDecision{
		Approved:           true,
		CreditScore:        score,
		EffectiveRate:      decimal.NewNullDecimal(rate),
		MonthlyInstallment: installment,
	}
}

// Reject builds a negative decision carrying the reason and score.
func Reject(score int, installment decimal.Decimal, reason valueobject.RejectionReason) EligibilityDecision {
	return EligibilityDecision{
		CreditScore:        score,
		MonthlyInstallment: installment,
		RejectionReason:    reason,
	}
}

// CustomerSnapshot is a consistent view of a customer and their loans read at
// a single point in time.
type CustomerSnapshot struct {
	Customer    Customer
	History     []Loan
	ActiveLoans []Loan
}
