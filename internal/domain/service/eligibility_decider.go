package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/valueobject"
)

var (
	affordabilityShare = decimal.RequireFromString("0.5")
	maxRequestedRate   = decimal.NewFromInt(100)
)

// DecisionInput is a loan request together with a consistent snapshot of the
// applicant's loans.
type DecisionInput struct {
	AsOf            time.Time
	RequestedAmount decimal.Decimal
	RequestedRate   decimal.Decimal
	Customer        model.Customer
	// History is every loan the customer has ever taken.
	History []model.Loan
	// ActiveLoans are the loans counted toward current obligations. They are
	// re-filtered against AsOf.
	ActiveLoans  []model.Loan
	TenureMonths int
}

// ---------------------------------------------------------------------------
// EligibilityDecider – domain service for loan approval
// ---------------------------------------------------------------------------

// EligibilityDecider combines the credit score, current obligations and the
// requested terms into a decision. It is stateless and safe for concurrent
// use.
type EligibilityDecider struct {
	scorer *CreditScorer
}

// NewEligibilityDecider returns a decider scoring with scorer.
func NewEligibilityDecider(scorer *CreditScorer) *EligibilityDecider {
	return &EligibilityDecider{scorer: scorer}
}

// Decide evaluates a loan request.
//
// Order of checks:
//
//  1. score the full history
//  2. affordability: existing plus new installment must not exceed half the
//     monthly income
//  3. score band: reject at or below 10, or when the requested rate is under
//     the band floor
//
// An approved decision carries the installment recomputed at the effective
// rate. A rejection is a decision, not an error; errors mean invalid input.
func (d *EligibilityDecider) Decide(in DecisionInput) (model.EligibilityDecision, error) {
	if in.RequestedRate.GreaterThan(maxRequestedRate) {
		return model.EligibilityDecision{}, fmt.Errorf("%w: interest rate must not exceed %s, got %s", model.ErrInvalidInput, maxRequestedRate, in.RequestedRate)
	}
	if in.TenureMonths > model.MaxTenureMonths {
		return model.EligibilityDecision{}, fmt.Errorf("%w: tenure must not exceed %d months, got %d", model.ErrInvalidInput, model.MaxTenureMonths, in.TenureMonths)
	}

	newEMI, err := MonthlyInstallment(in.RequestedAmount, in.TenureMonths, in.RequestedRate)
	if err != nil {
		return model.EligibilityDecision{}, fmt.Errorf("compute requested installment: %w", err)
	}

	assessment := d.scorer.Assess(in.Customer, in.History, in.AsOf)
	score := assessment.Score

	currentEMIs := decimal.Zero
	for _, l := range in.ActiveLoans {
		if l.IsActive(in.AsOf) {
			currentEMIs = currentEMIs.Add(l.MonthlyInstallment())
		}
	}

	limit := in.Customer.MonthlyIncome().Mul(affordabilityShare)
	if currentEMIs.Add(newEMI).GreaterThan(limit) {
		return model.Reject(score, newEMI, valueobject.RejectionAffordability), nil
	}

	floor, ok := RateFloor(assessment.Raw)
	switch {
	case assessment.DebtExceedsLimit:
		return model.Reject(score, newEMI, valueobject.RejectionDebtExceedsLimit), nil
	case !ok:
		return model.Reject(score, newEMI, valueobject.RejectionLowCreditScore), nil
	case in.RequestedRate.LessThan(floor):
		return model.Reject(score, newEMI, valueobject.RejectionRateBelowBandMinimum), nil
	}

	rate, _ := CorrectedRate(assessment.Raw, in.RequestedRate)
	installment := newEMI
	if !rate.Equal(in.RequestedRate) {
		installment, err = MonthlyInstallment(in.RequestedAmount, in.TenureMonths, rate)
		if err != nil {
			return model.EligibilityDecision{}, fmt.Errorf("compute effective installment: %w", err)
		}
	}

	return model.Approve(score, rate, installment), nil
}
