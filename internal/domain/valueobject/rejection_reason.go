package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// RejectionReason – immutable value object
// ---------------------------------------------------------------------------

// RejectionReason explains why an eligibility decision was negative. The zero
// value means the request was approved.
type RejectionReason struct {
	value string
}

const (
	rejectionAffordability        = "AFFORDABILITY"
	rejectionLowCreditScore       = "LOW_CREDIT_SCORE"
	rejectionRateBelowBandMinimum = "RATE_BELOW_BAND_MINIMUM"
	rejectionDebtExceedsLimit     = "DEBT_EXCEEDS_LIMIT"
)

var (
	// RejectionAffordability: existing plus new installments exceed half of
	// the monthly income.
	RejectionAffordability = RejectionReason{value: rejectionAffordability}
	// RejectionLowCreditScore: score at or below the lowest band.
	RejectionLowCreditScore = RejectionReason{value: rejectionLowCreditScore}
	// RejectionRateBelowBandMinimum: requested rate under the floor of the
	// applicant's score band.
	RejectionRateBelowBandMinimum = RejectionReason{value: rejectionRateBelowBandMinimum}
	// RejectionDebtExceedsLimit: active principal already above the approved
	// limit.
	RejectionDebtExceedsLimit = RejectionReason{value: rejectionDebtExceedsLimit}
)

var validRejectionReasons = map[string]RejectionReason{
	rejectionAffordability:        RejectionAffordability,
	rejectionLowCreditScore:       RejectionLowCreditScore,
	rejectionRateBelowBandMinimum: RejectionRateBelowBandMinimum,
	rejectionDebtExceedsLimit:     RejectionDebtExceedsLimit,
}

// NewRejectionReason parses a reason; the empty string yields the zero value.
func NewRejectionReason(s string) (RejectionReason, error) {
	if s == "" {
		return RejectionReason{}, nil
	}
	v, ok := validRejectionReasons[s]
	if !ok {
		return RejectionReason{}, fmt.Errorf("invalid rejection reason: %q", s)
	}
	return v, nil
}

func (r RejectionReason) String() string { return r.value }

func (r RejectionReason) IsZero() bool { return r.value == "" }

// Message is the human-readable explanation returned to API callers.
func (r RejectionReason) Message() string {
	switch r.value {
	case rejectionAffordability:
		return "sum of current EMIs exceeds 50% of monthly salary"
	case rejectionLowCreditScore:
		return "credit score too low for a loan"
	case rejectionRateBelowBandMinimum:
		return "requested interest rate is below the minimum for the credit score band"
	case rejectionDebtExceedsLimit:
		return "current debt exceeds the approved limit"
	default:
		return ""
	}
}
