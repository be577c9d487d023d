package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/model"
)

const (
	// NeutralScore is reported for customers without any loan history.
	NeutralScore = 50

	minScore = 0
	maxScore = 100
)

var (
	timelinessWeight = decimal.NewFromInt(40)
	perLoanPoints    = decimal.NewFromInt(5)
	perRecentPoints  = decimal.NewFromInt(10)
	factorCap        = decimal.NewFromInt(20)
	volumeUnit       = decimal.NewFromInt(1_000_000)
	volumeWeight     = decimal.NewFromInt(10)
)

// ---------------------------------------------------------------------------
// CreditScorer – domain service deriving a 0-100 score from loan history
// ---------------------------------------------------------------------------

// ScoreResult is the scorer's output.
type ScoreResult struct {
	// Raw is the clamped score before truncation. Band decisions use it.
	Raw   decimal.Decimal
	Score int
	// DebtExceedsLimit is set when the active principal is above the approved
	// limit, in which case Score is 0.
	DebtExceedsLimit bool
}

// CreditScorer is stateless and safe for concurrent use.
type CreditScorer struct{}

// NewCreditScorer returns a new scorer instance.
func NewCreditScorer() *CreditScorer {
	return &CreditScorer{}
}

// Score returns the credit score of customer given their full loan history,
// evaluated on the calendar date of asOf.
func (s *CreditScorer) Score(customer model.Customer, history []model.Loan, asOf time.Time) int {
	return s.Assess(customer, history, asOf).Score
}

// Assess computes the score and reports whether the hard debt cutoff applied.
//
// Components:
//
//	timeliness  paid/tenure * 40 (0 when total tenure is 0)
//	count       min(loans * 5, 20)
//	recent      min(loans started in asOf's year * 10, 20)
//	volume      min(total principal / 1,000,000 * 10, 20)
//
// The sum is clamped to [0, 100] once. Score truncates it to an integer while
// Raw keeps the fraction.
func (s *CreditScorer) Assess(customer model.Customer, history []model.Loan, asOf time.Time) ScoreResult {
	if len(history) == 0 {
		return ScoreResult{Raw: decimal.NewFromInt(NeutralScore), Score: NeutralScore}
	}

	year := model.DateOf(asOf).Year()

	var (
		tenure, paid, recent int
		totalPrincipal       = decimal.Zero
		activePrincipal      = decimal.Zero
	)
	for _, l := range history {
		tenure += l.TenureMonths()
		paid += l.PaidOnTime()
		totalPrincipal = totalPrincipal.Add(l.Principal())
		if l.StartDate().Year() == year {
			recent++
		}
		if l.IsActive(asOf) {
			activePrincipal = activePrincipal.Add(l.Principal())
		}
	}

	if activePrincipal.GreaterThan(customer.ApprovedLimit()) {
		return ScoreResult{Raw: decimal.NewFromInt(minScore), Score: minScore, DebtExceedsLimit: true}
	}

	score := decimal.Zero
	if tenure > 0 {
		ratio := decimal.NewFromInt(int64(paid)).Div(decimal.NewFromInt(int64(tenure)))
		score = score.Add(ratio.Mul(timelinessWeight))
	}
	score = score.Add(decimal.Min(decimal.NewFromInt(int64(len(history))).Mul(perLoanPoints), factorCap))
	score = score.Add(decimal.Min(decimal.NewFromInt(int64(recent)).Mul(perRecentPoints), factorCap))
	score = score.Add(decimal.Min(totalPrincipal.Div(volumeUnit).Mul(volumeWeight), factorCap))

	raw := clampScore(score)
	return ScoreResult{Raw: raw, Score: int(raw.IntPart())}
}

func clampScore(raw decimal.Decimal) decimal.Decimal {
	lo, hi := decimal.NewFromInt(minScore), decimal.NewFromInt(maxScore)
	switch {
	case raw.LessThan(lo):
		return lo
	case raw.GreaterThan(hi):
		return hi
	default:
		return raw
	}
}
