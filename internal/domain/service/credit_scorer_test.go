package service_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/service"
)

func TestCreditScorer_EmptyHistory(t *testing.T) {
	scorer := service.NewCreditScorer()
	assert.Equal(t, service.NeutralScore, scorer.Score(newCustomer(t, "50000"), nil, asOf))
	assert.Equal(t, 50, scorer.Score(newCustomer(t, "50000"), []model.Loan{}, asOf))
}

func TestCreditScorer_Components(t *testing.T) {
	scorer := service.NewCreditScorer()
	customer := customerWithLimit("100000", "5000000")

	tests := []struct {
		name    string
		history []model.Loan
		want    int
	}{
		{
			// 6/12*40=20, 1*5=5, 0 recent, 0.5M -> 5
			name: "single closed loan last year",
			history: []model.Loan{
				loan(1, loanSpec{principal: "500000", tenure: 12, paid: 6, start: date(2023, 1, 1), end: date(2024, 1, 1)}),
			},
			want: 30,
		},
		{
			// 24/24*40=40, 2*5=10, 1 recent -> 10, 1.2M -> 12
			name: "perfect payer with a loan this year",
			history: []model.Loan{
				loan(1, loanSpec{principal: "700000", tenure: 12, paid: 12, start: date(2023, 1, 1), end: date(2024, 1, 1)}),
				loan(2, loanSpec{principal: "500000", tenure: 12, paid: 12, start: date(2025, 1, 10), end: date(2026, 1, 10)}),
			},
			want: 72,
		},
		{
			// 0 paid, 5 loans -> 20 (capped from 25), 3 recent -> 20 (capped), 2.5M -> 20 (capped)
			name: "caps apply to each bounded factor",
			history: []model.Loan{
				loan(1, loanSpec{principal: "500000", tenure: 12, start: date(2021, 1, 1), end: date(2022, 1, 1)}),
				loan(2, loanSpec{principal: "500000", tenure: 12, start: date(2022, 1, 1), end: date(2023, 1, 1)}),
				loan(3, loanSpec{principal: "500000", tenure: 1, start: date(2025, 1, 1), end: date(2025, 2, 1)}),
				loan(4, loanSpec{principal: "500000", tenure: 1, start: date(2025, 2, 1), end: date(2025, 3, 1)}),
				loan(5, loanSpec{principal: "500000", tenure: 1, start: date(2025, 3, 1), end: date(2025, 4, 1)}),
			},
			want: 60,
		},
		{
			// 1/3*40=13.33, 5, 0, 0.1M -> 1 => 19.33 truncated
			name: "fractional score is truncated",
			history: []model.Loan{
				loan(1, loanSpec{principal: "100000", tenure: 3, paid: 1, start: date(2020, 1, 1), end: date(2020, 4, 1)}),
			},
			want: 19,
		},
		{
			name: "malformed loan with zero tenure contributes no timeliness",
			history: []model.Loan{
				loan(1, loanSpec{principal: "100000", tenure: 0, start: date(2020, 1, 1), end: date(2020, 4, 1)}),
			},
			want: 6,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, scorer.Score(customer, tc.history, asOf))
		})
	}
}

func TestCreditScorer_RecentActivityFollowsAsOfYear(t *testing.T) {
	scorer := service.NewCreditScorer()
	customer := customerWithLimit("100000", "5000000")
	history := []model.Loan{
		loan(1, loanSpec{principal: "100000", tenure: 12, start: date(2024, 3, 1), end: date(2025, 3, 1)}),
	}

	// 0 + 5 + 0 + 1
	assert.Equal(t, 6, scorer.Score(customer, history, asOf))
	// 0 + 5 + 10 + 1
	assert.Equal(t, 16, scorer.Score(customer, history, date(2024, 12, 31)))
}

func TestCreditScorer_RawKeepsFraction(t *testing.T) {
	scorer := service.NewCreditScorer()
	customer := newCustomer(t, "100000")
	history := []model.Loan{
		loan(1, loanSpec{principal: "200000", tenure: 12, paid: 7, start: date(2023, 1, 1), end: date(2024, 1, 1)}),
	}

	res := scorer.Assess(customer, history, asOf)
	assert.Equal(t, 30, res.Score)
	assert.True(t, res.Raw.GreaterThan(dec("30.33")) && res.Raw.LessThan(dec("30.34")), "got %s", res.Raw)

	assert.True(t, scorer.Assess(customer, nil, asOf).Raw.Equal(dec("50")))
}

func TestCreditScorer_DebtAboveLimitZeroesScore(t *testing.T) {
	scorer := service.NewCreditScorer()
	customer := customerWithLimit("100000", "1000000")

	history := []model.Loan{
		loan(1, loanSpec{principal: "600000", tenure: 24, paid: 24, start: date(2024, 1, 1), end: date(2026, 1, 1)}),
		loan(2, loanSpec{principal: "500000", tenure: 24, paid: 12, start: date(2025, 1, 1), end: date(2027, 1, 1)}),
	}

	res := scorer.Assess(customer, history, asOf)
	assert.Equal(t, 0, res.Score)
	assert.True(t, res.Raw.IsZero())
	assert.True(t, res.DebtExceedsLimit)

	t.Run("loans ending today no longer count", func(t *testing.T) {
		history := []model.Loan{
			loan(1, loanSpec{principal: "600000", tenure: 24, paid: 24, start: date(2023, 6, 15), end: date(2025, 6, 15)}),
			loan(2, loanSpec{principal: "500000", tenure: 24, paid: 12, start: date(2025, 1, 1), end: date(2027, 1, 1)}),
		}
		res := scorer.Assess(customer, history, asOf)
		assert.False(t, res.DebtExceedsLimit)
		assert.Positive(t, res.Score)
	})

	t.Run("debt equal to limit is allowed", func(t *testing.T) {
		history := []model.Loan{
			loan(1, loanSpec{principal: "1000000", tenure: 24, start: date(2025, 1, 1), end: date(2027, 1, 1)}),
		}
		assert.False(t, scorer.Assess(customer, history, asOf).DebtExceedsLimit)
	})
}

func TestCreditScorer_AlwaysWithinBounds(t *testing.T) {
	scorer := service.NewCreditScorer()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		customer := customerWithLimit("100000", "3600000")
		n := rng.Intn(12)
		history := make([]model.Loan, 0, n)
		for j := 0; j < n; j++ {
			tenure := 1 + rng.Intn(360)
			start := date(2015+rng.Intn(12), time.Month(1+rng.Intn(12)), 1+rng.Intn(28))
			history = append(history, model.ReconstructLoan(
				int64(j+1), 1,
				decimal.NewFromInt(int64(1_000*(1+rng.Intn(5_000)))),
				tenure, dec("10"), dec("100"), rng.Intn(tenure+1),
				start, start.AddDate(0, tenure, 0), asOf,
			))
		}

		score := scorer.Score(customer, history, asOf)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}
