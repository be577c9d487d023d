package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/service"
	"github.com/bibbank/credit-service/internal/domain/valueobject"
)

func newDecider() *service.EligibilityDecider {
	return service.NewEligibilityDecider(service.NewCreditScorer())
}

// goodHistory scores 57: 48/60*40 + 5 + 10 + 10, with one active loan paying
// 20,000 a month.
func goodHistory() []model.Loan {
	return []model.Loan{
		loan(1, loanSpec{principal: "1000000", emi: "20000", tenure: 60, paid: 48, start: date(2025, 1, 1), end: date(2030, 1, 1)}),
	}
}

// poorHistory scores 30: 6/12*40 + 5 + 0 + 5, nothing active.
func poorHistory() []model.Loan {
	return []model.Loan{
		loan(1, loanSpec{principal: "500000", tenure: 12, paid: 6, start: date(2023, 1, 1), end: date(2024, 1, 1)}),
	}
}

// badHistory scores 6: 0 + 5 + 0 + 1, nothing active.
func badHistory() []model.Loan {
	return []model.Loan{
		loan(1, loanSpec{principal: "100000", tenure: 12, start: date(2020, 1, 1), end: date(2021, 1, 1)}),
	}
}

func activeOf(history []model.Loan) []model.Loan {
	var out []model.Loan
	for _, l := range history {
		if l.IsActive(asOf) {
			out = append(out, l)
		}
	}
	return out
}

func TestEligibilityDecider_Scenarios(t *testing.T) {
	decider := newDecider()
	customer := newCustomer(t, "100000")

	t.Run("A: no history at 10.5% is below the fair band floor", func(t *testing.T) {
		d, err := decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("200000"), RequestedRate: dec("10.5"), TenureMonths: 12, AsOf: asOf,
		})
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, 50, d.CreditScore)
		assert.False(t, d.EffectiveRate.Valid)
		assert.Equal(t, valueobject.RejectionRateBelowBandMinimum, d.RejectionReason)
		assert.True(t, d.MonthlyInstallment.Equal(dec("17629.72")), "installment at requested rate, got %s", d.MonthlyInstallment)
	})

	t.Run("B: no history at 12% is approved", func(t *testing.T) {
		d, err := decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("200000"), RequestedRate: dec("12"), TenureMonths: 12, AsOf: asOf,
		})
		require.NoError(t, err)
		assert.True(t, d.Approved)
		assert.Equal(t, 50, d.CreditScore)
		require.True(t, d.EffectiveRate.Valid)
		assert.True(t, d.EffectiveRate.Decimal.Equal(dec("12")))
		assert.True(t, d.MonthlyInstallment.Equal(dec("17769.76")), "got %s", d.MonthlyInstallment)
		assert.True(t, d.RejectionReason.IsZero())
	})

	t.Run("C: total installments exactly half the income is affordable", func(t *testing.T) {
		history := goodHistory()
		d, err := decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("300000"), RequestedRate: decimal.Zero, TenureMonths: 10,
			History: history, ActiveLoans: activeOf(history), AsOf: asOf,
		})
		require.NoError(t, err)
		assert.True(t, d.Approved)
		assert.Equal(t, 57, d.CreditScore)
		assert.True(t, d.MonthlyInstallment.Equal(dec("30000")))

		d, err = decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("300000.10"), RequestedRate: decimal.Zero, TenureMonths: 10,
			History: history, ActiveLoans: activeOf(history), AsOf: asOf,
		})
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, valueobject.RejectionAffordability, d.RejectionReason)
		assert.Equal(t, 57, d.CreditScore)
	})

	t.Run("D: interest-free request at score 50 is rejected", func(t *testing.T) {
		d, err := decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("100000"), RequestedRate: decimal.Zero, TenureMonths: 10, AsOf: asOf,
		})
		require.NoError(t, err)
		assert.True(t, d.MonthlyInstallment.Equal(dec("10000")))
		assert.False(t, d.Approved)
		assert.Equal(t, 50, d.CreditScore)
		assert.Equal(t, valueobject.RejectionRateBelowBandMinimum, d.RejectionReason)
	})
}

func TestEligibilityDecider_Bands(t *testing.T) {
	decider := newDecider()
	customer := newCustomer(t, "100000")

	tests := []struct {
		name       string
		history    []model.Loan
		rate       string
		wantScore  int
		wantOK     bool
		wantRate   string
		wantReason valueobject.RejectionReason
	}{
		{"top band approves any rate", goodHistory(), "1", 57, true, "1", valueobject.RejectionReason{}},
		{"poor band below 16 rejects", poorHistory(), "15.99", 30, false, "", valueobject.RejectionRateBelowBandMinimum},
		{"poor band at 16 approves", poorHistory(), "16", 30, true, "16", valueobject.RejectionReason{}},
		{"poor band above 16 keeps rate", poorHistory(), "21.5", 30, true, "21.5", valueobject.RejectionReason{}},
		{"score at or below 10 rejects", badHistory(), "40", 6, false, "", valueobject.RejectionLowCreditScore},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := decider.Decide(service.DecisionInput{
				Customer: customer, RequestedAmount: dec("50000"), RequestedRate: dec(tc.rate), TenureMonths: 12,
				History: tc.history, ActiveLoans: activeOf(tc.history), AsOf: asOf,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantScore, d.CreditScore)
			assert.Equal(t, tc.wantOK, d.Approved)
			assert.Equal(t, tc.wantReason, d.RejectionReason)
			if tc.wantOK {
				require.True(t, d.EffectiveRate.Valid)
				assert.True(t, d.EffectiveRate.Decimal.Equal(dec(tc.wantRate)))

				// Rates already inside the band come back unchanged.
				want, err := service.MonthlyInstallment(dec("50000"), 12, dec(tc.rate))
				require.NoError(t, err)
				assert.True(t, d.MonthlyInstallment.Equal(want))
			} else {
				assert.False(t, d.EffectiveRate.Valid)
			}
		})
	}
}

func TestEligibilityDecider_BandUsesUntruncatedScore(t *testing.T) {
	decider := newDecider()
	customer := newCustomer(t, "100000")
	// 7/12*40 + 5 + 0 + 2 = 30.33, reported as 30 but inside the fair band.
	history := []model.Loan{
		loan(1, loanSpec{principal: "200000", tenure: 12, paid: 7, start: date(2023, 1, 1), end: date(2024, 1, 1)}),
	}

	d, err := decider.Decide(service.DecisionInput{
		Customer: customer, RequestedAmount: dec("50000"), RequestedRate: dec("12"), TenureMonths: 12,
		History: history, AsOf: asOf,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, d.CreditScore)
	assert.True(t, d.Approved)
	require.True(t, d.EffectiveRate.Valid)
	assert.True(t, d.EffectiveRate.Decimal.Equal(dec("12")))

	d, err = decider.Decide(service.DecisionInput{
		Customer: customer, RequestedAmount: dec("50000"), RequestedRate: dec("11.99"), TenureMonths: 12,
		History: history, AsOf: asOf,
	})
	require.NoError(t, err)
	assert.False(t, d.Approved)
	assert.Equal(t, valueobject.RejectionRateBelowBandMinimum, d.RejectionReason)
}

func TestEligibilityDecider_DebtAboveLimit(t *testing.T) {
	decider := newDecider()
	customer := customerWithLimit("100000", "1000000")
	history := []model.Loan{
		loan(1, loanSpec{principal: "1200000", emi: "10000", tenure: 120, paid: 120, start: date(2025, 1, 1), end: date(2035, 1, 1)}),
	}

	t.Run("affordable request still rejected with score 0", func(t *testing.T) {
		d, err := decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("10000"), RequestedRate: dec("20"), TenureMonths: 12,
			History: history, ActiveLoans: activeOf(history), AsOf: asOf,
		})
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, 0, d.CreditScore)
		assert.Equal(t, valueobject.RejectionDebtExceedsLimit, d.RejectionReason)
	})

	t.Run("affordability is checked first", func(t *testing.T) {
		d, err := decider.Decide(service.DecisionInput{
			Customer: customer, RequestedAmount: dec("1000000"), RequestedRate: dec("20"), TenureMonths: 12,
			History: history, ActiveLoans: activeOf(history), AsOf: asOf,
		})
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, 0, d.CreditScore)
		assert.Equal(t, valueobject.RejectionAffordability, d.RejectionReason)
	})
}

func TestEligibilityDecider_IgnoresExpiredActiveLoans(t *testing.T) {
	decider := newDecider()
	customer := newCustomer(t, "100000")
	history := goodHistory()
	expired := loan(2, loanSpec{principal: "10000", emi: "45000", tenure: 6, start: date(2024, 12, 15), end: date(2025, 6, 15)})
	history = append(history, expired)

	d, err := decider.Decide(service.DecisionInput{
		Customer: customer, RequestedAmount: dec("100000"), RequestedRate: dec("10"), TenureMonths: 12,
		History:     history,
		ActiveLoans: append(activeOf(history), expired),
		AsOf:        asOf,
	})
	require.NoError(t, err)
	assert.True(t, d.Approved, "a loan ending today does not count toward current installments")
}

func TestEligibilityDecider_InvalidInput(t *testing.T) {
	decider := newDecider()
	customer := newCustomer(t, "100000")

	tests := []struct {
		name   string
		amount string
		rate   string
		tenure int
	}{
		{"zero amount", "0", "12", 12},
		{"negative rate", "1000", "-1", 12},
		{"rate above 100", "1000", "100.5", 12},
		{"zero tenure", "1000", "12", 0},
		{"tenure above 360", "1000", "12", 361},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decider.Decide(service.DecisionInput{
				Customer: customer, RequestedAmount: dec(tc.amount), RequestedRate: dec(tc.rate), TenureMonths: tc.tenure, AsOf: asOf,
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput))
		})
	}
}
