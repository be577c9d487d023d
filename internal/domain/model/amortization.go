package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var monthlyRateDivisor = decimal.NewFromInt(1200)

// AmortizationEntry is an immutable value object representing one period in an
// amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	Total            decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// Schedule returns the loan's repayment schedule at its recorded installment.
func (l Loan) Schedule() []AmortizationEntry {
	return GenerateAmortizationSchedule(l.principal, l.annualRate, l.tenureMonths, l.monthlyInstallment, l.startDate)
}

// GenerateAmortizationSchedule splits a fixed installment into interest and
// principal for each month.
//
// Parameters:
//   - principal:     the loan amount
//   - annualRatePct: annual interest rate in percent (e.g. 12.5)
//   - termMonths:    number of monthly periods
//   - installment:   the agreed monthly payment
//   - startDate:     the date from which the first payment is due (one month later)
//
// Interest accrues at annualRatePct/1200 on the remaining balance. The last
// period absorbs rounding so the balance reaches exactly zero.
func GenerateAmortizationSchedule(
	principal decimal.Decimal,
	annualRatePct decimal.Decimal,
	termMonths int,
	installment decimal.Decimal,
	startDate time.Time,
) []AmortizationEntry {
	if termMonths <= 0 || !principal.IsPositive() || !installment.IsPositive() {
		return nil
	}

	monthlyRate := annualRatePct.Div(monthlyRateDivisor)
	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := installment.Sub(interest)

		if period == termMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}
		if principalPart.IsNegative() {
			principalPart = decimal.Zero
		}

		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Principal:        principalPart,
			Interest:         interest,
			Total:            principalPart.Add(interest),
			RemainingBalance: remaining,
		})
	}

	return schedule
}
