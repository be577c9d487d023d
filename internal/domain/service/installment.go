package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/model"
)

var minInstallment = decimal.New(1, -2)

// MonthlyInstallment returns the fixed monthly payment (EMI) for a loan of
// principal over tenureMonths at annualRatePct, rounded to 2 decimals.
//
//	r   = annualRatePct / 1200
//	EMI = P / n                           when r == 0
//	EMI = P * r * (1+r)^n / ((1+r)^n - 1) otherwise
//
// The power step runs in float64; everything around it stays in decimal.
func MonthlyInstallment(principal decimal.Decimal, tenureMonths int, annualRatePct decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case !principal.IsPositive():
		return decimal.Zero, fmt.Errorf("%w: principal must be positive, got %s", model.ErrInvalidInput, principal)
	case tenureMonths < 1:
		return decimal.Zero, fmt.Errorf("%w: tenure must be at least 1 month, got %d", model.ErrInvalidInput, tenureMonths)
	case annualRatePct.IsNegative():
		return decimal.Zero, fmt.Errorf("%w: interest rate must not be negative, got %s", model.ErrInvalidInput, annualRatePct)
	}

	var emi decimal.Decimal
	if annualRatePct.IsZero() {
		emi = principal.Div(decimal.NewFromInt(int64(tenureMonths)))
	} else {
		r := annualRatePct.InexactFloat64() / 1200.0
		factor := math.Pow(1+r, float64(tenureMonths))
		emi = decimal.NewFromFloat(principal.InexactFloat64() * r * factor / (factor - 1))
	}

	// A positive loan never has a zero installment.
	return decimal.Max(emi.Round(2), minInstallment), nil
}
