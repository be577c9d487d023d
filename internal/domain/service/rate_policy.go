package service

import "github.com/shopspring/decimal"

// ---------------------------------------------------------------------------
// Interest-rate correction policy
// ---------------------------------------------------------------------------

// Score bands, evaluated top to bottom:
//
//	score > 50        requested rate unchanged
//	30 < score <= 50  at least 12%
//	10 < score <= 30  at least 16%
//	score <= 10       no offer
//
// Scores are compared with their fraction, so 30.33 is in the fair band.
var (
	goodBandEdge  = decimal.NewFromInt(50)
	fairBandEdge  = decimal.NewFromInt(30)
	poorBandEdge  = decimal.NewFromInt(10)
	fairBandFloor = decimal.NewFromInt(12)
	poorBandFloor = decimal.NewFromInt(16)
)

// RateFloor returns the minimum rate offered to a score. ok is false when the
// score is too low for any offer.
func RateFloor(score decimal.Decimal) (floor decimal.Decimal, ok bool) {
	switch {
	case score.GreaterThan(goodBandEdge):
		return decimal.Zero, true
	case score.GreaterThan(fairBandEdge):
		return fairBandFloor, true
	case score.GreaterThan(poorBandEdge):
		return poorBandFloor, true
	default:
		return decimal.Zero, false
	}
}

// CorrectedRate lifts requested to the floor of the score's band. No upper
// bound applies.
func CorrectedRate(score decimal.Decimal, requested decimal.Decimal) (decimal.Decimal, bool) {
	floor, ok := RateFloor(score)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.Max(requested, floor), true
}
