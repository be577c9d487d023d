package testutil

import "time"

// Fixed reference instants for deterministic date-dependent tests.
var (
	// ReferenceDate is the "today" used by scoring and eligibility tests.
	ReferenceDate = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	// LastYear falls in the calendar year before ReferenceDate.
	LastYear = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
