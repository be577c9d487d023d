package model

import "time"

// DateOf returns the calendar date of t (in t's own location) as midnight UTC.
// Loan start and end dates, and every "as of" reference, are compared as
// calendar dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
