package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-service/internal/domain/model"
)

var asOf = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newCustomer registers a customer with the given monthly income.
func newCustomer(t *testing.T, income string) model.Customer {
	t.Helper()
	c, err := model.NewCustomer("Test", "Customer", 35, "9000000000", dec(income), asOf)
	require.NoError(t, err)
	return c.WithID(1)
}

// customerWithLimit bypasses limit derivation.
func customerWithLimit(income, limit string) model.Customer {
	return model.ReconstructCustomer(1, "Test", "Customer", 35, "9000000000", dec(income), dec(limit), decimal.Zero, asOf)
}

type loanSpec struct {
	principal string
	emi       string
	tenure    int
	paid      int
	start     time.Time
	end       time.Time
}

func loan(id int64, s loanSpec) model.Loan {
	emi := s.emi
	if emi == "" {
		emi = "1000"
	}
	return model.ReconstructLoan(id, 1, dec(s.principal), s.tenure, dec("10"), dec(emi), s.paid, s.start, s.end, asOf)
}
