package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	minCustomerAge = 18
	maxCustomerAge = 100

	// approvedLimitIncomeMultiple is how many months of income a new customer
	// is sanctioned for.
	approvedLimitIncomeMultiple = 36
)

var lakh = decimal.NewFromInt(100_000)

// ---------------------------------------------------------------------------
// Customer aggregate
// ---------------------------------------------------------------------------

// Customer is an immutable aggregate. The store assigns the identifier.
type Customer struct {
	id            int64
	firstName     string
	lastName      string
	age           int
	phoneNumber   string
	monthlyIncome decimal.Decimal
	approvedLimit decimal.Decimal
	currentDebt   decimal.Decimal
	createdAt     time.Time
}

// NewCustomer validates a registration and derives the approved limit as
// 36 months of income rounded to the nearest lakh. Current debt starts at 0.
func NewCustomer(
	firstName, lastName string,
	age int,
	phoneNumber string,
	monthlyIncome decimal.Decimal,
	now time.Time,
) (Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phoneNumber = strings.TrimSpace(phoneNumber)

	switch {
	case firstName == "":
		return Customer{}, fmt.Errorf("%w: first name is required", ErrInvalidInput)
	case lastName == "":
		return Customer{}, fmt.Errorf("%w: last name is required", ErrInvalidInput)
	case age < minCustomerAge || age > maxCustomerAge:
		return Customer{}, fmt.Errorf("%w: age must be between %d and %d", ErrInvalidInput, minCustomerAge, maxCustomerAge)
	case phoneNumber == "":
		return Customer{}, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	case !monthlyIncome.IsPositive():
		return Customer{}, fmt.Errorf("%w: monthly income must be positive", ErrInvalidInput)
	}

	limit := ApprovedLimitFor(monthlyIncome)
	if !limit.IsPositive() {
		return Customer{}, fmt.Errorf("%w: monthly income %s is too low for a credit limit", ErrInvalidInput, monthlyIncome)
	}

	return Customer{
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlyIncome: monthlyIncome,
		approvedLimit: limit,
		currentDebt:   decimal.Zero,
		createdAt:     now,
	}, nil
}

// ApprovedLimitFor returns 36 × income rounded half-to-even to a multiple of
// 100,000.
func ApprovedLimitFor(monthlyIncome decimal.Decimal) decimal.Decimal {
	raw := monthlyIncome.Mul(decimal.NewFromInt(approvedLimitIncomeMultiple))
	return raw.Div(lakh).RoundBank(0).Mul(lakh)
}

// ReconstructCustomer rebuilds a Customer from persistence or ingestion
// without re-deriving the approved limit.
func ReconstructCustomer(
	id int64,
	firstName, lastName string,
	age int,
	phoneNumber string,
	monthlyIncome, approvedLimit, currentDebt decimal.Decimal,
	createdAt time.Time,
) Customer {
	return Customer{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlyIncome: monthlyIncome,
		approvedLimit: approvedLimit,
		currentDebt:   currentDebt,
		createdAt:     createdAt,
	}
}

// WithID returns a copy carrying the store-assigned identifier.
func (c Customer) WithID(id int64) Customer {
	next := c
	next.id = id
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Customer) ID() int64                      { return c.id }
func (c Customer) FirstName() string              { return c.firstName }
func (c Customer) LastName() string               { return c.lastName }
func (c Customer) Age() int                       { return c.age }
func (c Customer) PhoneNumber() string            { return c.phoneNumber }
func (c Customer) MonthlyIncome() decimal.Decimal { return c.monthlyIncome }
func (c Customer) ApprovedLimit() decimal.Decimal { return c.approvedLimit }
func (c Customer) CurrentDebt() decimal.Decimal   { return c.currentDebt }
func (c Customer) CreatedAt() time.Time           { return c.createdAt }

// FullName is "First Last".
func (c Customer) FullName() string {
	return c.firstName + " " + c.lastName
}
