package model

import "errors"

// Sentinel errors surfaced by the domain and the store adapters. Callers test
// for them with errors.Is; every layer wraps them with its own context.
var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicatePhoneNumber = errors.New("phone number already registered")
)
