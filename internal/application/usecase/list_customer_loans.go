package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/port"
)

// ListCustomerLoansUseCase lists every loan of a customer with the number of
// installments still due.
type ListCustomerLoansUseCase struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
	clock     Clock
}

// NewListCustomerLoansUseCase wires dependencies.
func NewListCustomerLoansUseCase(customers port.CustomerRepository, loans port.LoanRepository, clock Clock) *ListCustomerLoansUseCase {
	return &ListCustomerLoansUseCase{customers: customers, loans: loans, clock: clock}
}

// Execute returns the customer's loans. An unknown customer is an error, a
// customer without loans yields an empty list.
func (uc *ListCustomerLoansUseCase) Execute(
	ctx context.Context,
	req dto.ListCustomerLoansRequest,
) ([]dto.CustomerLoanResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	if _, err := uc.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	loans, err := uc.loans.FindByCustomerID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	now := uc.clock()
	out := make([]dto.CustomerLoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, dto.CustomerLoanResponse{
			LoanID:             l.ID(),
			LoanAmount:         l.Principal(),
			InterestRate:       l.AnnualRate(),
			MonthlyInstallment: l.MonthlyInstallment(),
			RepaymentsLeft:     l.InstallmentsRemaining(),
			Status:             l.Status(now).String(),
		})
	}
	return out, nil
}
