package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/port"
)

// ViewLoanUseCase retrieves a loan with its customer and repayment schedule.
type ViewLoanUseCase struct {
	loans     port.LoanRepository
	customers port.CustomerRepository
	clock     Clock
}

// NewViewLoanUseCase wires dependencies.
func NewViewLoanUseCase(loans port.LoanRepository, customers port.CustomerRepository, clock Clock) *ViewLoanUseCase {
	return &ViewLoanUseCase{loans: loans, customers: customers, clock: clock}
}

// Execute returns the loan response for the given ID.
func (uc *ViewLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.LoanResponse{}, err
	}

	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	customer, err := uc.customers.FindByID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	resp := toLoanResponse(loan, uc.clock())
	resp.Customer = dto.LoanCustomerResponse{
		ID:          customer.ID(),
		FirstName:   customer.FirstName(),
		LastName:    customer.LastName(),
		PhoneNumber: customer.PhoneNumber(),
		Age:         customer.Age(),
	}
	return resp, nil
}

func toLoanResponse(loan model.Loan, now time.Time) dto.LoanResponse {
	sched := loan.Schedule()
	entries := make([]dto.AmortizationEntryResponse, 0, len(sched))
	for _, e := range sched {
		entries = append(entries, dto.AmortizationEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Principal:        e.Principal,
			Interest:         e.Interest,
			Total:            e.Total,
			RemainingBalance: e.RemainingBalance,
		})
	}

	return dto.LoanResponse{
		LoanID:             loan.ID(),
		LoanAmount:         loan.Principal(),
		InterestRate:       loan.AnnualRate(),
		MonthlyInstallment: loan.MonthlyInstallment(),
		Tenure:             loan.TenureMonths(),
		EMIsPaidOnTime:     loan.PaidOnTime(),
		StartDate:          loan.StartDate(),
		EndDate:            loan.EndDate(),
		Status:             loan.Status(now).String(),
		Schedule:           entries,
	}
}
