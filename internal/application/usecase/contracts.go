package usecase

import (
	"context"

	"github.com/bibbank/credit-service/internal/application/dto"
)

// The interfaces below are what transports depend on. Each is satisfied by
// the use case of the same operation.

type CustomerRegistrar interface {
	Execute(ctx context.Context, req dto.RegisterCustomerRequest) (dto.CustomerResponse, error)
}

type EligibilityChecker interface {
	Execute(ctx context.Context, req dto.LoanRequest) (dto.EligibilityResponse, error)
}

type LoanCreator interface {
	Execute(ctx context.Context, req dto.LoanRequest) (dto.CreateLoanResponse, error)
}

type LoanViewer interface {
	Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error)
}

type CustomerLoansLister interface {
	Execute(ctx context.Context, req dto.ListCustomerLoansRequest) ([]dto.CustomerLoanResponse, error)
}

type RepaymentRecorder interface {
	Execute(ctx context.Context, req dto.RecordRepaymentRequest) (dto.RepaymentResponse, error)
}

// Set groups the operations exposed by the service.
type Set struct {
	RegisterCustomer  CustomerRegistrar
	CheckEligibility  EligibilityChecker
	CreateLoan        LoanCreator
	ViewLoan          LoanViewer
	ListCustomerLoans CustomerLoansLister
	RecordRepayment   RepaymentRecorder
}

var (
	_ CustomerRegistrar   = (*RegisterCustomerUseCase)(nil)
	_ EligibilityChecker  = (*CheckEligibilityUseCase)(nil)
	_ LoanCreator         = (*CreateLoanUseCase)(nil)
	_ LoanViewer          = (*ViewLoanUseCase)(nil)
	_ CustomerLoansLister = (*ListCustomerLoansUseCase)(nil)
	_ RepaymentRecorder   = (*RecordRepaymentUseCase)(nil)
)
