package rest_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/application/usecase"
)

type mockRegistrar struct {
	fn func(ctx context.Context, req dto.RegisterCustomerRequest) (dto.CustomerResponse, error)
}

func (m mockRegistrar) Execute(ctx context.Context, req dto.RegisterCustomerRequest) (dto.CustomerResponse, error) {
	return m.fn(ctx, req)
}

type mockEligibility struct {
	fn func(ctx context.Context, req dto.LoanRequest) (dto.EligibilityResponse, error)
}

func (m mockEligibility) Execute(ctx context.Context, req dto.LoanRequest) (dto.EligibilityResponse, error) {
	return m.fn(ctx, req)
}

type mockLoanCreator struct {
	fn func(ctx context.Context, req dto.LoanRequest) (dto.CreateLoanResponse, error)
}

func (m mockLoanCreator) Execute(ctx context.Context, req dto.LoanRequest) (dto.CreateLoanResponse, error) {
	return m.fn(ctx, req)
}

type mockLoanViewer struct {
	fn func(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error)
}

func (m mockLoanViewer) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error) {
	return m.fn(ctx, req)
}

type mockLoansLister struct {
	fn func(ctx context.Context, req dto.ListCustomerLoansRequest) ([]dto.CustomerLoanResponse, error)
}

func (m mockLoansLister) Execute(ctx context.Context, req dto.ListCustomerLoansRequest) ([]dto.CustomerLoanResponse, error) {
	return m.fn(ctx, req)
}

type mockRepayments struct {
	fn func(ctx context.Context, req dto.RecordRepaymentRequest) (dto.RepaymentResponse, error)
}

func (m mockRepayments) Execute(ctx context.Context, req dto.RecordRepaymentRequest) (dto.RepaymentResponse, error) {
	return m.fn(ctx, req)
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// unusedSet fails the test through a panic if an unexpected use case runs.
func unusedSet() usecase.Set {
	return usecase.Set{
		RegisterCustomer: mockRegistrar{fn: func(context.Context, dto.RegisterCustomerRequest) (dto.CustomerResponse, error) {
			panic("unexpected RegisterCustomer call")
		}},
		CheckEligibility: mockEligibility{fn: func(context.Context, dto.LoanRequest) (dto.EligibilityResponse, error) {
			panic("unexpected CheckEligibility call")
		}},
		CreateLoan: mockLoanCreator{fn: func(context.Context, dto.LoanRequest) (dto.CreateLoanResponse, error) {
			panic("unexpected CreateLoan call")
		}},
		ViewLoan: mockLoanViewer{fn: func(context.Context, dto.GetLoanRequest) (dto.LoanResponse, error) {
			panic("unexpected ViewLoan call")
		}},
		ListCustomerLoans: mockLoansLister{fn: func(context.Context, dto.ListCustomerLoansRequest) ([]dto.CustomerLoanResponse, error) {
			panic("unexpected ListCustomerLoans call")
		}},
		RecordRepayment: mockRepayments{fn: func(context.Context, dto.RecordRepaymentRequest) (dto.RepaymentResponse, error) {
			panic("unexpected RecordRepayment call")
		}},
	}
}
