package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/application/usecase"
	"github.com/bibbank/credit-service/internal/domain/model"
)

// CreditHandler implements CreditServiceServer on top of the use cases.
type CreditHandler struct {
	uc     usecase.Set
	logger *slog.Logger
}

var _ CreditServiceServer = (*CreditHandler)(nil)

// NewCreditHandler creates a new handler with all use-case dependencies.
func NewCreditHandler(uc usecase.Set, logger *slog.Logger) *CreditHandler {
	return &CreditHandler{uc: uc, logger: logger}
}

func (h *CreditHandler) RegisterCustomer(ctx context.Context, req *dto.RegisterCustomerRequest) (*dto.CustomerResponse, error) {
	resp, err := h.uc.RegisterCustomer.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) CheckEligibility(ctx context.Context, req *dto.LoanRequest) (*dto.EligibilityResponse, error) {
	resp, err := h.uc.CheckEligibility.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// CreateLoan returns OK for declined requests too; LoanApproved tells the
// outcome.
func (h *CreditHandler) CreateLoan(ctx context.Context, req *dto.LoanRequest) (*dto.CreateLoanResponse, error) {
	resp, err := h.uc.CreateLoan.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) ViewLoan(ctx context.Context, req *dto.GetLoanRequest) (*dto.LoanResponse, error) {
	resp, err := h.uc.ViewLoan.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

func (h *CreditHandler) ListCustomerLoans(ctx context.Context, req *dto.ListCustomerLoansRequest) (*ListCustomerLoansResponse, error) {
	loans, err := h.uc.ListCustomerLoans.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	if loans == nil {
		loans = []dto.CustomerLoanResponse{}
	}
	return &ListCustomerLoansResponse{Loans: loans}, nil
}

func (h *CreditHandler) RecordRepayment(ctx context.Context, req *dto.RecordRepaymentRequest) (*dto.RepaymentResponse, error) {
	resp, err := h.uc.RecordRepayment.Execute(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// toStatus maps domain errors to gRPC status codes. Unrecognised errors are
// logged and reported as Internal without detail.
func (h *CreditHandler) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrCustomerNotFound), errors.Is(err, model.ErrLoanNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrDuplicatePhoneNumber):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		h.logger.ErrorContext(ctx, "grpc request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
