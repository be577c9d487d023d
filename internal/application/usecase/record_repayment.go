package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/port"
)

// RecordRepaymentUseCase records one installment of a loan as paid on time.
type RecordRepaymentUseCase struct {
	loans     port.LoanRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	clock     Clock
}

// NewRecordRepaymentUseCase wires dependencies.
func NewRecordRepaymentUseCase(
	loans port.LoanRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
	clock Clock,
) *RecordRepaymentUseCase {
	return &RecordRepaymentUseCase{
		loans:     loans,
		publisher: publisher,
		logger:    logger,
		clock:     clock,
	}
}

// Execute increments the loan's on-time installment count.
func (uc *RecordRepaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordRepaymentRequest,
) (resp dto.RepaymentResponse, err error) {
	ctx, span := tracer.Start(ctx, "RecordRepayment")
	defer func() { endSpan(span, err) }()

	if err := dto.Validate(req); err != nil {
		return dto.RepaymentResponse{}, err
	}
	now := uc.clock()

	// 1. Retrieve the loan.
	loan, err := uc.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Check the payment applies.
	if _, err := loan.RecordOnTimePayment(); err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("record payment: %w", err)
	}

	// 3. Persist. The store increments atomically, so the returned count
	// includes concurrent payments.
	loan, err = uc.loans.IncrementPaidOnTime(ctx, loan.ID())
	if err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish.
	evts := []event.DomainEvent{
		event.NewInstallmentPaid(loan.ID(), loan.CustomerID(), loan.PaidOnTime(), loan.InstallmentsRemaining(), now),
	}
	paidOff := loan.InstallmentsRemaining() == 0
	if paidOff {
		evts = append(evts, event.NewLoanPaidOff(loan.ID(), loan.CustomerID(), now))
	}
	publishAfterCommit(ctx, uc.publisher, uc.logger, evts...)

	return dto.RepaymentResponse{
		LoanID:         loan.ID(),
		CustomerID:     loan.CustomerID(),
		EMIsPaidOnTime: loan.PaidOnTime(),
		RepaymentsLeft: loan.InstallmentsRemaining(),
		PaidOff:        paidOff,
	}, nil
}
