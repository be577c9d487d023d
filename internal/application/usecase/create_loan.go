package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/port"
	"github.com/bibbank/credit-service/internal/domain/service"
)

const loanApprovedMessage = "loan approved"

// CreateLoanUseCase re-runs the eligibility decision and, when approved,
// records the loan at the effective rate.
type CreateLoanUseCase struct {
	eval      evaluator
	loans     port.LoanRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	clock     Clock
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	snapshots port.SnapshotReader,
	decider *service.EligibilityDecider,
	recorder port.DecisionRecorder,
	loans port.LoanRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
	clock Clock,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		eval:      evaluator{snapshots: snapshots, decider: decider, recorder: recorder},
		loans:     loans,
		publisher: publisher,
		logger:    logger,
		clock:     clock,
	}
}

// Execute processes a loan request. A rejection is a successful response with
// LoanApproved false.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.LoanRequest,
) (resp dto.CreateLoanResponse, err error) {
	ctx, span := tracer.Start(ctx, "CreateLoan")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("credit.customer_id", req.CustomerID))

	if err := dto.Validate(req); err != nil {
		return dto.CreateLoanResponse{}, err
	}
	now := uc.clock()

	// 1. Decide.
	decision, err := uc.eval.evaluate(ctx, req, now)
	if err != nil {
		return dto.CreateLoanResponse{}, err
	}

	if !decision.Approved {
		publishAfterCommit(ctx, uc.publisher, uc.logger, event.NewLoanRejected(
			req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure,
			decision.CreditScore, decision.RejectionReason.String(), now,
		))
		uc.logger.InfoContext(ctx, "loan rejected",
			"customer_id", req.CustomerID,
			"credit_score", decision.CreditScore,
			"reason", decision.RejectionReason.String(),
		)
		return dto.CreateLoanResponse{
			CustomerID:         req.CustomerID,
			LoanApproved:       false,
			Message:            decision.RejectionReason.Message(),
			MonthlyInstallment: decimal.Zero,
		}, nil
	}

	// 2. Build the loan at the effective rate.
	loan, err := model.NewLoan(
		req.CustomerID, req.LoanAmount, req.Tenure,
		decision.EffectiveRate.Decimal, decision.MonthlyInstallment, now,
	)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 3. Persist.
	loan, err = uc.loans.Create(ctx, loan)
	if err != nil {
		return dto.CreateLoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Publish.
	publishAfterCommit(ctx, uc.publisher, uc.logger, event.NewLoanApproved(
		loan.ID(), loan.CustomerID(), loan.Principal(), loan.AnnualRate(), loan.MonthlyInstallment(),
		loan.TenureMonths(), decision.CreditScore, loan.StartDate(), loan.EndDate(), now,
	))

	uc.logger.InfoContext(ctx, "loan approved",
		"loan_id", loan.ID(),
		"customer_id", loan.CustomerID(),
		"credit_score", decision.CreditScore,
		"interest_rate", loan.AnnualRate().String(),
	)

	loanID := loan.ID()
	return dto.CreateLoanResponse{
		LoanID:             &loanID,
		CustomerID:         loan.CustomerID(),
		LoanApproved:       true,
		Message:            loanApprovedMessage,
		MonthlyInstallment: loan.MonthlyInstallment(),
	}, nil
}
