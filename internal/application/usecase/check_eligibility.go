package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/port"
	"github.com/bibbank/credit-service/internal/domain/service"
)

// evaluator loads a consistent snapshot and runs the decider over it. It is
// shared by eligibility checks and loan creation.
type evaluator struct {
	snapshots port.SnapshotReader
	decider   *service.EligibilityDecider
	recorder  port.DecisionRecorder
}

func (e evaluator) evaluate(
	ctx context.Context,
	req dto.LoanRequest,
	asOf time.Time,
) (model.EligibilityDecision, error) {
	snap, err := e.snapshots.LoadSnapshot(ctx, req.CustomerID, asOf)
	if err != nil {
		return model.EligibilityDecision{}, fmt.Errorf("load snapshot: %w", err)
	}

	decision, err := e.decider.Decide(service.DecisionInput{
		Customer:        snap.Customer,
		RequestedAmount: req.LoanAmount,
		RequestedRate:   req.InterestRate,
		TenureMonths:    req.Tenure,
		History:         snap.History,
		ActiveLoans:     snap.ActiveLoans,
		AsOf:            asOf,
	})
	if err != nil {
		return model.EligibilityDecision{}, fmt.Errorf("decide: %w", err)
	}

	e.recorder.RecordDecision(ctx, decision)
	return decision, nil
}

// CheckEligibilityUseCase evaluates a loan request without creating a loan.
type CheckEligibilityUseCase struct {
	eval      evaluator
	publisher port.EventPublisher
	logger    *slog.Logger
	clock     Clock
}

// NewCheckEligibilityUseCase wires dependencies.
func NewCheckEligibilityUseCase(
	snapshots port.SnapshotReader,
	decider *service.EligibilityDecider,
	recorder port.DecisionRecorder,
	publisher port.EventPublisher,
	logger *slog.Logger,
	clock Clock,
) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{
		eval:      evaluator{snapshots: snapshots, decider: decider, recorder: recorder},
		publisher: publisher,
		logger:    logger,
		clock:     clock,
	}
}

// Execute returns the decision for req as of today.
func (uc *CheckEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.LoanRequest,
) (resp dto.EligibilityResponse, err error) {
	ctx, span := tracer.Start(ctx, "CheckEligibility")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("credit.customer_id", req.CustomerID))

	if err := dto.Validate(req); err != nil {
		return dto.EligibilityResponse{}, err
	}
	now := uc.clock()

	decision, err := uc.eval.evaluate(ctx, req, now)
	if err != nil {
		return dto.EligibilityResponse{}, err
	}
	span.SetAttributes(
		attribute.Bool("credit.approved", decision.Approved),
		attribute.Int("credit.score", decision.CreditScore),
	)

	publishAfterCommit(ctx, uc.publisher, uc.logger, event.NewEligibilityChecked(
		req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure,
		decision.Approved, decision.CreditScore, decision.EffectiveRate,
		decision.MonthlyInstallment, decision.RejectionReason.String(), now,
	))

	return dto.EligibilityResponse{
		CustomerID:            req.CustomerID,
		Approval:              decision.Approved,
		InterestRate:          req.InterestRate,
		CorrectedInterestRate: decision.EffectiveRate,
		Tenure:                req.Tenure,
		MonthlyInstallment:    decision.MonthlyInstallment,
		CreditScore:           decision.CreditScore,
		RejectionReason:       decision.RejectionReason.String(),
	}, nil
}
