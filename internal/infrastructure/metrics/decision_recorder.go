package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/credit-service/internal/domain/model"
)

const (
	outcomeApproved = "approved"
	outcomeRejected = "rejected"
	reasonNone      = "none"
)

// DecisionRecorder implements port.DecisionRecorder with OpenTelemetry
// instruments. Served through the Prometheus exporter the counter appears as
// credit_decisions_total.
type DecisionRecorder struct {
	decisions metric.Int64Counter
	scores    metric.Int64Histogram
}

// NewDecisionRecorder registers the decision instruments on meter.
func NewDecisionRecorder(meter metric.Meter) (*DecisionRecorder, error) {
	decisions, err := meter.Int64Counter("credit_decisions",
		metric.WithDescription("Eligibility decisions by outcome and rejection reason."),
	)
	if err != nil {
		return nil, fmt.Errorf("create decisions counter: %w", err)
	}

	scores, err := meter.Int64Histogram("credit_score",
		metric.WithDescription("Credit scores computed for eligibility decisions."),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("create score histogram: %w", err)
	}

	return &DecisionRecorder{decisions: decisions, scores: scores}, nil
}

func (r *DecisionRecorder) RecordDecision(ctx context.Context, d model.EligibilityDecision) {
	outcome, reason := outcomeApproved, reasonNone
	if !d.Approved {
		outcome, reason = outcomeRejected, d.RejectionReason.String()
	}

	r.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("reason", reason),
	))
	r.scores.Record(ctx, int64(d.CreditScore), metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
