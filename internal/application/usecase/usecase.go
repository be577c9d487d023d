package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/port"
)

var tracer = otel.Tracer("github.com/bibbank/credit-service/internal/application/usecase")

// Clock returns the current time. Use cases read "today" through it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// publishAfterCommit publishes events for a change that is already durable.
// A failure is logged rather than returned so callers do not retry a write
// that succeeded.
func publishAfterCommit(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, evts ...event.DomainEvent) {
	if err := publisher.Publish(ctx, evts...); err != nil {
		for _, evt := range evts {
			logger.ErrorContext(ctx, "failed to publish domain event",
				"event_type", evt.EventType(),
				"event_id", evt.EventID(),
				"aggregate_id", evt.AggregateID(),
				"error", err,
			)
		}
	}
}

// endSpan records err on span before ending it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
