package usecase

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/savings-analytics/pkg/observability"
)

// Validator checks request payloads before they are mapped to the domain.
type Validator interface {
	Struct(s any) error
}

// Services bundles the use cases exposed by the transports.
type Services struct {
	Risk       *RiskUseCase
	Health     *HealthUseCase
	Ranking    *RankingUseCase
	Projection *ProjectionUseCase
	Analytics  *AnalyticsUseCase
	Status     *StatusUseCase
}

// Clock returns the current time. AsOf dates default to its calendar day.
type Clock func() time.Time

var tracer = observability.Tracer("github.com/bibbank/savings-analytics/internal/application/usecase")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// endSpan records err on the span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func today(clock Clock) time.Time {
	now := clock().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
