package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// Registry is used instead of the global Prometheus registry when set.
	Registry *prometheus.Registry
}

// Metrics holds the request instruments shared by the gRPC and HTTP
// transports. A nil *Metrics records nothing.
type Metrics struct {
	Provider *sdkmetric.MeterProvider
	Handler  http.Handler

	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// InitMetrics initializes the Prometheus metrics exporter and the request
// instruments. Handler serves the /metrics endpoint.
func InitMetrics(cfg MetricsConfig) (*Metrics, error) {
	var opts []promexporter.Option
	handler := promhttp.Handler()
	if cfg.Registry != nil {
		opts = append(opts, promexporter.WithRegisterer(cfg.Registry))
		handler = promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})
	}

	exporter, err := promexporter.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	meter := provider.Meter(cfg.ServiceName)

	requests, err := meter.Int64Counter("analytics_requests_total",
		metric.WithDescription("Requests handled, by transport, operation and outcome."))
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	duration, err := meter.Float64Histogram("analytics_request_duration_seconds",
		metric.WithDescription("Request latency in seconds."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Metrics{
		Provider: provider,
		Handler:  handler,
		requests: requests,
		duration: duration,
	}, nil
}

// RecordRequest counts one request and its latency.
func (m *Metrics) RecordRequest(ctx context.Context, transport, operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("transport", transport),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.Provider == nil {
		return nil
	}
	return m.Provider.Shutdown(ctx)
}
