package rest

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/bibbank/savings-analytics/pkg/auth"
	"github.com/bibbank/savings-analytics/pkg/observability"
)

// StatusPath is served without authentication.
const StatusPath = "/api/v1/status"

// RouterConfig collects the pieces of the HTTP surface.
type RouterConfig struct {
	Analytics *AnalyticsHandler
	Health    *HealthHandler
	Verifier  auth.Verifier
	Metrics   *observability.Metrics
	Limiter   *rate.Limiter
	Logger    *slog.Logger
}

// NewRouter wires the public probes, the metrics endpoint and the
// authenticated, rate-limited API.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(cfg.Logger), MetricsMiddleware(cfg.Metrics))

	cfg.Health.RegisterRoutes(r)
	if cfg.Metrics != nil && cfg.Metrics.Handler != nil {
		r.Handle("/metrics", cfg.Metrics.Handler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(RateLimitMiddleware(cfg.Limiter), auth.HTTPMiddleware(cfg.Verifier, []string{StatusPath}))
	cfg.Analytics.RegisterRoutes(api)

	return r
}
