package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/application/usecase"
	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/pkg/auth"
)

// maxBodyBytes bounds request payloads; the largest legitimate body is a
// dashboard of 200 groups.
const maxBodyBytes = 4 << 20

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// analyticsRoles may call every analytics route.
var analyticsRoles = []string{auth.RoleAdmin, auth.RoleBackend, auth.RoleAnalyst}

// AnalyticsHandler exposes the analytics use cases as a JSON API.
type AnalyticsHandler struct {
	uc     usecase.Services
	logger *slog.Logger
}

// NewAnalyticsHandler creates the JSON API handler.
func NewAnalyticsHandler(uc usecase.Services, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, logger: logger}
}

// RegisterRoutes attaches the API routes to a router mounted at /api/v1.
func (h *AnalyticsHandler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/status", h.status).Methods(http.MethodGet)

	// Member risk
	api.HandleFunc("/risk-score", handle(h, "ScoreMember", h.uc.Risk.Score)).Methods(http.MethodPost)
	api.HandleFunc("/risk-score/batch", handle(h, "ScoreMembers", h.uc.Risk.Batch)).Methods(http.MethodPost)
	api.HandleFunc("/risk-factors", handle(h, "GetRiskFactors", h.uc.Risk.Factors)).Methods(http.MethodPost)
	api.HandleFunc("/credit-limit", handle(h, "GetCreditLimit", h.uc.Risk.CreditLimit)).Methods(http.MethodPost)

	// Group health
	api.HandleFunc("/group-health", handle(h, "AssessGroupHealth", h.uc.Health.Assess)).Methods(http.MethodPost)
	api.HandleFunc("/participation-analysis", handle(h, "AnalyzeParticipation", h.uc.Health.Participation)).Methods(http.MethodPost)
	api.HandleFunc("/loan-performance", handle(h, "AnalyzeLoanPerformance", h.uc.Health.LoanPerformance)).Methods(http.MethodPost)
	api.HandleFunc("/growth-analysis", handle(h, "AnalyzeGrowth", h.uc.Health.Growth)).Methods(http.MethodPost)
	api.HandleFunc("/benchmark", handle(h, "BenchmarkGroup", h.uc.Health.Benchmark)).Methods(http.MethodPost)

	// Ranking
	api.HandleFunc("/member-ranking", handle(h, "RankMembers", h.uc.Ranking.Execute)).Methods(http.MethodPost)

	// Projections
	api.HandleFunc("/financial-projection", handle(h, "ProjectFund", h.uc.Projection.Project)).Methods(http.MethodPost)
	api.HandleFunc("/scenario-analysis", handle(h, "AnalyzeScenarios", h.uc.Projection.Scenarios)).Methods(http.MethodPost)
	api.HandleFunc("/cycle-simulation", handle(h, "SimulateCycle", h.uc.Projection.SimulateCycle)).Methods(http.MethodPost)
	api.HandleFunc("/savings-goal", handle(h, "PlanSavingsGoal", h.uc.Projection.SavingsGoal)).Methods(http.MethodPost)
	api.HandleFunc("/loan-capacity", handle(h, "GetLoanCapacity", h.uc.Projection.LoanCapacity)).Methods(http.MethodPost)
	api.HandleFunc("/interest-projection", handle(h, "ProjectInterest", h.uc.Projection.InterestProjection)).Methods(http.MethodPost)

	// Portfolio analytics
	analytics := api.PathPrefix("/analytics").Subrouter()
	analytics.HandleFunc("/dashboard", handle(h, "GetDashboard", h.uc.Analytics.Dashboard)).Methods(http.MethodPost)
	analytics.HandleFunc("/trends", handle(h, "GetTrends", h.uc.Analytics.Trends)).Methods(http.MethodPost)
	analytics.HandleFunc("/alerts", handle(h, "GetAlerts", h.uc.Analytics.Alerts)).Methods(http.MethodPost)
	analytics.HandleFunc("/compare-groups", handle(h, "CompareGroups", h.uc.Analytics.Compare)).Methods(http.MethodPost)
}

func (h *AnalyticsHandler) status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.uc.Status.Execute(r.Context(), dto.StatusRequest{})
	if err != nil {
		h.writeError(w, r, "GetStatus", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handle adapts a use case to an authorized JSON endpoint.
func handle[Req, Resp any](h *AnalyticsHandler, op string, fn func(context.Context, Req) (Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if code, msg := authorize(r.Context()); code != 0 {
			writeJSON(w, code, errorBody{Error: msg})
			return
		}

		var req Req
		if err := decode(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			h.writeError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// authorize returns a non-zero HTTP status when the caller may not use the API.
func authorize(ctx context.Context) (int, string) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return http.StatusUnauthorized, "authentication required"
	}
	for _, role := range analyticsRoles {
		if claims.HasRole(role) {
			return 0, ""
		}
	}
	return http.StatusForbidden, "insufficient permissions"
}

// decode reads a single JSON object with a closed field set.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("malformed request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func (h *AnalyticsHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, model.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "request canceled"})
	default:
		h.logger.ErrorContext(r.Context(), "analytics operation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
