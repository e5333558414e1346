package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/application/usecase"
	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// analyticsRoles may call every analytics method.
var analyticsRoles = []string{auth.RoleAdmin, auth.RoleBackend, auth.RoleAnalyst}

// Compile-time assertion that AnalyticsHandler implements AnalyticsServiceServer.
var _ AnalyticsServiceServer = (*AnalyticsHandler)(nil)

// AnalyticsHandler implements the gRPC AnalyticsServiceServer interface.
type AnalyticsHandler struct {
	UnimplementedAnalyticsServiceServer
	uc     usecase.Services
	logger *slog.Logger
}

// NewAnalyticsHandler creates a new gRPC handler.
func NewAnalyticsHandler(uc usecase.Services, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc, logger: logger}
}

// invoke authorizes the caller, runs fn and maps its error to a status.
func invoke[Req, Resp any](ctx context.Context, h *AnalyticsHandler, op string, req *Req, fn func(context.Context, Req) (Resp, error)) (*Resp, error) {
	if err := requireRole(ctx, analyticsRoles...); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := fn(ctx, *req)
	if err != nil {
		return nil, h.toStatus(ctx, op, err)
	}
	return &resp, nil
}

// toStatus maps application errors onto gRPC status codes. Internal details
// are logged, never returned.
func (h *AnalyticsHandler) toStatus(ctx context.Context, op string, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		h.logger.ErrorContext(ctx, "analytics operation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		return status.Error(codes.Internal, "internal error")
	}
}

// ScoreMember scores one member.
func (h *AnalyticsHandler) ScoreMember(ctx context.Context, req *dto.RiskScoreRequest) (*dto.RiskAssessmentResponse, error) {
	return invoke(ctx, h, "ScoreMember", req, h.uc.Risk.Score)
}

// GetRiskFactors returns the factor breakdown of a member's score.
func (h *AnalyticsHandler) GetRiskFactors(ctx context.Context, req *dto.RiskScoreRequest) (*dto.RiskFactorsResponse, error) {
	return invoke(ctx, h, "GetRiskFactors", req, h.uc.Risk.Factors)
}

// ScoreMembers scores a batch of members.
func (h *AnalyticsHandler) ScoreMembers(ctx context.Context, req *dto.RiskBatchRequest) (*dto.RiskBatchResponse, error) {
	return invoke(ctx, h, "ScoreMembers", req, h.uc.Risk.Batch)
}

// GetCreditLimit returns a member's recommended borrowing limit.
func (h *AnalyticsHandler) GetCreditLimit(ctx context.Context, req *dto.CreditLimitRequest) (*dto.CreditLimitResponse, error) {
	return invoke(ctx, h, "GetCreditLimit", req, h.uc.Risk.CreditLimit)
}

// AssessGroupHealth scores a group's health.
func (h *AnalyticsHandler) AssessGroupHealth(ctx context.Context, req *dto.GroupHealthRequest) (*dto.GroupHealthResponse, error) {
	return invoke(ctx, h, "AssessGroupHealth", req, h.uc.Health.Assess)
}

// AnalyzeParticipation analyses contribution participation.
func (h *AnalyticsHandler) AnalyzeParticipation(ctx context.Context, req *dto.GroupRequest) (*dto.ParticipationResponse, error) {
	return invoke(ctx, h, "AnalyzeParticipation", req, h.uc.Health.Participation)
}

// AnalyzeLoanPerformance analyses a group's loan book.
func (h *AnalyticsHandler) AnalyzeLoanPerformance(ctx context.Context, req *dto.GroupRequest) (*dto.LoanPerformanceResponse, error) {
	return invoke(ctx, h, "AnalyzeLoanPerformance", req, h.uc.Health.LoanPerformance)
}

// AnalyzeGrowth analyses a group's age and growth stage.
func (h *AnalyticsHandler) AnalyzeGrowth(ctx context.Context, req *dto.GroupRequest) (*dto.GrowthResponse, error) {
	return invoke(ctx, h, "AnalyzeGrowth", req, h.uc.Health.Growth)
}

// BenchmarkGroup compares a group with the sector references.
func (h *AnalyticsHandler) BenchmarkGroup(ctx context.Context, req *dto.GroupRequest) (*dto.BenchmarkResponse, error) {
	return invoke(ctx, h, "BenchmarkGroup", req, h.uc.Health.Benchmark)
}

// RankMembers ranks the members of a group.
func (h *AnalyticsHandler) RankMembers(ctx context.Context, req *dto.RankingRequest) (*dto.RankingResponse, error) {
	return invoke(ctx, h, "RankMembers", req, h.uc.Ranking.Execute)
}

// ProjectFund projects a group fund month by month.
func (h *AnalyticsHandler) ProjectFund(ctx context.Context, req *dto.ProjectionRequest) (*dto.ProjectionResponse, error) {
	return invoke(ctx, h, "ProjectFund", req, h.uc.Projection.Project)
}

// AnalyzeScenarios runs the three projection scenarios.
func (h *AnalyticsHandler) AnalyzeScenarios(ctx context.Context, req *dto.ProjectionRequest) (*dto.ScenarioResponse, error) {
	return invoke(ctx, h, "AnalyzeScenarios", req, h.uc.Projection.Scenarios)
}

// SimulateCycle simulates a savings cycle and its share-out.
func (h *AnalyticsHandler) SimulateCycle(ctx context.Context, req *dto.CycleSimulationRequest) (*dto.CycleSimulationResponse, error) {
	return invoke(ctx, h, "SimulateCycle", req, h.uc.Projection.SimulateCycle)
}

// PlanSavingsGoal finds when a group reaches a savings target.
func (h *AnalyticsHandler) PlanSavingsGoal(ctx context.Context, req *dto.SavingsGoalRequest) (*dto.SavingsGoalResponse, error) {
	return invoke(ctx, h, "PlanSavingsGoal", req, h.uc.Projection.SavingsGoal)
}

// GetLoanCapacity reports a group's lending capacity.
func (h *AnalyticsHandler) GetLoanCapacity(ctx context.Context, req *dto.ProjectionRequest) (*dto.LoanCapacityResponse, error) {
	return invoke(ctx, h, "GetLoanCapacity", req, h.uc.Projection.LoanCapacity)
}

// ProjectInterest reports the interest earned over a horizon.
func (h *AnalyticsHandler) ProjectInterest(ctx context.Context, req *dto.ProjectionRequest) (*dto.InterestProjectionResponse, error) {
	return invoke(ctx, h, "ProjectInterest", req, h.uc.Projection.InterestProjection)
}

// GetDashboard builds the portfolio dashboard.
func (h *AnalyticsHandler) GetDashboard(ctx context.Context, req *dto.DashboardRequest) (*dto.DashboardResponse, error) {
	return invoke(ctx, h, "GetDashboard", req, h.uc.Analytics.Dashboard)
}

// GetTrends compares a group with a baseline.
func (h *AnalyticsHandler) GetTrends(ctx context.Context, req *dto.TrendsRequest) (*dto.TrendsResponse, error) {
	return invoke(ctx, h, "GetTrends", req, h.uc.Analytics.Trends)
}

// GetAlerts evaluates the alert rules on a group.
func (h *AnalyticsHandler) GetAlerts(ctx context.Context, req *dto.GroupRequest) (*dto.AlertsResponse, error) {
	return invoke(ctx, h, "GetAlerts", req, h.uc.Analytics.Alerts)
}

// CompareGroups ranks groups against each other.
func (h *AnalyticsHandler) CompareGroups(ctx context.Context, req *dto.CompareRequest) (*dto.CompareResponse, error) {
	return invoke(ctx, h, "CompareGroups", req, h.uc.Analytics.Compare)
}

// GetStatus reports the service status. It needs no role.
func (h *AnalyticsHandler) GetStatus(ctx context.Context, _ *dto.StatusRequest) (*dto.StatusResponse, error) {
	resp, err := h.uc.Status.Execute(ctx, dto.StatusRequest{})
	if err != nil {
		return nil, h.toStatus(ctx, "GetStatus", err)
	}
	return &resp, nil
}
