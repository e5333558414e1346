package grpc_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/application/usecase"
	"github.com/bibbank/savings-analytics/internal/domain/event"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/internal/infrastructure/validation"
	analyticsgrpc "github.com/bibbank/savings-analytics/internal/presentation/grpc"
	"github.com/bibbank/savings-analytics/pkg/auth"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type mockPublisher struct {
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error
}

func (m *mockPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc == nil {
		return nil
	}
	return m.publishFunc(ctx, events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestServices() usecase.Services {
	clock := func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }
	limits := service.DefaultLimits()
	risk := service.NewRiskEngine(service.DefaultRiskPolicy(), limits)
	health := service.NewHealthEngine(service.DefaultHealthPolicy())
	projection := service.NewProjectionEngine(service.DefaultProjectionPolicy(), limits)
	aggregator := service.NewAggregator(health, risk, projection, service.DefaultAlertPolicy(), limits)
	v := validation.New()

	return usecase.Services{
		Risk:       usecase.NewRiskUseCase(risk, v),
		Health:     usecase.NewHealthUseCase(health, v, clock),
		Ranking:    usecase.NewRankingUseCase(service.NewRankingEngine(service.DefaultRankingPolicy(), limits), v),
		Projection: usecase.NewProjectionUseCase(projection, v, clock),
		Analytics:  usecase.NewAnalyticsUseCase(aggregator, &mockPublisher{}, v, clock, 12, testLogger()),
		Status:     usecase.NewStatusUseCase("savings-analytics", "test"),
	}
}

func newTestHandler() *analyticsgrpc.AnalyticsHandler {
	return analyticsgrpc.NewAnalyticsHandler(newTestServices(), testLogger())
}

func contextWithClaims(roles ...string) context.Context {
	return auth.ContextWithClaims(context.Background(), &auth.Claims{Roles: roles})
}

func requireGRPCCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	assert.Equal(t, want, st.Code(), "message: %s", st.Message())
}

func member(id int64) dto.MemberProfile {
	return dto.MemberProfile{
		UserID:              id,
		SeniorityMonths:     36,
		ContributionTotal:   120000,
		ContributionCount:   24,
		OnTimeCount:         24,
		LoanCount:           2,
		LoansRepaid:         2,
		AmountBorrowedTotal: 100000,
		AmountRepaidTotal:   100000,
	}
}

func group(id int64) dto.GroupProfile {
	return dto.GroupProfile{
		GroupID:               id,
		Name:                  "Umoja",
		ContributionAmount:    5000,
		Frequency:             "monthly",
		CycleDurationMonths:   12,
		ActiveMembers:         20,
		TotalBalance:          1_000_000,
		TotalContributions:    1_200_000,
		TotalActiveLoans:      300_000,
		ExpectedContributions: 240,
		ReceivedContributions: 240,
		TotalLoans:            10,
		ContributionTypes:     []string{"savings", "penalty", "repayment", "interest"},
		CreationDate:          "2024-01-01",
		AsOf:                  "2025-01-01",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAnalyticsHandler_Authorization(t *testing.T) {
	h := newTestHandler()
	req := &dto.RiskScoreRequest{Member: member(1)}

	tests := []struct {
		name string
		ctx  context.Context
		want codes.Code
	}{
		{name: "no claims", ctx: context.Background(), want: codes.Unauthenticated},
		{name: "unknown role", ctx: contextWithClaims("customer"), want: codes.PermissionDenied},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.ScoreMember(tc.ctx, req)
			requireGRPCCode(t, err, tc.want)
		})
	}

	for _, role := range []string{auth.RoleAdmin, auth.RoleBackend, auth.RoleAnalyst} {
		t.Run("role "+role, func(t *testing.T) {
			resp, err := h.ScoreMember(contextWithClaims(role), req)
			require.NoError(t, err)
			assert.Equal(t, "Low", resp.RiskLevel)
		})
	}
}

func TestAnalyticsHandler_ErrorMapping(t *testing.T) {
	h := newTestHandler()
	ctx := contextWithClaims(auth.RoleBackend)

	t.Run("nil request", func(t *testing.T) {
		_, err := h.ScoreMember(ctx, nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		_, err := h.ScoreMember(ctx, &dto.RiskScoreRequest{Member: dto.MemberProfile{}})
		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, status.Convert(err).Message(), "member.user_id")
	})

	t.Run("domain consistency error", func(t *testing.T) {
		g := group(7)
		g.LateLoans = 11
		_, err := h.AssessGroupHealth(ctx, &dto.GroupHealthRequest{Group: g})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})
}

func TestAnalyticsHandler_Operations(t *testing.T) {
	h := newTestHandler()
	ctx := contextWithClaims(auth.RoleAnalyst)

	t.Run("risk", func(t *testing.T) {
		factors, err := h.GetRiskFactors(ctx, &dto.RiskScoreRequest{Member: member(1)})
		require.NoError(t, err)
		assert.Len(t, factors.Factors, 4)

		batch, err := h.ScoreMembers(ctx, &dto.RiskBatchRequest{Members: []dto.RiskScoreRequest{{Member: member(1)}, {Member: member(2)}}})
		require.NoError(t, err)
		assert.Len(t, batch.Assessments, 2)

		limit, err := h.GetCreditLimit(ctx, &dto.CreditLimitRequest{Member: member(1)})
		require.NoError(t, err)
		assert.InDelta(t, 360000.0, limit.CreditLimit, 1e-9)
	})

	t.Run("health", func(t *testing.T) {
		assessment, err := h.AssessGroupHealth(ctx, &dto.GroupHealthRequest{Group: group(1)})
		require.NoError(t, err)
		assert.InDelta(t, 100.0, assessment.HealthScore, 1e-9)

		_, err = h.AnalyzeParticipation(ctx, &dto.GroupRequest{Group: group(1)})
		require.NoError(t, err)
		_, err = h.AnalyzeLoanPerformance(ctx, &dto.GroupRequest{Group: group(1)})
		require.NoError(t, err)
		_, err = h.AnalyzeGrowth(ctx, &dto.GroupRequest{Group: group(1)})
		require.NoError(t, err)
		_, err = h.BenchmarkGroup(ctx, &dto.GroupRequest{Group: group(1)})
		require.NoError(t, err)
	})

	t.Run("ranking", func(t *testing.T) {
		resp, err := h.RankMembers(ctx, &dto.RankingRequest{GroupID: 1, Members: []dto.MemberProfile{member(1), member(2)}})
		require.NoError(t, err)
		require.Len(t, resp.Rankings, 2)
		assert.Equal(t, 1, resp.Rankings[0].Rank)
		assert.Equal(t, 1, resp.Rankings[1].Rank, "equal scores share a rank")
	})

	t.Run("projection", func(t *testing.T) {
		req := &dto.ProjectionRequest{Group: group(1), HorizonMonths: 6}

		fund, err := h.ProjectFund(ctx, req)
		require.NoError(t, err)
		assert.Len(t, fund.Projections, 6)

		_, err = h.AnalyzeScenarios(ctx, req)
		require.NoError(t, err)
		_, err = h.GetLoanCapacity(ctx, req)
		require.NoError(t, err)
		_, err = h.ProjectInterest(ctx, req)
		require.NoError(t, err)

		_, err = h.PlanSavingsGoal(ctx, &dto.SavingsGoalRequest{Group: group(1), TargetAmount: 1_100_000})
		require.NoError(t, err)

		_, err = h.SimulateCycle(ctx, &dto.CycleSimulationRequest{
			Members:            10,
			ContributionAmount: 1000,
			Frequency:          "monthly",
			DurationMonths:     12,
			StartDate:          "2025-01-01",
			ParticipationRate:  1,
		})
		require.NoError(t, err)
	})

	t.Run("portfolio", func(t *testing.T) {
		dash, err := h.GetDashboard(ctx, &dto.DashboardRequest{Groups: []dto.GroupProfile{group(1)}})
		require.NoError(t, err)
		assert.Equal(t, 1, dash.Summary.GroupCount)

		_, err = h.GetTrends(ctx, &dto.TrendsRequest{Group: group(1)})
		require.NoError(t, err)

		alerts, err := h.GetAlerts(ctx, &dto.GroupRequest{Group: group(1)})
		require.NoError(t, err)
		assert.Empty(t, alerts.Alerts)

		cmp, err := h.CompareGroups(ctx, &dto.CompareRequest{Groups: []dto.GroupProfile{group(1), group(2)}})
		require.NoError(t, err)
		assert.Len(t, cmp.Overall, 2)
	})
}

func TestAnalyticsHandler_GetStatus(t *testing.T) {
	resp, err := newTestHandler().GetStatus(context.Background(), &dto.StatusRequest{})
	require.NoError(t, err)
	assert.Equal(t, "savings-analytics", resp.Service)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, "operational", resp.Status)
}
