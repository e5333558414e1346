package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/event"
	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/port"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/pkg/events"
)

// AnalyticsUseCase serves the portfolio views that combine several engines.
type AnalyticsUseCase struct {
	aggregator     *service.Aggregator
	publisher      port.EventPublisher
	validator      Validator
	clock          Clock
	defaultHorizon int
	logger         *slog.Logger
}

// NewAnalyticsUseCase wires dependencies.
func NewAnalyticsUseCase(
	aggregator *service.Aggregator,
	publisher port.EventPublisher,
	validator Validator,
	clock Clock,
	defaultHorizon int,
	logger *slog.Logger,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		aggregator:     aggregator,
		publisher:      publisher,
		validator:      validator,
		clock:          clock,
		defaultHorizon: defaultHorizon,
		logger:         logger,
	}
}

// Alerts evaluates the alert rules on a group and publishes an AlertRaised
// event per alert. A publishing failure is logged and does not fail the call.
func (uc *AnalyticsUseCase) Alerts(ctx context.Context, req dto.GroupRequest) (resp dto.AlertsResponse, err error) {
	ctx, span := startSpan(ctx, "analytics.alerts")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.AlertsResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.AlertsResponse{}, err
	}
	alerts, err := uc.aggregator.Alerts(g)
	if err != nil {
		return dto.AlertsResponse{}, fmt.Errorf("alerts for group %d: %w", g.GroupID, err)
	}

	var collector events.EventCollector
	for _, a := range alerts {
		collector.Record(event.NewAlertRaised(a))
	}
	if pending := collector.ClearEvents(); len(pending) > 0 {
		if err := uc.publisher.Publish(ctx, pending...); err != nil {
			uc.logger.ErrorContext(ctx, "failed to publish alert events",
				"group_id", g.GroupID,
				"count", len(pending),
				"error", err,
			)
		}
	}

	return dto.AlertsResponse{GroupID: g.GroupID, Alerts: toAlerts(alerts)}, nil
}

// Dashboard builds the portfolio dashboard. Groups that fail validation are
// reported in Failures with their position in the request.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context, req dto.DashboardRequest) (resp dto.DashboardResponse, err error) {
	_, span := startSpan(ctx, "analytics.dashboard")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.DashboardResponse{}, err
	}
	horizon := req.HorizonMonths
	if horizon == 0 {
		horizon = uc.defaultHorizon
	}

	asOf := today(uc.clock)
	failures := []dto.ItemFailure{}
	groups := make([]model.GroupProfile, 0, len(req.Groups))
	positions := make([]int, 0, len(req.Groups))
	for i, raw := range req.Groups {
		if err := uc.validator.Struct(raw); err != nil {
			failures = append(failures, toFailure(i, raw.GroupID, err))
			continue
		}
		g, err := toGroup(raw, asOf)
		if err != nil {
			failures = append(failures, toFailure(i, raw.GroupID, err))
			continue
		}
		groups = append(groups, g)
		positions = append(positions, i)
	}

	if len(groups) == 0 {
		return dto.DashboardResponse{
			HorizonMonths: horizon,
			Summary: dto.PortfolioSummary{
				LevelDistribution: map[string]int{},
				AlertsBySeverity:  map[string]int{},
			},
			Groups:          []dto.GroupDashboard{},
			Alerts:          []dto.Alert{},
			Recommendations: []string{},
			Failures:        failures,
		}, nil
	}

	dash, err := uc.aggregator.Dashboard(groups, horizon)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("dashboard: %w", err)
	}
	for _, f := range dash.Failures {
		failures = append(failures, toFailure(positions[f.Index], f.GroupID, f.Err))
	}
	return toDashboardResponse(dash, failures), nil
}

func toDashboardResponse(dash model.Dashboard, failures []dto.ItemFailure) dto.DashboardResponse {
	s := dash.Summary
	resp := dto.DashboardResponse{
		HorizonMonths: dash.HorizonMonths,
		Summary: dto.PortfolioSummary{
			GroupCount:         s.GroupCount,
			TotalMembers:       s.TotalMembers,
			ActiveMembers:      s.ActiveMembers,
			TotalBalance:       money(s.TotalBalance),
			TotalContributions: money(s.TotalContributions),
			TotalActiveLoans:   money(s.TotalActiveLoans),
			ProjectedBalance:   money(s.ProjectedBalance),
			AverageHealth:      s.AverageHealth,
			LevelDistribution:  s.LevelDistribution,
			AlertsBySeverity:   make(map[string]int, len(s.AlertsBySeverity)),
		},
		Groups:          make([]dto.GroupDashboard, 0, len(dash.Groups)),
		Alerts:          toAlerts(dash.Alerts),
		Recommendations: nonNil(dash.Recommendations),
		Failures:        failures,
	}
	for sev, n := range s.AlertsBySeverity {
		resp.Summary.AlertsBySeverity[string(sev)] = n
	}
	for _, g := range dash.Groups {
		section := dto.GroupDashboard{
			GroupID:          g.GroupID,
			Name:             g.Name,
			Health:           toHealthResponse(g.Health),
			Alerts:           toAlerts(g.Alerts),
			ProjectedBalance: money(g.ProjectedBalance),
		}
		if g.Risk != nil {
			section.Risk = &dto.GroupRiskSummary{
				Assessed:  g.Risk.Assessed,
				MeanScore: g.Risk.MeanScore,
				AtRisk:    g.Risk.AtRisk,
			}
		}
		resp.Groups = append(resp.Groups, section)
	}
	return resp
}

// Trends compares a group with a previous observation.
func (uc *AnalyticsUseCase) Trends(ctx context.Context, req dto.TrendsRequest) (resp dto.TrendsResponse, err error) {
	_, span := startSpan(ctx, "analytics.trends")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.TrendsResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.TrendsResponse{}, err
	}
	report, err := uc.aggregator.Trends(g, toBaseline(req.Baseline))
	if err != nil {
		return dto.TrendsResponse{}, fmt.Errorf("trends for group %d: %w", g.GroupID, err)
	}

	resp = dto.TrendsResponse{
		GroupID:             report.GroupID,
		HealthScore:         report.Score,
		BaselineScore:       report.BaselineScore,
		Overall:             string(report.Overall),
		Indicators:          make([]dto.IndicatorTrend, 0, len(report.Indicators)),
		InsufficientHistory: report.InsufficientHistory,
	}
	for _, it := range report.Indicators {
		resp.Indicators = append(resp.Indicators, dto.IndicatorTrend{
			Indicator: it.Indicator,
			Current:   it.Current,
			Baseline:  it.Baseline,
			Change:    it.Change,
			Direction: string(it.Direction),
		})
	}
	return resp, nil
}

// Compare ranks groups against each other.
func (uc *AnalyticsUseCase) Compare(ctx context.Context, req dto.CompareRequest) (resp dto.CompareResponse, err error) {
	_, span := startSpan(ctx, "analytics.compare")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.CompareResponse{}, err
	}
	asOf := today(uc.clock)
	groups := make([]model.GroupProfile, 0, len(req.Groups))
	for _, raw := range req.Groups {
		g, err := toGroup(raw, asOf)
		if err != nil {
			return dto.CompareResponse{}, err
		}
		groups = append(groups, g)
	}

	cmp, err := uc.aggregator.Compare(groups)
	if err != nil {
		return dto.CompareResponse{}, fmt.Errorf("compare groups: %w", err)
	}
	resp = dto.CompareResponse{
		Indicators: make([]dto.IndicatorComparison, 0, len(cmp.Indicators)),
		Overall:    toIndicatorRanks(cmp.Overall),
		Best:       cmp.Best,
		Weakest:    cmp.Weakest,
	}
	for _, ic := range cmp.Indicators {
		resp.Indicators = append(resp.Indicators, dto.IndicatorComparison{
			Indicator:      ic.Indicator,
			HigherIsBetter: ic.HigherIsBetter,
			Ranking:        toIndicatorRanks(ic.Ranking),
		})
	}
	return resp, nil
}
