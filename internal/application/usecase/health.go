package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/service"
)

// HealthUseCase analyses the financial health of a group.
type HealthUseCase struct {
	engine    *service.HealthEngine
	validator Validator
	clock     Clock
}

// NewHealthUseCase wires dependencies.
func NewHealthUseCase(engine *service.HealthEngine, validator Validator, clock Clock) *HealthUseCase {
	return &HealthUseCase{engine: engine, validator: validator, clock: clock}
}

// Assess scores a group, with a trend when a baseline is given.
func (uc *HealthUseCase) Assess(ctx context.Context, req dto.GroupHealthRequest) (resp dto.GroupHealthResponse, err error) {
	_, span := startSpan(ctx, "health.assess")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.GroupHealthResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.GroupHealthResponse{}, err
	}
	assessment, err := uc.engine.Assess(g, toBaseline(req.Baseline))
	if err != nil {
		return dto.GroupHealthResponse{}, fmt.Errorf("assess group %d: %w", g.GroupID, err)
	}
	return toHealthResponse(assessment), nil
}

// Participation analyses contribution participation.
func (uc *HealthUseCase) Participation(ctx context.Context, req dto.GroupRequest) (resp dto.ParticipationResponse, err error) {
	_, span := startSpan(ctx, "health.participation")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.ParticipationResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.ParticipationResponse{}, err
	}
	a, err := uc.engine.AnalyzeParticipation(g)
	if err != nil {
		return dto.ParticipationResponse{}, fmt.Errorf("participation of group %d: %w", g.GroupID, err)
	}
	return dto.ParticipationResponse{
		GroupID:               a.GroupID,
		ExpectedContributions: a.ExpectedContributions,
		ReceivedContributions: a.ReceivedContributions,
		MissedContributions:   a.MissedContributions,
		ParticipationRate:     a.ParticipationRate,
		ActiveMembers:         a.ActiveMembers,
		InactiveMembers:       a.InactiveMembers,
		RetentionRate:         a.RetentionRate,
		Level:                 a.Level.String(),
		Recommendations:       nonNil(a.Recommendations),
	}, nil
}

// LoanPerformance analyses the loan book of a group.
func (uc *HealthUseCase) LoanPerformance(ctx context.Context, req dto.GroupRequest) (resp dto.LoanPerformanceResponse, err error) {
	_, span := startSpan(ctx, "health.loan_performance")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.LoanPerformanceResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.LoanPerformanceResponse{}, err
	}
	a, err := uc.engine.AnalyzeLoanPerformance(g)
	if err != nil {
		return dto.LoanPerformanceResponse{}, fmt.Errorf("loan performance of group %d: %w", g.GroupID, err)
	}
	return dto.LoanPerformanceResponse{
		GroupID:            a.GroupID,
		TotalLoans:         a.TotalLoans,
		LateLoans:          a.LateLoans,
		OnTimeLoans:        a.OnTimeLoans,
		LoanPerformance:    a.LoanPerformance,
		LateRate:           a.LateRate,
		LoanToSavingsRatio: a.LoanToSavingsRatio,
		LiquidityScore:     a.LiquidityScore,
		OutstandingLoans:   money(a.OutstandingLoans),
		AvailableBalance:   money(a.AvailableBalance),
		Recommendations:    nonNil(a.Recommendations),
	}, nil
}

// Growth analyses the age and growth stage of a group.
func (uc *HealthUseCase) Growth(ctx context.Context, req dto.GroupRequest) (resp dto.GrowthResponse, err error) {
	_, span := startSpan(ctx, "health.growth")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.GrowthResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.GrowthResponse{}, err
	}
	a, err := uc.engine.AnalyzeGrowth(g)
	if err != nil {
		return dto.GrowthResponse{}, fmt.Errorf("growth of group %d: %w", g.GroupID, err)
	}
	return dto.GrowthResponse{
		GroupID:                     a.GroupID,
		AgeMonths:                   a.AgeMonths,
		CyclesCompleted:             a.CyclesCompleted,
		AverageMonthlyContribution:  money(a.AverageMonthlyContribution),
		ContributionPerActiveMember: money(a.ContributionPerActiveMember),
		BalanceToContributions:      a.BalanceToContributions,
		Stage:                       string(a.Stage),
		Recommendations:             nonNil(a.Recommendations),
	}, nil
}

// Benchmark compares a group to reference values.
func (uc *HealthUseCase) Benchmark(ctx context.Context, req dto.GroupRequest) (resp dto.BenchmarkResponse, err error) {
	_, span := startSpan(ctx, "health.benchmark")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.BenchmarkResponse{}, err
	}
	g, err := toGroup(req.Group, today(uc.clock))
	if err != nil {
		return dto.BenchmarkResponse{}, err
	}
	report, err := uc.engine.Benchmark(g)
	if err != nil {
		return dto.BenchmarkResponse{}, fmt.Errorf("benchmark group %d: %w", g.GroupID, err)
	}
	resp = dto.BenchmarkResponse{
		GroupID:          report.GroupID,
		Entries:          make([]dto.BenchmarkEntry, 0, len(report.Entries)),
		FavorableCount:   report.FavorableCount,
		UnfavorableCount: report.UnfavorableCount,
	}
	for _, e := range report.Entries {
		resp.Entries = append(resp.Entries, dto.BenchmarkEntry{
			Indicator: e.Indicator,
			Value:     e.Value,
			Reference: e.Reference,
			Delta:     e.Delta,
			Position:  string(e.Position),
			Favorable: e.Favorable,
		})
	}
	return resp, nil
}
