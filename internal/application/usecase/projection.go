package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/service"
)

// ProjectionUseCase forecasts the fund of a group.
type ProjectionUseCase struct {
	engine    *service.ProjectionEngine
	validator Validator
	clock     Clock
}

// NewProjectionUseCase wires dependencies.
func NewProjectionUseCase(engine *service.ProjectionEngine, validator Validator, clock Clock) *ProjectionUseCase {
	return &ProjectionUseCase{engine: engine, validator: validator, clock: clock}
}

// inputs maps a group and its assumptions. Projections start at the group's
// as_of date unless the caller sets start_date.
func (uc *ProjectionUseCase) inputs(g dto.GroupProfile, a *dto.Assumptions) (model.GroupProfile, model.Assumptions, error) {
	group, err := toGroup(g, today(uc.clock))
	if err != nil {
		return model.GroupProfile{}, model.Assumptions{}, err
	}
	assumptions, err := toAssumptions(a, uc.engine.DefaultAssumptions(group.AsOf))
	if err != nil {
		return model.GroupProfile{}, model.Assumptions{}, err
	}
	return group, assumptions, nil
}

// Project returns the month-by-month projection.
func (uc *ProjectionUseCase) Project(ctx context.Context, req dto.ProjectionRequest) (resp dto.ProjectionResponse, err error) {
	_, span := startSpan(ctx, "projection.project")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.ProjectionResponse{}, err
	}
	g, a, err := uc.inputs(req.Group, req.Assumptions)
	if err != nil {
		return dto.ProjectionResponse{}, err
	}
	projection, err := uc.engine.Project(g, req.HorizonMonths, a)
	if err != nil {
		return dto.ProjectionResponse{}, fmt.Errorf("project group %d: %w", g.GroupID, err)
	}
	return toProjectionResponse(projection), nil
}

// Scenarios returns the optimistic, realistic and pessimistic projections.
func (uc *ProjectionUseCase) Scenarios(ctx context.Context, req dto.ProjectionRequest) (resp dto.ScenarioResponse, err error) {
	_, span := startSpan(ctx, "projection.scenarios")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.ScenarioResponse{}, err
	}
	g, a, err := uc.inputs(req.Group, req.Assumptions)
	if err != nil {
		return dto.ScenarioResponse{}, err
	}
	set, err := uc.engine.Scenarios(g, req.HorizonMonths, a)
	if err != nil {
		return dto.ScenarioResponse{}, fmt.Errorf("scenarios for group %d: %w", g.GroupID, err)
	}
	return dto.ScenarioResponse{
		GroupID:     set.GroupID,
		Optimistic:  toProjectionResponse(set.Optimistic),
		Realistic:   toProjectionResponse(set.Realistic),
		Pessimistic: toProjectionResponse(set.Pessimistic),
	}, nil
}

// SimulateCycle simulates a full savings cycle and its share-out.
func (uc *ProjectionUseCase) SimulateCycle(ctx context.Context, req dto.CycleSimulationRequest) (resp dto.CycleSimulationResponse, err error) {
	_, span := startSpan(ctx, "projection.cycle")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.CycleSimulationResponse{}, err
	}
	params, err := toCycleParams(req)
	if err != nil {
		return dto.CycleSimulationResponse{}, err
	}
	sim, err := uc.engine.SimulateCycle(params)
	if err != nil {
		return dto.CycleSimulationResponse{}, fmt.Errorf("simulate cycle: %w", err)
	}

	resp = dto.CycleSimulationResponse{
		Months:             make([]dto.CycleMonth, 0, len(sim.Months)),
		TotalContributions: money(sim.TotalContributions),
		TotalPenalties:     money(sim.TotalPenalties),
		TotalInterest:      money(sim.TotalInterest),
		TotalWrittenOff:    money(sim.TotalWrittenOff),
		FinalBalance:       money(sim.FinalBalance),
		Distributable:      money(sim.Distributable),
		AveragePayout:      money(sim.AveragePayout),
		ReturnOnSavings:    sim.ReturnOnSavings,
		Payouts:            make([]dto.MemberPayout, 0, len(sim.Payouts)),
	}
	for _, m := range sim.Months {
		resp.Months = append(resp.Months, dto.CycleMonth{
			Month:          m.MonthIndex,
			Date:           formatDate(m.Date),
			Collected:      money(m.Collected),
			Penalties:      money(m.Penalties),
			LoansIssued:    money(m.LoansIssued),
			InterestEarned: money(m.InterestEarned),
			WrittenOff:     money(m.WrittenOff),
			Balance:        money(m.Balance),
		})
	}
	for _, p := range sim.Payouts {
		resp.Payouts = append(resp.Payouts, dto.MemberPayout{
			Position:    p.Position,
			UserID:      p.UserID,
			Contributed: money(p.Contributed),
			Share:       p.Share,
			Payout:      money(p.Payout),
		})
	}
	return resp, nil
}

// SavingsGoal finds when the group reaches a savings target.
func (uc *ProjectionUseCase) SavingsGoal(ctx context.Context, req dto.SavingsGoalRequest) (resp dto.SavingsGoalResponse, err error) {
	_, span := startSpan(ctx, "projection.savings_goal")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.SavingsGoalResponse{}, err
	}
	g, a, err := uc.inputs(req.Group, req.Assumptions)
	if err != nil {
		return dto.SavingsGoalResponse{}, err
	}
	goal, err := uc.engine.SavingsGoal(g, decimal.NewFromFloat(req.TargetAmount), a)
	if err != nil {
		return dto.SavingsGoalResponse{}, fmt.Errorf("savings goal for group %d: %w", g.GroupID, err)
	}

	resp = dto.SavingsGoalResponse{
		GroupID:           goal.GroupID,
		TargetAmount:      money(goal.Target),
		Status:            string(goal.Status),
		ProjectedSavings:  money(goal.ProjectedSavings),
		MonthlyCollection: money(goal.MonthlyCollection),
	}
	if goal.ReachedOn != nil {
		months := goal.MonthsNeeded
		reached := formatDate(*goal.ReachedOn)
		resp.MonthsNeeded = &months
		resp.ReachedOn = &reached
	}
	return resp, nil
}

// LoanCapacity reports the lending capacity of a group.
func (uc *ProjectionUseCase) LoanCapacity(ctx context.Context, req dto.ProjectionRequest) (resp dto.LoanCapacityResponse, err error) {
	_, span := startSpan(ctx, "projection.loan_capacity")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.LoanCapacityResponse{}, err
	}
	g, a, err := uc.inputs(req.Group, req.Assumptions)
	if err != nil {
		return dto.LoanCapacityResponse{}, err
	}
	c, err := uc.engine.LoanCapacity(g, req.HorizonMonths, a)
	if err != nil {
		return dto.LoanCapacityResponse{}, fmt.Errorf("loan capacity of group %d: %w", g.GroupID, err)
	}
	return dto.LoanCapacityResponse{
		GroupID:          c.GroupID,
		Capacity:         money(c.Capacity),
		PerMember:        money(c.PerMember),
		PeakCapacity:     money(c.PeakCapacity),
		PeakMonth:        c.PeakMonth,
		Ceiling:          money(c.Ceiling),
		CappedByCeiling:  c.CappedByCeiling,
		AvailableBalance: money(c.AvailableBalance),
		OutstandingLoans: money(c.OutstandingLoans),
	}, nil
}

// InterestProjection reports the interest earned over the horizon.
func (uc *ProjectionUseCase) InterestProjection(ctx context.Context, req dto.ProjectionRequest) (resp dto.InterestProjectionResponse, err error) {
	_, span := startSpan(ctx, "projection.interest")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.InterestProjectionResponse{}, err
	}
	g, a, err := uc.inputs(req.Group, req.Assumptions)
	if err != nil {
		return dto.InterestProjectionResponse{}, err
	}
	ip, err := uc.engine.InterestProjection(g, req.HorizonMonths, a)
	if err != nil {
		return dto.InterestProjectionResponse{}, fmt.Errorf("interest projection for group %d: %w", g.GroupID, err)
	}

	resp = dto.InterestProjectionResponse{
		GroupID:        ip.GroupID,
		HorizonMonths:  ip.HorizonMonths,
		Months:         make([]dto.InterestMonth, 0, len(ip.Months)),
		TotalInterest:  money(ip.TotalInterest),
		MonthlyAverage: money(ip.MonthlyAverage),
	}
	for _, m := range ip.Months {
		resp.Months = append(resp.Months, dto.InterestMonth{
			Month:      m.MonthIndex,
			Date:       formatDate(m.Date),
			Interest:   money(m.Interest),
			Cumulative: money(m.Cumulative),
		})
	}
	return resp, nil
}
