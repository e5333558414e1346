package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// ProjectionEngine simulates the month-by-month evolution of a group fund.
type ProjectionEngine struct {
	policy ProjectionPolicy
	limits Limits
}

// NewProjectionEngine creates a ProjectionEngine.
func NewProjectionEngine(policy ProjectionPolicy, limits Limits) *ProjectionEngine {
	return &ProjectionEngine{policy: policy, limits: limits}
}

// DefaultAssumptions returns the configured assumptions starting at start.
func (e *ProjectionEngine) DefaultAssumptions(start time.Time) model.Assumptions {
	return model.Assumptions{
		StartDate:           start,
		CollectionRate:      e.policy.DefaultCollectionRate,
		LoanAllocationRate:  e.policy.DefaultLoanAllocationRate,
		MonthlyInterestRate: e.policy.DefaultMonthlyInterest,
		GrowthRate:          e.policy.DefaultGrowthRate,
	}
}

// fund is the running state of a projection. It keeps full precision;
// rounding happens only when a point is emitted.
type fund struct {
	a          model.Assumptions
	monthly    decimal.Decimal
	balance    decimal.Decimal
	members    decimal.Decimal
	cumulative decimal.Decimal
	month      int
}

func newFund(g model.GroupProfile, a model.Assumptions) *fund {
	return &fund{
		a:          a,
		monthly:    g.MonthlyContribution(),
		balance:    g.TotalBalance,
		members:    decimal.NewFromInt(g.ActiveMembers),
		cumulative: decimal.Zero,
	}
}

// step advances the fund by one month:
//  1. collect contributions from the current members
//  2. lend a share of the balance
//  3. earn interest on the loans
//  4. grow the membership
func (f *fund) step() model.ProjectionPoint {
	f.month++

	collected := f.monthly.Mul(f.members).Mul(f.a.CollectionRate)
	f.balance = f.balance.Add(collected)
	f.cumulative = f.cumulative.Add(collected)

	loans := decimal.Min(f.balance.Mul(f.a.LoanAllocationRate), f.balance)
	interest := loans.Mul(f.a.MonthlyInterestRate)
	f.balance = f.balance.Add(interest)

	f.members = f.members.Mul(one.Add(f.a.GrowthRate)).Round(0)

	return model.ProjectionPoint{
		MonthIndex:           f.month,
		Date:                 f.a.StartDate.AddDate(0, f.month, 0),
		CumulativeSavings:    f.cumulative.Round(2),
		EstimatedLoans:       loans.Round(2),
		EstimatedInterest:    interest.Round(2),
		ProjectedBalance:     f.balance.Round(2),
		ProjectedMemberCount: f.members.IntPart(),
	}
}

// Project runs the monthly loop for horizon months. A zero horizon yields
// no points and leaves the balance untouched.
func (e *ProjectionEngine) Project(g model.GroupProfile, horizon int, a model.Assumptions) (model.Projection, error) {
	if err := e.validate(g, horizon, a); err != nil {
		return model.Projection{}, err
	}
	return e.project(g, horizon, a), nil
}

func (e *ProjectionEngine) project(g model.GroupProfile, horizon int, a model.Assumptions) model.Projection {
	f := newFund(g, a)
	points := make([]model.ProjectionPoint, 0, horizon)
	totalInterest := decimal.Zero
	for range horizon {
		point := f.step()
		totalInterest = totalInterest.Add(point.EstimatedInterest)
		points = append(points, point)
	}
	return model.Projection{
		GroupID:       g.GroupID,
		HorizonMonths: horizon,
		Assumptions:   a,
		Points:        points,
		TotalSavings:  f.cumulative.Round(2),
		TotalInterest: totalInterest,
		FinalBalance:  f.balance.Round(2),
	}
}

// Scenarios projects the optimistic, realistic and pessimistic variants of
// the same assumptions.
func (e *ProjectionEngine) Scenarios(g model.GroupProfile, horizon int, a model.Assumptions) (model.ScenarioSet, error) {
	if err := e.validate(g, horizon, a); err != nil {
		return model.ScenarioSet{}, err
	}
	return model.ScenarioSet{
		GroupID:     g.GroupID,
		Optimistic:  e.project(g, horizon, scale(a, e.policy.Optimistic)),
		Realistic:   e.project(g, horizon, a),
		Pessimistic: e.project(g, horizon, scale(a, e.policy.Pessimistic)),
	}, nil
}

// SavingsGoal finds the first month in which cumulative savings reach
// target. A goal not reached within MaxGoalMonths is Unreachable.
func (e *ProjectionEngine) SavingsGoal(g model.GroupProfile, target decimal.Decimal, a model.Assumptions) (model.SavingsGoalResult, error) {
	if err := e.validate(g, 1, a); err != nil {
		return model.SavingsGoalResult{}, err
	}
	if !target.IsPositive() {
		return model.SavingsGoalResult{}, model.NewValidationError("target", "must be positive")
	}

	f := newFund(g, a)
	result := model.SavingsGoalResult{
		GroupID:           g.GroupID,
		Target:            target,
		Status:            valueobject.GoalUnreachable,
		MonthlyCollection: f.monthly.Mul(f.members).Mul(a.CollectionRate).Round(2),
	}
	for range e.limits.MaxGoalMonths {
		point := f.step()
		if f.cumulative.GreaterThanOrEqual(target) {
			reached := point.Date
			result.Status = valueobject.GoalReachable
			result.MonthsNeeded = point.MonthIndex
			result.ReachedOn = &reached
			result.ProjectedSavings = point.CumulativeSavings
			return result, nil
		}
	}
	result.ProjectedSavings = f.cumulative.Round(2)
	return result, nil
}

// LoanCapacity reports how much the group can lend today and at the peak of
// its projected balance.
func (e *ProjectionEngine) LoanCapacity(g model.GroupProfile, horizon int, a model.Assumptions) (model.LoanCapacity, error) {
	if err := e.validate(g, horizon, a); err != nil {
		return model.LoanCapacity{}, err
	}

	ceiling := e.policy.LoanCeiling
	raw := g.TotalBalance.Mul(a.LoanAllocationRate)
	capacity := decimal.Min(raw, ceiling).Round(2)
	result := model.LoanCapacity{
		GroupID:          g.GroupID,
		Capacity:         capacity,
		PerMember:        decimal.Zero,
		Ceiling:          ceiling,
		CappedByCeiling:  raw.GreaterThan(ceiling),
		AvailableBalance: g.TotalBalance,
		OutstandingLoans: g.TotalActiveLoans,
		PeakCapacity:     capacity,
	}
	if g.ActiveMembers > 0 {
		result.PerMember = capacity.Div(decimal.NewFromInt(g.ActiveMembers)).Round(2)
	}

	for _, point := range e.project(g, horizon, a).Points {
		c := decimal.Min(point.ProjectedBalance.Mul(a.LoanAllocationRate), ceiling).Round(2)
		if c.GreaterThan(result.PeakCapacity) {
			result.PeakCapacity = c
			result.PeakMonth = point.MonthIndex
		}
	}
	return result, nil
}

// InterestProjection reports the interest the fund earns over the horizon.
func (e *ProjectionEngine) InterestProjection(g model.GroupProfile, horizon int, a model.Assumptions) (model.InterestProjection, error) {
	if err := e.validate(g, horizon, a); err != nil {
		return model.InterestProjection{}, err
	}

	projection := e.project(g, horizon, a)
	result := model.InterestProjection{
		GroupID:       g.GroupID,
		HorizonMonths: horizon,
		Months:        make([]model.InterestMonth, 0, horizon),
		TotalInterest: projection.TotalInterest,
	}
	cumulative := decimal.Zero
	for _, point := range projection.Points {
		cumulative = cumulative.Add(point.EstimatedInterest)
		result.Months = append(result.Months, model.InterestMonth{
			MonthIndex: point.MonthIndex,
			Date:       point.Date,
			Interest:   point.EstimatedInterest,
			Cumulative: cumulative,
		})
	}
	result.MonthlyAverage = decimal.Zero
	if horizon > 0 {
		result.MonthlyAverage = projection.TotalInterest.Div(decimal.NewFromInt(int64(horizon))).Round(2)
	}
	return result, nil
}

func (e *ProjectionEngine) validate(g model.GroupProfile, horizon int, a model.Assumptions) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if horizon < 0 || horizon > e.limits.MaxHorizonMonths {
		return model.NewValidationError("horizon_months", "must be between 0 and %d", e.limits.MaxHorizonMonths)
	}
	return a.Validate()
}

// scale applies scenario factors; the collection rate stays within [0,1].
func scale(a model.Assumptions, f ScenarioFactors) model.Assumptions {
	scaled := a
	scaled.CollectionRate = decimal.Min(a.CollectionRate.Mul(f.Collection), one)
	scaled.GrowthRate = a.GrowthRate.Mul(f.Growth)
	scaled.MonthlyInterestRate = a.MonthlyInterestRate.Mul(f.Interest)
	return scaled
}
