package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

func TestProjectionEngine_Project(t *testing.T) {
	engine := newProjectionEngine()

	projection, err := engine.Project(simpleFund(), 12, simpleAssumptions())
	require.NoError(t, err)
	require.Len(t, projection.Points, 12)

	first := projection.Points[0]
	assert.Equal(t, 1, first.MonthIndex)
	assert.Equal(t, date(2025, time.February, 1), first.Date)
	assert.True(t, first.CumulativeSavings.Equal(dec("10000")))
	assert.True(t, first.EstimatedLoans.Equal(dec("5000")))
	assert.True(t, first.EstimatedInterest.Equal(dec("500")))
	assert.True(t, first.ProjectedBalance.Equal(dec("10500")))
	assert.Equal(t, int64(10), first.ProjectedMemberCount)

	second := projection.Points[1]
	assert.True(t, second.CumulativeSavings.Equal(dec("20000")))
	assert.True(t, second.EstimatedLoans.Equal(dec("10250")))
	assert.True(t, second.EstimatedInterest.Equal(dec("1025")))
	assert.True(t, second.ProjectedBalance.Equal(dec("21525")))

	for i, p := range projection.Points {
		assert.Equal(t, i+1, p.MonthIndex)
		if i > 0 {
			assert.True(t, p.CumulativeSavings.GreaterThanOrEqual(projection.Points[i-1].CumulativeSavings))
		}
	}
	assert.True(t, projection.FinalBalance.Equal(projection.Points[11].ProjectedBalance))
	assert.True(t, projection.TotalSavings.Equal(dec("120000")))
}

func TestProjectionEngine_ZeroHorizon(t *testing.T) {
	engine := newProjectionEngine()
	g := simpleFund()
	g.TotalBalance = dec("2500")

	projection, err := engine.Project(g, 0, simpleAssumptions())
	require.NoError(t, err)
	assert.Empty(t, projection.Points)
	assert.True(t, projection.TotalSavings.IsZero())
	assert.True(t, projection.TotalInterest.IsZero())
	assert.True(t, projection.FinalBalance.Equal(dec("2500")))

	interest, err := engine.InterestProjection(g, 0, simpleAssumptions())
	require.NoError(t, err)
	assert.Empty(t, interest.Months)
	assert.True(t, interest.MonthlyAverage.IsZero())
}

func TestProjectionEngine_MemberGrowthIsRounded(t *testing.T) {
	a := simpleAssumptions()
	a.GrowthRate = dec("0.1")

	projection, err := newProjectionEngine().Project(simpleFund(), 3, a)
	require.NoError(t, err)

	// 10 -> 11 -> round(12.1) = 12 -> round(13.2) = 13
	assert.Equal(t, int64(11), projection.Points[0].ProjectedMemberCount)
	assert.Equal(t, int64(12), projection.Points[1].ProjectedMemberCount)
	assert.Equal(t, int64(13), projection.Points[2].ProjectedMemberCount)
}

func TestProjectionEngine_FrequencyNormalization(t *testing.T) {
	g := simpleFund()
	g.Frequency = valueobject.FrequencyWeekly
	g.ContributionAmount = dec("250")

	projection, err := newProjectionEngine().Project(g, 1, simpleAssumptions())
	require.NoError(t, err)
	assert.True(t, projection.Points[0].CumulativeSavings.Equal(dec("10000")))
}

func TestProjectionEngine_Validation(t *testing.T) {
	engine := newProjectionEngine()

	tests := []struct {
		name    string
		horizon int
		mutate  func(*model.Assumptions)
	}{
		{name: "negative horizon", horizon: -1},
		{name: "horizon above ceiling", horizon: 121},
		{name: "collection above one", horizon: 12, mutate: func(a *model.Assumptions) { a.CollectionRate = dec("1.2") }},
		{name: "negative growth", horizon: 12, mutate: func(a *model.Assumptions) { a.GrowthRate = dec("-0.1") }},
		{name: "interest above half", horizon: 12, mutate: func(a *model.Assumptions) { a.MonthlyInterestRate = dec("0.6") }},
		{name: "missing start date", horizon: 12, mutate: func(a *model.Assumptions) { a.StartDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := simpleAssumptions()
			if tt.mutate != nil {
				tt.mutate(&a)
			}
			_, err := engine.Project(simpleFund(), tt.horizon, a)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestProjectionEngine_ScenariosAreOrdered(t *testing.T) {
	a := model.Assumptions{
		StartDate:           date(2025, time.January, 1),
		CollectionRate:      dec("0.95"),
		LoanAllocationRate:  dec("0.6"),
		MonthlyInterestRate: dec("0.05"),
		GrowthRate:          dec("0.02"),
	}

	set, err := newProjectionEngine().Scenarios(healthyGroup(1), 36, a)
	require.NoError(t, err)
	require.Len(t, set.Optimistic.Points, 36)
	require.Len(t, set.Realistic.Points, 36)
	require.Len(t, set.Pessimistic.Points, 36)

	assert.True(t, set.Optimistic.Assumptions.CollectionRate.Equal(dec("1")), "collection rate is capped at 1")
	for i := range set.Realistic.Points {
		opt := set.Optimistic.Points[i].ProjectedBalance
		mid := set.Realistic.Points[i].ProjectedBalance
		pes := set.Pessimistic.Points[i].ProjectedBalance
		assert.True(t, opt.GreaterThanOrEqual(mid), "month %d", i+1)
		assert.True(t, mid.GreaterThanOrEqual(pes), "month %d", i+1)
	}
}

func TestProjectionEngine_SavingsGoal(t *testing.T) {
	engine := newProjectionEngine()

	t.Run("reachable", func(t *testing.T) {
		result, err := engine.SavingsGoal(simpleFund(), dec("35000"), simpleAssumptions())
		require.NoError(t, err)
		assert.Equal(t, valueobject.GoalReachable, result.Status)
		assert.Equal(t, 4, result.MonthsNeeded)
		require.NotNil(t, result.ReachedOn)
		assert.Equal(t, date(2025, time.May, 1), *result.ReachedOn)
		assert.True(t, result.ProjectedSavings.Equal(dec("40000")))
		assert.True(t, result.MonthlyCollection.Equal(dec("10000")))
	})

	t.Run("exact target is reached that month", func(t *testing.T) {
		result, err := engine.SavingsGoal(simpleFund(), dec("30000"), simpleAssumptions())
		require.NoError(t, err)
		assert.Equal(t, 3, result.MonthsNeeded)
	})

	t.Run("unreachable is a result, not an error", func(t *testing.T) {
		a := simpleAssumptions()
		a.CollectionRate = decimal.Zero
		result, err := engine.SavingsGoal(simpleFund(), dec("1000"), a)
		require.NoError(t, err)
		assert.Equal(t, valueobject.GoalUnreachable, result.Status)
		assert.Nil(t, result.ReachedOn)
		assert.Zero(t, result.MonthsNeeded)
	})

	t.Run("larger targets never need fewer months", func(t *testing.T) {
		prev := 0
		for _, target := range []string{"1", "9999", "10000", "10001", "45000", "99999.99", "250000", "1000000"} {
			result, err := engine.SavingsGoal(simpleFund(), dec(target), simpleAssumptions())
			require.NoError(t, err)
			require.Equal(t, valueobject.GoalReachable, result.Status, target)
			assert.GreaterOrEqual(t, result.MonthsNeeded, prev, target)
			prev = result.MonthsNeeded
		}
	})

	t.Run("target must be positive", func(t *testing.T) {
		_, err := engine.SavingsGoal(simpleFund(), decimal.Zero, simpleAssumptions())
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestProjectionEngine_LoanCapacity(t *testing.T) {
	engine := newProjectionEngine()

	t.Run("share of the balance", func(t *testing.T) {
		g := simpleFund()
		g.TotalBalance = dec("100000")
		result, err := engine.LoanCapacity(g, 6, simpleAssumptions())
		require.NoError(t, err)
		assert.True(t, result.Capacity.Equal(dec("50000")))
		assert.True(t, result.PerMember.Equal(dec("5000")))
		assert.False(t, result.CappedByCeiling)
		assert.True(t, result.PeakCapacity.GreaterThan(result.Capacity))
		assert.Equal(t, 6, result.PeakMonth)
	})

	t.Run("capped by the ceiling", func(t *testing.T) {
		g := simpleFund()
		g.TotalBalance = dec("200000000")
		result, err := engine.LoanCapacity(g, 6, simpleAssumptions())
		require.NoError(t, err)
		assert.True(t, result.CappedByCeiling)
		assert.True(t, result.Capacity.Equal(dec("50000000")))
		assert.True(t, result.PeakCapacity.Equal(dec("50000000")))
		assert.Equal(t, 0, result.PeakMonth)
	})
}

func TestProjectionEngine_InterestProjection(t *testing.T) {
	result, err := newProjectionEngine().InterestProjection(simpleFund(), 2, simpleAssumptions())
	require.NoError(t, err)
	require.Len(t, result.Months, 2)

	assert.True(t, result.Months[0].Interest.Equal(dec("500")))
	assert.True(t, result.Months[1].Interest.Equal(dec("1025")))
	assert.True(t, result.Months[1].Cumulative.Equal(dec("1525")))
	assert.True(t, result.TotalInterest.Equal(dec("1525")))
	assert.True(t, result.MonthlyAverage.Equal(dec("762.5")))
}
