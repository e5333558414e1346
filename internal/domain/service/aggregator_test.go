package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

func TestAggregator_Alerts(t *testing.T) {
	agg := newAggregator()

	t.Run("healthy group only reports a few overdue loans", func(t *testing.T) {
		alerts, err := agg.Alerts(healthyGroup(1))
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, valueobject.AlertLoansOverdue, alerts[0].Code)
		assert.Equal(t, valueobject.SeverityInfo, alerts[0].Severity)
		assert.NotEmpty(t, alerts[0].Message)
	})

	t.Run("weak group trips every rule", func(t *testing.T) {
		alerts, err := agg.Alerts(weakGroup(2))
		require.NoError(t, err)
		require.Len(t, alerts, 4)

		assert.Equal(t, valueobject.AlertInactiveMembersHigh, alerts[0].Code)
		assert.Equal(t, valueobject.SeverityCritical, alerts[0].Severity)
		assert.Equal(t, valueobject.AlertLoansOverdue, alerts[1].Code)
		assert.Equal(t, valueobject.SeverityCritical, alerts[1].Severity)
		assert.Equal(t, valueobject.AlertLowParticipation, alerts[2].Code)
		assert.Equal(t, valueobject.SeverityWarning, alerts[2].Severity)
		assert.Equal(t, valueobject.AlertLiquidityRisk, alerts[3].Code)
		assert.Equal(t, valueobject.SeverityCritical, alerts[3].Severity)
	})

	severities := []struct {
		name     string
		mutate   func(*model.GroupProfile)
		code     valueobject.AlertCode
		severity valueobject.Severity
	}{
		{
			name:     "inactive share at the threshold raises nothing",
			mutate:   func(g *model.GroupProfile) { g.ActiveMembers, g.InactiveMembers = 16, 4 },
			code:     valueobject.AlertInactiveMembersHigh,
			severity: "",
		},
		{
			name:     "inactive share above the threshold",
			mutate:   func(g *model.GroupProfile) { g.ActiveMembers, g.InactiveMembers = 15, 5 },
			code:     valueobject.AlertInactiveMembersHigh,
			severity: valueobject.SeverityWarning,
		},
		{
			name:     "a quarter of loans overdue is a warning",
			mutate:   func(g *model.GroupProfile) { g.LateLoans = 5 },
			code:     valueobject.AlertLoansOverdue,
			severity: valueobject.SeverityWarning,
		},
		{
			name:     "no overdue loans",
			mutate:   func(g *model.GroupProfile) { g.LateLoans = 0 },
			code:     valueobject.AlertLoansOverdue,
			severity: "",
		},
		{
			name:     "very low participation",
			mutate:   func(g *model.GroupProfile) { g.ReceivedContributions = 70 },
			code:     valueobject.AlertLowParticipation,
			severity: valueobject.SeverityCritical,
		},
		{
			name:     "stretched liquidity",
			mutate:   func(g *model.GroupProfile) { g.TotalActiveLoans = dec("900000") },
			code:     valueobject.AlertLiquidityRisk,
			severity: valueobject.SeverityWarning,
		},
	}
	for _, tt := range severities {
		t.Run(tt.name, func(t *testing.T) {
			g := healthyGroup(1)
			tt.mutate(&g)
			alerts, err := agg.Alerts(g)
			require.NoError(t, err)

			var got valueobject.Severity
			for _, a := range alerts {
				if a.Code == tt.code {
					got = a.Severity
				}
			}
			assert.Equal(t, tt.severity, got)
		})
	}
}

func TestAggregator_Dashboard(t *testing.T) {
	invalid := healthyGroup(3)
	invalid.ActiveMembers, invalid.InactiveMembers = 0, 0

	healthy := healthyGroup(1)
	healthy.Members = []model.MemberProfile{reliableMember(1), defaulter(2)}

	dash, err := newAggregator().Dashboard([]model.GroupProfile{healthy, weakGroup(2), invalid}, 12)
	require.NoError(t, err)

	require.Len(t, dash.Groups, 2)
	require.Len(t, dash.Failures, 1)
	assert.Equal(t, 2, dash.Failures[0].Index)
	assert.Equal(t, int64(3), dash.Failures[0].GroupID)
	assert.ErrorIs(t, dash.Failures[0].Err, model.ErrValidation)

	s := dash.Summary
	assert.Equal(t, 2, s.GroupCount)
	assert.Equal(t, int64(30), s.TotalMembers)
	assert.Equal(t, int64(23), s.ActiveMembers)
	assert.True(t, s.TotalBalance.Equal(dec("1100000")))
	assert.Equal(t, 67.5, s.AverageHealth)
	assert.Equal(t, map[string]int{"Excellent": 1, "Fair": 1}, s.LevelDistribution)
	assert.Equal(t, 3, s.AlertsBySeverity[valueobject.SeverityCritical])
	assert.Equal(t, 1, s.AlertsBySeverity[valueobject.SeverityWarning])
	assert.Equal(t, 1, s.AlertsBySeverity[valueobject.SeverityInfo])
	assert.True(t, s.ProjectedBalance.GreaterThan(s.TotalBalance))

	require.Len(t, dash.Alerts, 5)
	assert.Equal(t, valueobject.SeverityCritical, dash.Alerts[0].Severity)
	assert.Equal(t, valueobject.SeverityInfo, dash.Alerts[4].Severity)
	assert.Equal(t, "address 3 critical alerts first", dash.Recommendations[0])

	require.NotNil(t, dash.Groups[0].Risk)
	assert.Equal(t, 2, dash.Groups[0].Risk.Assessed)
	assert.Equal(t, 72.25, dash.Groups[0].Risk.MeanScore)
	assert.Equal(t, 1, dash.Groups[0].Risk.AtRisk)
	assert.Nil(t, dash.Groups[1].Risk)
}

func TestAggregator_DashboardValidation(t *testing.T) {
	agg := newAggregator()

	_, err := agg.Dashboard(nil, 12)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = agg.Dashboard([]model.GroupProfile{healthyGroup(1)}, 0)
	assert.ErrorIs(t, err, model.ErrValidation)

	many := make([]model.GroupProfile, service.DefaultLimits().MaxGroups+1)
	_, err = agg.Dashboard(many, 12)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAggregator_Trends(t *testing.T) {
	agg := newAggregator()

	t.Run("without a baseline", func(t *testing.T) {
		report, err := agg.Trends(healthyGroup(1), nil)
		require.NoError(t, err)
		assert.True(t, report.InsufficientHistory)
		assert.Nil(t, report.BaselineScore)
		assert.Equal(t, valueobject.TrendStable, report.Overall)
		require.Len(t, report.Indicators, 5)
		for _, ind := range report.Indicators {
			assert.Equal(t, valueobject.TrendStable, ind.Direction)
		}
	})

	t.Run("direction respects polarity", func(t *testing.T) {
		baseline := &model.HealthBaseline{
			Score: 80,
			Indicators: &model.HealthIndicators{
				ParticipationRate:  0.80,
				LoanPerformance:    0.95,
				Diversification:    0.75,
				LoanToSavingsRatio: 0.20,
				Retention:          0.90,
			},
		}
		report, err := agg.Trends(healthyGroup(1), baseline)
		require.NoError(t, err)
		assert.False(t, report.InsufficientHistory)
		assert.Equal(t, valueobject.TrendImproving, report.Overall)

		byName := make(map[string]model.IndicatorTrend)
		for _, ind := range report.Indicators {
			byName[ind.Indicator] = ind
		}
		assert.Equal(t, valueobject.TrendImproving, byName[service.IndicatorParticipation].Direction)
		assert.Equal(t, valueobject.TrendStable, byName[service.IndicatorLoanPerformance].Direction)
		assert.Equal(t, valueobject.TrendDeclining, byName[service.IndicatorLoanToSavings].Direction)
		assert.InDelta(t, 0.2, byName[service.IndicatorLoanToSavings].Change, 1e-9)
	})
}

func TestAggregator_Compare(t *testing.T) {
	agg := newAggregator()

	t.Run("needs two groups", func(t *testing.T) {
		_, err := agg.Compare([]model.GroupProfile{healthyGroup(1)})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("rejects duplicate groups", func(t *testing.T) {
		_, err := agg.Compare([]model.GroupProfile{healthyGroup(1), healthyGroup(1)})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("ranks per indicator and overall", func(t *testing.T) {
		cmp, err := agg.Compare([]model.GroupProfile{weakGroup(2), healthyGroup(1)})
		require.NoError(t, err)

		assert.Equal(t, int64(1), cmp.Best)
		assert.Equal(t, int64(2), cmp.Weakest)
		require.Len(t, cmp.Overall, 2)
		assert.Equal(t, 1, cmp.Overall[0].Rank)
		require.Len(t, cmp.Indicators, 5)

		for _, ic := range cmp.Indicators {
			require.Len(t, ic.Ranking, 2, "no self or pairwise entries")
			assert.Equal(t, int64(1), ic.Ranking[0].GroupID, ic.Indicator)
		}
	})

	t.Run("ties share a rank", func(t *testing.T) {
		cmp, err := agg.Compare([]model.GroupProfile{healthyGroup(5), healthyGroup(4)})
		require.NoError(t, err)
		assert.Equal(t, int64(4), cmp.Overall[0].GroupID)
		assert.Equal(t, 1, cmp.Overall[0].Rank)
		assert.Equal(t, 1, cmp.Overall[1].Rank)
	})
}
