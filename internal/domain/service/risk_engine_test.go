package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

func TestRiskEngine_Assess(t *testing.T) {
	engine := newRiskEngine()

	t.Run("reliable member scores full marks", func(t *testing.T) {
		result, err := engine.Assess(reliableMember(1), nil)
		require.NoError(t, err)

		assert.Equal(t, 100.0, result.Score)
		assert.True(t, result.Level.Equal(valueobject.RiskLevelLow))
		assert.Equal(t, 0.0, result.DefaultProbability)
		assert.True(t, result.Eligible)
		require.NotNil(t, result.RecommendedAmount)
		assert.True(t, result.RecommendedAmount.Equal(dec("300000")), "got %s", result.RecommendedAmount)
		assert.Empty(t, result.RiskFactors)
		assert.Len(t, result.Factors, 4)
		for _, f := range result.Factors {
			assert.Equal(t, "POSITIVE", f.Impact, f.Name)
		}
	})

	t.Run("newcomer gets neutral history scores", func(t *testing.T) {
		result, err := engine.Assess(newcomer(2), nil)
		require.NoError(t, err)

		// 0.4*50 + 0.3*70 + 0.15*0 + 0.15*100
		assert.Equal(t, 56.0, result.Score)
		assert.True(t, result.Level.Equal(valueobject.RiskLevelModerate))
		assert.InDelta(t, 0.44, result.DefaultProbability, 1e-9)
		assert.True(t, result.Eligible)
		require.NotNil(t, result.RecommendedAmount)
		assert.True(t, result.RecommendedAmount.IsZero())
		assert.Equal(t, []string{"short membership: 0 months"}, result.RiskFactors)
	})

	t.Run("unresolved default blocks eligibility", func(t *testing.T) {
		result, err := engine.Assess(defaulter(3), nil)
		require.NoError(t, err)

		// 0.4*40 + 0.3*40 + 0.15*50 + 0.15*60
		assert.Equal(t, 44.5, result.Score)
		assert.True(t, result.Level.Equal(valueobject.RiskLevelHigh))
		assert.False(t, result.Eligible)
		assert.Nil(t, result.RecommendedAmount)
		require.Len(t, result.RiskFactors, 2)
		assert.Contains(t, result.RiskFactors[0], "irregular contributions")
		assert.Contains(t, result.RiskFactors[1], "poor loan history")
		assert.Contains(t, result.Recommendations, "settle the outstanding defaulted loan before any new borrowing")
	})

	t.Run("requested amount drives the coverage factor", func(t *testing.T) {
		requested := dec("1000000")
		result, err := engine.Assess(reliableMember(4), &requested)
		require.NoError(t, err)

		// coverage (100000+50000)/1000000 = 15
		assert.Equal(t, 87.25, result.Score)
		require.NotNil(t, result.RecommendedAmount)
		assert.True(t, result.RecommendedAmount.Equal(dec("261750")), "got %s", result.RecommendedAmount)
		require.Len(t, result.RiskFactors, 2)
		assert.Equal(t, "savings do not cover the loan exposure", result.RiskFactors[0])
		assert.Equal(t, "requested amount exceeds recommended limit", result.RiskFactors[1])
	})

	t.Run("recommended amount is capped at the ceiling", func(t *testing.T) {
		m := reliableMember(5)
		m.ContributionTotal = dec("10000000")
		result, err := engine.Assess(m, nil)
		require.NoError(t, err)
		require.NotNil(t, result.RecommendedAmount)
		assert.True(t, result.RecommendedAmount.Equal(service.DefaultRiskPolicy().LimitCeiling))
	})

	t.Run("score and probability stay in range", func(t *testing.T) {
		for _, m := range []model.MemberProfile{reliableMember(6), newcomer(7), defaulter(8)} {
			result, err := engine.Assess(m, nil)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Score, 0.0)
			assert.LessOrEqual(t, result.Score, 100.0)
			want := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(result.Score)).Div(decimal.NewFromInt(100))
			assert.Equal(t, want.InexactFloat64(), result.DefaultProbability)
		}
	})

	t.Run("punctual member without loans", func(t *testing.T) {
		m := model.MemberProfile{
			UserID:              10,
			ContributionTotal:   dec("10000"),
			ContributionCount:   10,
			OnTimeCount:         10,
			AmountBorrowedTotal: decimal.Zero,
			AmountRepaidTotal:   decimal.Zero,
		}
		result, err := engine.Assess(m, nil)
		require.NoError(t, err)

		scores := map[string]float64{}
		for _, f := range result.Factors {
			scores[f.Name] = f.Score
		}
		assert.Equal(t, 100.0, scores["punctuality"])
		assert.Equal(t, 70.0, scores["loan_history"])
		assert.Equal(t, 0.0, scores["seniority"])
		assert.Equal(t, 100.0, scores["savings_to_loan"])

		// 0.4*100 + 0.3*70 + 0.15*0 + 0.15*100
		assert.Equal(t, 76.0, result.Score)
		assert.True(t, result.Level.Equal(valueobject.RiskLevelModerate))
		assert.Equal(t, 0.24, result.DefaultProbability)
	})

	t.Run("is deterministic", func(t *testing.T) {
		a, err := engine.Assess(defaulter(9), nil)
		require.NoError(t, err)
		b, err := engine.Assess(defaulter(9), nil)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestRiskEngine_AssessValidation(t *testing.T) {
	engine := newRiskEngine()

	tests := []struct {
		name      string
		member    model.MemberProfile
		requested *decimal.Decimal
	}{
		{
			name: "counts exceed contributions",
			member: func() model.MemberProfile {
				m := reliableMember(1)
				m.LateCount = 5
				return m
			}(),
		},
		{
			name: "loan outcomes exceed loans",
			member: func() model.MemberProfile {
				m := reliableMember(1)
				m.LoansDefaulted = 1
				return m
			}(),
		},
		{
			name: "on-time count near the int64 limit",
			member: func() model.MemberProfile {
				m := reliableMember(1)
				m.ContributionCount = 5
				m.OnTimeCount = math.MaxInt64
				m.LateCount = 1
				return m
			}(),
		},
		{
			name: "late count near the int64 limit",
			member: func() model.MemberProfile {
				m := reliableMember(1)
				m.ContributionCount = 5
				m.OnTimeCount = 1
				m.LateCount = math.MaxInt64
				return m
			}(),
		},
		{
			name: "loan outcomes near the int64 limit",
			member: func() model.MemberProfile {
				m := reliableMember(1)
				m.LoansRepaid = math.MaxInt64
				m.LoansDefaulted = 1
				return m
			}(),
		},
		{
			name: "negative amount",
			member: func() model.MemberProfile {
				m := reliableMember(1)
				m.ContributionTotal = dec("-1")
				return m
			}(),
		},
		{
			name:      "zero requested amount",
			member:    reliableMember(1),
			requested: func() *decimal.Decimal { d := decimal.Zero; return &d }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Assess(tt.member, tt.requested)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var ve *model.ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestRiskEngine_ScoreRisesWithPunctuality(t *testing.T) {
	engine := newRiskEngine()

	for _, late := range []int64{0, 3} {
		prev := -1.0
		for onTime := int64(0); onTime+late <= 20; onTime++ {
			m := defaulter(1)
			m.ContributionCount = 20
			m.OnTimeCount = onTime
			m.LateCount = late

			result, err := engine.Assess(m, nil)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.Score, prev, "on_time=%d late=%d", onTime, late)
			prev = result.Score
		}
	}
}

func TestRiskEngine_CreditLimit(t *testing.T) {
	engine := newRiskEngine()

	t.Run("eligible member", func(t *testing.T) {
		limit, err := engine.CreditLimit(reliableMember(1))
		require.NoError(t, err)
		assert.True(t, limit.Eligible)
		assert.True(t, limit.Limit.Equal(dec("300000")))
		assert.True(t, limit.Multiple.Equal(decimal.NewFromInt(3)))
	})

	t.Run("defaulted member has no limit", func(t *testing.T) {
		limit, err := engine.CreditLimit(defaulter(2))
		require.NoError(t, err)
		assert.False(t, limit.Eligible)
		assert.True(t, limit.Limit.IsZero())
		assert.Equal(t, "unresolved loan default", limit.Reason)
	})
}

func TestRiskEngine_AssessBatch(t *testing.T) {
	engine := newRiskEngine()

	invalid := reliableMember(99)
	invalid.OnTimeCount = 50

	batch, err := engine.AssessBatch([]service.RiskRequest{
		{Member: reliableMember(1)},
		{Member: invalid},
		{Member: newcomer(2)},
		{Member: defaulter(3)},
	})
	require.NoError(t, err)

	require.Len(t, batch.Assessments, 3)
	assert.Equal(t, int64(3), batch.Assessments[0].UserID)
	assert.Equal(t, int64(2), batch.Assessments[1].UserID)
	assert.Equal(t, int64(1), batch.Assessments[2].UserID)

	require.Len(t, batch.Failures, 1)
	assert.Equal(t, 1, batch.Failures[0].Index)
	assert.Equal(t, int64(99), batch.Failures[0].UserID)
	assert.ErrorIs(t, batch.Failures[0].Err, model.ErrValidation)

	assert.Equal(t, 3, batch.Stats.Count)
	assert.Equal(t, 66.83, batch.Stats.Mean)
	assert.Equal(t, 44.5, batch.Stats.Min)
	assert.Equal(t, 100.0, batch.Stats.Max)
	assert.Equal(t, 2, batch.Stats.AtRisk)
}

func TestRiskEngine_AssessBatchTiesByUserID(t *testing.T) {
	engine := newRiskEngine()

	batch, err := engine.AssessBatch([]service.RiskRequest{
		{Member: newcomer(5)},
		{Member: newcomer(3)},
		{Member: newcomer(4)},
	})
	require.NoError(t, err)
	require.Len(t, batch.Assessments, 3)
	assert.Equal(t, []int64{3, 4, 5}, []int64{
		batch.Assessments[0].UserID,
		batch.Assessments[1].UserID,
		batch.Assessments[2].UserID,
	})
}

func TestRiskEngine_AssessBatchRejectsEmpty(t *testing.T) {
	_, err := newRiskEngine().AssessBatch(nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}
