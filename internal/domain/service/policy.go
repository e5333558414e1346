package service

import "github.com/shopspring/decimal"

// Limits bound the cost of a single call.
type Limits struct {
	MaxHorizonMonths int
	MaxCycleMonths   int
	MaxMembers       int
	MaxGroups        int
	MaxGoalMonths    int
	BatchParallelism int
}

// DefaultLimits returns the ceilings applied when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxHorizonMonths: 120,
		MaxCycleMonths:   24,
		MaxMembers:       500,
		MaxGroups:        200,
		MaxGoalMonths:    1200,
		BatchParallelism: 8,
	}
}

// RiskPolicy holds the weights and constants of the member risk model.
type RiskPolicy struct {
	PunctualityWeight   decimal.Decimal
	LoanHistoryWeight   decimal.Decimal
	SeniorityWeight     decimal.Decimal
	SavingsToLoanWeight decimal.Decimal

	NeutralPunctuality decimal.Decimal
	NeutralLoanHistory decimal.Decimal
	DefaultPenalty     decimal.Decimal
	RepaidBonus        decimal.Decimal
	SeniorityCapMonths int64

	EligibilityFloor decimal.Decimal
	AtRiskBelow      decimal.Decimal
	FlagBelow        decimal.Decimal
	LimitMultiple    decimal.Decimal
	LimitCeiling     decimal.Decimal
}

// DefaultRiskPolicy returns the standard member risk model.
//
// Weights:
//   - Contribution punctuality: 40%
//   - Loan history: 30%
//   - Seniority: 15%
//   - Savings to loan coverage: 15%
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{
		PunctualityWeight:   decimal.NewFromFloat(0.40),
		LoanHistoryWeight:   decimal.NewFromFloat(0.30),
		SeniorityWeight:     decimal.NewFromFloat(0.15),
		SavingsToLoanWeight: decimal.NewFromFloat(0.15),
		NeutralPunctuality:  decimal.NewFromInt(50),
		NeutralLoanHistory:  decimal.NewFromInt(70),
		DefaultPenalty:      decimal.NewFromInt(30),
		RepaidBonus:         decimal.NewFromInt(5),
		SeniorityCapMonths:  24,
		EligibilityFloor:    decimal.NewFromInt(40),
		AtRiskBelow:         decimal.NewFromInt(60),
		FlagBelow:           decimal.NewFromInt(50),
		LimitMultiple:       decimal.NewFromInt(3),
		LimitCeiling:        decimal.NewFromInt(5_000_000),
	}
}

// Threshold marks where an indicator becomes a strength or a weakness. For
// indicators where lower is better the comparisons are reversed.
type Threshold struct {
	Strong float64
	Weak   float64
}

// HealthPolicy holds the weights, floors and references of the group health
// model.
type HealthPolicy struct {
	ParticipationWeight   float64
	LoanPerformanceWeight float64
	RetentionWeight       float64
	LiquidityWeight       float64

	// Liquidity is full at or below LiquidityComfort and zero at or above
	// LiquidityLimit.
	LiquidityComfort float64
	LiquidityLimit   float64
	RatioCap         float64

	TrendThreshold     float64
	IndicatorTolerance float64
	BenchmarkTolerance float64

	Thresholds map[string]Threshold
	References map[string]float64
}

// DefaultHealthPolicy returns the standard group health model.
func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{
		ParticipationWeight:   0.30,
		LoanPerformanceWeight: 0.30,
		RetentionWeight:       0.20,
		LiquidityWeight:       0.20,
		LiquidityComfort:      0.6,
		LiquidityLimit:        1.2,
		RatioCap:              10,
		TrendThreshold:        5,
		IndicatorTolerance:    0.02,
		BenchmarkTolerance:    0.01,
		Thresholds: map[string]Threshold{
			IndicatorParticipation:   {Strong: 0.90, Weak: 0.70},
			IndicatorLoanPerformance: {Strong: 0.90, Weak: 0.75},
			IndicatorDiversification: {Strong: 0.75, Weak: 0.50},
			IndicatorLoanToSavings:   {Strong: 0.60, Weak: 0.80},
			IndicatorRetention:       {Strong: 0.90, Weak: 0.75},
		},
		References: map[string]float64{
			IndicatorParticipation:   0.85,
			IndicatorLoanPerformance: 0.90,
			IndicatorDiversification: 0.50,
			IndicatorLoanToSavings:   0.60,
			IndicatorRetention:       0.90,
		},
	}
}

// RankingPolicy holds the weights of the member discipline score.
type RankingPolicy struct {
	RegularityWeight   decimal.Decimal
	ContributionWeight decimal.Decimal
	RepaymentWeight    decimal.Decimal
	SeniorityWeight    decimal.Decimal

	// BadgeBand is the fraction of members in each of the Silver and Bronze
	// bands.
	BadgeBand float64
}

// DefaultRankingPolicy returns the standard discipline ranking.
func DefaultRankingPolicy() RankingPolicy {
	return RankingPolicy{
		RegularityWeight:   decimal.NewFromFloat(0.4),
		ContributionWeight: decimal.NewFromFloat(0.3),
		RepaymentWeight:    decimal.NewFromFloat(0.2),
		SeniorityWeight:    decimal.NewFromFloat(0.1),
		BadgeBand:          0.10,
	}
}

// ScenarioFactors scales the assumptions of one scenario.
type ScenarioFactors struct {
	Collection decimal.Decimal
	Growth     decimal.Decimal
	Interest   decimal.Decimal
}

// ProjectionPolicy holds scenario multipliers, the lending ceiling and the
// assumptions used when a caller supplies none.
type ProjectionPolicy struct {
	Optimistic  ScenarioFactors
	Pessimistic ScenarioFactors

	LoanCeiling decimal.Decimal

	DefaultCollectionRate     decimal.Decimal
	DefaultLoanAllocationRate decimal.Decimal
	DefaultMonthlyInterest    decimal.Decimal
	DefaultGrowthRate         decimal.Decimal
}

// DefaultProjectionPolicy returns the standard projection settings.
func DefaultProjectionPolicy() ProjectionPolicy {
	return ProjectionPolicy{
		Optimistic: ScenarioFactors{
			Collection: decimal.NewFromFloat(1.10),
			Growth:     decimal.NewFromFloat(1.5),
			Interest:   decimal.NewFromFloat(1.10),
		},
		Pessimistic: ScenarioFactors{
			Collection: decimal.NewFromFloat(0.85),
			Growth:     decimal.NewFromFloat(0.5),
			Interest:   decimal.NewFromFloat(0.90),
		},
		LoanCeiling:               decimal.NewFromInt(50_000_000),
		DefaultCollectionRate:     decimal.NewFromFloat(0.9),
		DefaultLoanAllocationRate: decimal.NewFromFloat(0.5),
		DefaultMonthlyInterest:    decimal.NewFromFloat(0.10),
		DefaultGrowthRate:         decimal.NewFromFloat(0.02),
	}
}

// AlertPolicy holds the thresholds of the alert rules.
type AlertPolicy struct {
	InactiveWarning       float64
	InactiveCritical      float64
	OverdueInfoMax        float64
	OverdueWarningMax     float64
	ParticipationWarning  float64
	ParticipationCritical float64
	LiquidityWarning      float64
	LiquidityCritical     float64
}

// DefaultAlertPolicy returns the standard alert thresholds.
func DefaultAlertPolicy() AlertPolicy {
	return AlertPolicy{
		InactiveWarning:       0.2,
		InactiveCritical:      0.4,
		OverdueInfoMax:        0.10,
		OverdueWarningMax:     0.25,
		ParticipationWarning:  0.6,
		ParticipationCritical: 0.4,
		LiquidityWarning:      0.8,
		LiquidityCritical:     1.0,
	}
}
