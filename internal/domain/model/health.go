package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// HealthIndicators is the shared indicator set computed for every group.
type HealthIndicators struct {
	ParticipationRate  float64
	LoanPerformance    float64
	Diversification    float64
	LoanToSavingsRatio float64
	Retention          float64
}

// HealthBaseline is a previously observed state supplied by the caller.
// Indicators may be nil when only the score is known.
type HealthBaseline struct {
	Indicators *HealthIndicators
	Score      float64
}

// HealthAssessment is the composite health evaluation of one group.
type HealthAssessment struct {
	GroupID         int64
	Score           float64
	Level           valueobject.HealthLevel
	Indicators      HealthIndicators
	Strengths       []string
	Weaknesses      []string
	Recommendations []string
	Trend           valueobject.Trend

	// ScoreChange is set only when a baseline was supplied.
	ScoreChange *float64
}

// ParticipationAnalysis details contribution attendance and member retention.
type ParticipationAnalysis struct {
	GroupID               int64
	ExpectedContributions int64
	ReceivedContributions int64
	MissedContributions   int64
	ParticipationRate     float64
	ActiveMembers         int64
	InactiveMembers       int64
	RetentionRate         float64
	Level                 valueobject.HealthLevel
	Recommendations       []string
}

// LoanPerformanceAnalysis details repayment quality and fund exposure.
type LoanPerformanceAnalysis struct {
	GroupID            int64
	TotalLoans         int64
	LateLoans          int64
	OnTimeLoans        int64
	LoanPerformance    float64
	LateRate           float64
	LoanToSavingsRatio float64
	LiquidityScore     float64
	OutstandingLoans   decimal.Decimal
	AvailableBalance   decimal.Decimal
	Recommendations    []string
}

// GrowthAnalysis describes how far a group has progressed since creation.
type GrowthAnalysis struct {
	GroupID                     int64
	AgeMonths                   int64
	CyclesCompleted             int64
	AverageMonthlyContribution  decimal.Decimal
	ContributionPerActiveMember decimal.Decimal
	BalanceToContributions      float64
	Stage                       valueobject.GrowthStage
	Recommendations             []string
}

// BenchmarkEntry compares one indicator with its sector reference.
type BenchmarkEntry struct {
	Indicator string
	Value     float64
	Reference float64
	Delta     float64
	Position  valueobject.BenchmarkPosition
	Favorable bool
}

// BenchmarkReport is the per-indicator comparison for one group.
type BenchmarkReport struct {
	GroupID          int64
	Entries          []BenchmarkEntry
	FavorableCount   int
	UnfavorableCount int
}
