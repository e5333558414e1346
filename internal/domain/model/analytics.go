package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// Alert is a condition on a group that needs the attention of its officers.
type Alert struct {
	GroupID  int64
	Code     valueobject.AlertCode
	Severity valueobject.Severity
	Message  string
	Value    float64
}

// GroupRiskSummary aggregates member risk scores of one group.
type GroupRiskSummary struct {
	Assessed  int
	MeanScore float64
	AtRisk    int
}

// GroupDashboard is the per-group section of a dashboard.
type GroupDashboard struct {
	GroupID          int64
	Name             string
	Health           HealthAssessment
	Risk             *GroupRiskSummary
	Alerts           []Alert
	ProjectedBalance decimal.Decimal
}

// GroupFailure records a group that was rejected during a portfolio operation.
type GroupFailure struct {
	Err     error
	Index   int
	GroupID int64
}

// PortfolioSummary folds every valid group of a dashboard.
type PortfolioSummary struct {
	GroupCount         int
	TotalMembers       int64
	ActiveMembers      int64
	TotalBalance       decimal.Decimal
	TotalContributions decimal.Decimal
	TotalActiveLoans   decimal.Decimal
	ProjectedBalance   decimal.Decimal
	AverageHealth      float64
	LevelDistribution  map[string]int
	AlertsBySeverity   map[valueobject.Severity]int
}

// Dashboard is the portfolio view over many groups.
type Dashboard struct {
	HorizonMonths   int
	Summary         PortfolioSummary
	Groups          []GroupDashboard
	Alerts          []Alert
	Recommendations []string
	Failures        []GroupFailure
}

// IndicatorTrend is the movement of one indicator against its baseline.
type IndicatorTrend struct {
	Indicator string
	Current   float64
	Baseline  float64
	Change    float64
	Direction valueobject.Trend
}

// TrendReport is the movement of a group against a caller-supplied baseline.
type TrendReport struct {
	GroupID             int64
	Score               float64
	BaselineScore       *float64
	Overall             valueobject.Trend
	Indicators          []IndicatorTrend
	InsufficientHistory bool
}

// IndicatorRank is a group's position on one indicator.
type IndicatorRank struct {
	GroupID int64
	Value   float64
	Rank    int
}

// IndicatorComparison ranks every group on a single indicator.
type IndicatorComparison struct {
	Indicator      string
	HigherIsBetter bool
	Ranking        []IndicatorRank
}

// GroupComparison is the cross-group comparison result.
type GroupComparison struct {
	Indicators []IndicatorComparison
	Overall    []IndicatorRank
	Best       int64
	Weakest    int64
}
