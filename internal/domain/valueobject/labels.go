package valueobject

// Trend is the direction of a metric relative to a caller-supplied baseline.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendStable    Trend = "Stable"
	TrendDeclining Trend = "Declining"
)

// Badge is the recognition tier assigned by member ranking.
type Badge string

const (
	BadgeGold   Badge = "Gold"
	BadgeSilver Badge = "Silver"
	BadgeBronze Badge = "Bronze"
	BadgeMember Badge = "Member"
)

// Severity grades an alert.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AlertCode names an alert rule.
type AlertCode string

const (
	AlertInactiveMembersHigh AlertCode = "InactiveMembersHigh"
	AlertLoansOverdue        AlertCode = "LoansOverdue"
	AlertLowParticipation    AlertCode = "LowParticipation"
	AlertLiquidityRisk       AlertCode = "LiquidityRisk"
)

// BenchmarkPosition places an indicator relative to its sector reference.
type BenchmarkPosition string

const (
	PositionAbove BenchmarkPosition = "above"
	PositionAt    BenchmarkPosition = "at"
	PositionBelow BenchmarkPosition = "below"
)

// GoalStatus reports whether a savings goal can be reached.
type GoalStatus string

const (
	GoalReachable   GoalStatus = "Reachable"
	GoalUnreachable GoalStatus = "Unreachable"
)

// GrowthStage describes a group's maturity.
type GrowthStage string

const (
	StageNew     GrowthStage = "new"
	StageGrowing GrowthStage = "growing"
	StageMature  GrowthStage = "mature"
)
