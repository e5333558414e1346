package dto

// ---------------------------------------------------------------------------
// Risk responses
// ---------------------------------------------------------------------------

// ScoringFactor is one weighted component of a risk score.
type ScoringFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
	Impact string  `json:"impact"`
}

// RiskAssessmentResponse is the risk profile of a member.
type RiskAssessmentResponse struct {
	UserID             int64           `json:"user_id"`
	RiskScore          float64         `json:"risk_score"`
	RiskLevel          string          `json:"risk_level"`
	DefaultProbability float64         `json:"default_probability"`
	RecommendedAmount  *float64        `json:"recommended_loan_amount"`
	Eligible           bool            `json:"eligible"`
	Factors            []ScoringFactor `json:"factors"`
	RiskFactors        []string        `json:"risk_factors"`
	Recommendations    []string        `json:"recommendations"`
}

// RiskFactorsResponse is the factor breakdown of a member's score.
type RiskFactorsResponse struct {
	UserID      int64           `json:"user_id"`
	RiskScore   float64         `json:"risk_score"`
	Factors     []ScoringFactor `json:"factors"`
	RiskFactors []string        `json:"risk_factors"`
}

// ItemFailure reports an entry of a batch that could not be processed.
type ItemFailure struct {
	Index int    `json:"index"`
	ID    int64  `json:"id,omitempty"`
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

// RiskStats summarises a batch.
type RiskStats struct {
	Count     int     `json:"count"`
	MeanScore float64 `json:"mean_score"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`
	AtRisk    int     `json:"at_risk"`
}

// RiskBatchResponse holds batch scoring results, riskiest first.
type RiskBatchResponse struct {
	Assessments []RiskAssessmentResponse `json:"assessments"`
	Failures    []ItemFailure            `json:"failures"`
	Statistics  RiskStats                `json:"statistics"`
}

// CreditLimitResponse is the recommended borrowing limit of a member.
type CreditLimitResponse struct {
	UserID      int64   `json:"user_id"`
	RiskScore   float64 `json:"risk_score"`
	RiskLevel   string  `json:"risk_level"`
	CreditLimit float64 `json:"credit_limit"`
	Multiple    float64 `json:"multiple"`
	Ceiling     float64 `json:"ceiling"`
	Eligible    bool    `json:"eligible"`
	Reason      string  `json:"reason"`
}

// ---------------------------------------------------------------------------
// Health responses
// ---------------------------------------------------------------------------

// HealthIndicators are the five group health ratios.
type HealthIndicators struct {
	ParticipationRate  float64 `json:"participation_rate" validate:"gte=0,lte=1"`
	LoanPerformance    float64 `json:"loan_performance" validate:"gte=0,lte=1"`
	Diversification    float64 `json:"diversification" validate:"gte=0,lte=1"`
	LoanToSavingsRatio float64 `json:"loan_to_savings_ratio" validate:"gte=0"`
	Retention          float64 `json:"retention" validate:"gte=0,lte=1"`
}

// GroupHealthResponse is the health assessment of a group.
type GroupHealthResponse struct {
	GroupID         int64            `json:"group_id"`
	HealthScore     float64          `json:"health_score"`
	HealthLevel     string           `json:"health_level"`
	Indicators      HealthIndicators `json:"indicators"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Recommendations []string         `json:"recommendations"`
	Trend           string           `json:"trend,omitempty"`
	ScoreChange     *float64         `json:"score_change,omitempty"`
}

// ParticipationResponse analyses contribution participation.
type ParticipationResponse struct {
	GroupID               int64    `json:"group_id"`
	ExpectedContributions int64    `json:"expected_contributions"`
	ReceivedContributions int64    `json:"received_contributions"`
	MissedContributions   int64    `json:"missed_contributions"`
	ParticipationRate     float64  `json:"participation_rate"`
	ActiveMembers         int64    `json:"active_members"`
	InactiveMembers       int64    `json:"inactive_members"`
	RetentionRate         float64  `json:"retention_rate"`
	Level                 string   `json:"level"`
	Recommendations       []string `json:"recommendations"`
}

// LoanPerformanceResponse analyses the loan book of a group.
type LoanPerformanceResponse struct {
	GroupID            int64    `json:"group_id"`
	TotalLoans         int64    `json:"total_loans"`
	LateLoans          int64    `json:"late_loans"`
	OnTimeLoans        int64    `json:"on_time_loans"`
	LoanPerformance    float64  `json:"loan_performance"`
	LateRate           float64  `json:"late_rate"`
	LoanToSavingsRatio float64  `json:"loan_to_savings_ratio"`
	LiquidityScore     float64  `json:"liquidity_score"`
	OutstandingLoans   float64  `json:"outstanding_loans"`
	AvailableBalance   float64  `json:"available_balance"`
	Recommendations    []string `json:"recommendations"`
}

// GrowthResponse analyses the age and growth of a group.
type GrowthResponse struct {
	GroupID                     int64    `json:"group_id"`
	AgeMonths                   int64    `json:"age_months"`
	CyclesCompleted             int64    `json:"cycles_completed"`
	AverageMonthlyContribution  float64  `json:"average_monthly_contribution"`
	ContributionPerActiveMember float64  `json:"contribution_per_active_member"`
	BalanceToContributions      float64  `json:"balance_to_contributions"`
	Stage                       string   `json:"stage"`
	Recommendations             []string `json:"recommendations"`
}

// BenchmarkEntry compares one indicator to its reference value.
type BenchmarkEntry struct {
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Reference float64 `json:"reference"`
	Delta     float64 `json:"delta"`
	Position  string  `json:"position"`
	Favorable bool    `json:"favorable"`
}

// BenchmarkResponse compares a group to reference values.
type BenchmarkResponse struct {
	GroupID          int64            `json:"group_id"`
	Entries          []BenchmarkEntry `json:"benchmarks"`
	FavorableCount   int              `json:"favorable_count"`
	UnfavorableCount int              `json:"unfavorable_count"`
}

// ---------------------------------------------------------------------------
// Ranking responses
// ---------------------------------------------------------------------------

// RankEntry is one member's position in a ranking.
type RankEntry struct {
	Rank              int     `json:"rank"`
	UserID            int64   `json:"user_id"`
	DisciplineScore   float64 `json:"discipline_score"`
	PunctualityRate   float64 `json:"punctuality_rate"`
	Regularity        float64 `json:"regularity"`
	ContributionTotal float64 `json:"contribution_total"`
	LoansRepaid       int64   `json:"loans_repaid"`
	Badge             string  `json:"badge"`
}

// RankingStats summarises a ranking.
type RankingStats struct {
	Count     int            `json:"count"`
	MeanScore float64        `json:"mean_score"`
	TopScore  float64        `json:"top_score"`
	Badges    map[string]int `json:"badges"`
}

// RankingResponse is the ordered member ranking of a group.
type RankingResponse struct {
	GroupID    int64        `json:"group_id"`
	Rankings   []RankEntry  `json:"rankings"`
	Statistics RankingStats `json:"statistics"`
}

// ---------------------------------------------------------------------------
// Projection responses
// ---------------------------------------------------------------------------

// AssumptionsResponse echoes the assumptions a projection ran with.
type AssumptionsResponse struct {
	StartDate           string  `json:"start_date"`
	CollectionRate      float64 `json:"collection_rate"`
	LoanAllocationRate  float64 `json:"loan_allocation_rate"`
	MonthlyInterestRate float64 `json:"monthly_interest_rate"`
	GrowthRate          float64 `json:"growth_rate"`
}

// ProjectionPoint is one month of a projection.
type ProjectionPoint struct {
	Month                int     `json:"month"`
	Date                 string  `json:"date"`
	CumulativeSavings    float64 `json:"cumulative_savings"`
	EstimatedLoans       float64 `json:"estimated_loans"`
	EstimatedInterest    float64 `json:"estimated_interest"`
	ProjectedBalance     float64 `json:"projected_balance"`
	ProjectedMemberCount int64   `json:"projected_member_count"`
}

// ProjectionResponse is a month-by-month projection.
type ProjectionResponse struct {
	GroupID       int64               `json:"group_id"`
	HorizonMonths int                 `json:"horizon_months"`
	Assumptions   AssumptionsResponse `json:"assumptions"`
	Projections   []ProjectionPoint   `json:"projections"`
	TotalSavings  float64             `json:"total_savings"`
	TotalInterest float64             `json:"total_interest"`
	FinalBalance  float64             `json:"final_balance"`
}

// ScenarioResponse holds the three scenarios of a projection.
type ScenarioResponse struct {
	GroupID     int64              `json:"group_id"`
	Optimistic  ProjectionResponse `json:"optimistic"`
	Realistic   ProjectionResponse `json:"realistic"`
	Pessimistic ProjectionResponse `json:"pessimistic"`
}

// CycleMonth is one month of a cycle simulation.
type CycleMonth struct {
	Month          int     `json:"month"`
	Date           string  `json:"date"`
	Collected      float64 `json:"collected"`
	Penalties      float64 `json:"penalties"`
	LoansIssued    float64 `json:"loans_issued"`
	InterestEarned float64 `json:"interest_earned"`
	WrittenOff     float64 `json:"written_off"`
	Balance        float64 `json:"balance"`
}

// MemberPayout is one member's end-of-cycle share-out.
type MemberPayout struct {
	Position    int     `json:"position"`
	UserID      int64   `json:"user_id,omitempty"`
	Contributed float64 `json:"contributed"`
	Share       float64 `json:"share"`
	Payout      float64 `json:"payout"`
}

// CycleSimulationResponse is the outcome of a simulated cycle.
type CycleSimulationResponse struct {
	Months             []CycleMonth   `json:"months"`
	TotalContributions float64        `json:"total_contributions"`
	TotalPenalties     float64        `json:"total_penalties"`
	TotalInterest      float64        `json:"total_interest"`
	TotalWrittenOff    float64        `json:"total_written_off"`
	FinalBalance       float64        `json:"final_balance"`
	Distributable      float64        `json:"distributable"`
	AveragePayout      float64        `json:"average_payout"`
	ReturnOnSavings    float64        `json:"return_on_savings"`
	Payouts            []MemberPayout `json:"payouts"`
}

// SavingsGoalResponse tells when a savings target is reached.
type SavingsGoalResponse struct {
	GroupID           int64   `json:"group_id"`
	TargetAmount      float64 `json:"target_amount"`
	Status            string  `json:"status"`
	MonthsNeeded      *int    `json:"months_needed"`
	ReachedOn         *string `json:"reached_on"`
	ProjectedSavings  float64 `json:"projected_savings"`
	MonthlyCollection float64 `json:"monthly_collection"`
}

// LoanCapacityResponse is the lending capacity of a group.
type LoanCapacityResponse struct {
	GroupID          int64   `json:"group_id"`
	Capacity         float64 `json:"loan_capacity"`
	PerMember        float64 `json:"per_member_capacity"`
	PeakCapacity     float64 `json:"peak_capacity"`
	PeakMonth        int     `json:"peak_month"`
	Ceiling          float64 `json:"ceiling"`
	CappedByCeiling  bool    `json:"capped_by_ceiling"`
	AvailableBalance float64 `json:"available_balance"`
	OutstandingLoans float64 `json:"outstanding_loans"`
}

// InterestMonth is one month of projected interest.
type InterestMonth struct {
	Month      int     `json:"month"`
	Date       string  `json:"date"`
	Interest   float64 `json:"interest"`
	Cumulative float64 `json:"cumulative"`
}

// InterestProjectionResponse is the interest earned over a horizon.
type InterestProjectionResponse struct {
	GroupID        int64           `json:"group_id"`
	HorizonMonths  int             `json:"horizon_months"`
	Months         []InterestMonth `json:"months"`
	TotalInterest  float64         `json:"total_interest"`
	MonthlyAverage float64         `json:"monthly_average"`
}

// ---------------------------------------------------------------------------
// Portfolio responses
// ---------------------------------------------------------------------------

// Alert is a condition that needs attention.
type Alert struct {
	GroupID  int64   `json:"group_id"`
	Code     string  `json:"code"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value"`
}

// AlertsResponse lists the alerts of a group.
type AlertsResponse struct {
	GroupID int64   `json:"group_id"`
	Alerts  []Alert `json:"alerts"`
}

// GroupRiskSummary aggregates the member risk scores of a group.
type GroupRiskSummary struct {
	Assessed  int     `json:"assessed"`
	MeanScore float64 `json:"mean_score"`
	AtRisk    int     `json:"at_risk"`
}

// GroupDashboard is the per-group section of a dashboard.
type GroupDashboard struct {
	GroupID          int64               `json:"group_id"`
	Name             string              `json:"name,omitempty"`
	Health           GroupHealthResponse `json:"health"`
	Risk             *GroupRiskSummary   `json:"risk,omitempty"`
	Alerts           []Alert             `json:"alerts"`
	ProjectedBalance float64             `json:"projected_balance"`
}

// PortfolioSummary totals every valid group of a dashboard.
type PortfolioSummary struct {
	GroupCount         int            `json:"group_count"`
	TotalMembers       int64          `json:"total_members"`
	ActiveMembers      int64          `json:"active_members"`
	TotalBalance       float64        `json:"total_balance"`
	TotalContributions float64        `json:"total_contributions"`
	TotalActiveLoans   float64        `json:"total_active_loans"`
	ProjectedBalance   float64        `json:"projected_balance"`
	AverageHealth      float64        `json:"average_health"`
	LevelDistribution  map[string]int `json:"level_distribution"`
	AlertsBySeverity   map[string]int `json:"alerts_by_severity"`
}

// DashboardResponse is the portfolio dashboard.
type DashboardResponse struct {
	HorizonMonths   int              `json:"horizon_months"`
	Summary         PortfolioSummary `json:"summary"`
	Groups          []GroupDashboard `json:"groups"`
	Alerts          []Alert          `json:"alerts"`
	Recommendations []string         `json:"recommendations"`
	Failures        []ItemFailure    `json:"failures"`
}

// IndicatorTrend is the movement of one indicator.
type IndicatorTrend struct {
	Indicator string  `json:"indicator"`
	Current   float64 `json:"current"`
	Baseline  float64 `json:"baseline"`
	Change    float64 `json:"change"`
	Direction string  `json:"direction"`
}

// TrendsResponse is the movement of a group against a baseline.
type TrendsResponse struct {
	GroupID             int64            `json:"group_id"`
	HealthScore         float64          `json:"health_score"`
	BaselineScore       *float64         `json:"baseline_score"`
	Overall             string           `json:"overall_trend"`
	Indicators          []IndicatorTrend `json:"indicators"`
	InsufficientHistory bool             `json:"insufficient_history"`
}

// IndicatorRank is a group's position on one indicator.
type IndicatorRank struct {
	GroupID int64   `json:"group_id"`
	Value   float64 `json:"value"`
	Rank    int     `json:"rank"`
}

// IndicatorComparison ranks groups on one indicator.
type IndicatorComparison struct {
	Indicator      string          `json:"indicator"`
	HigherIsBetter bool            `json:"higher_is_better"`
	Ranking        []IndicatorRank `json:"ranking"`
}

// CompareResponse is the cross-group comparison.
type CompareResponse struct {
	Indicators []IndicatorComparison `json:"indicators"`
	Overall    []IndicatorRank       `json:"overall"`
	Best       int64                 `json:"best_group_id"`
	Weakest    int64                 `json:"weakest_group_id"`
}

// StatusResponse describes the running service.
type StatusResponse struct {
	Service string   `json:"service"`
	Version string   `json:"version"`
	Status  string   `json:"status"`
	Engines []string `json:"engines"`
}
