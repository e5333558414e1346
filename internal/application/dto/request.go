package dto

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ---------------------------------------------------------------------------
// Shared request payloads
// ---------------------------------------------------------------------------

// MemberProfile is the wire form of a member's contribution and loan record.
type MemberProfile struct {
	UserID              int64   `json:"user_id" validate:"required,gt=0"`
	SeniorityMonths     int64   `json:"seniority_months" validate:"gte=0"`
	ContributionTotal   float64 `json:"contribution_total" validate:"gte=0"`
	ContributionCount   int64   `json:"contribution_count" validate:"gte=0"`
	OnTimeCount         int64   `json:"on_time_count" validate:"gte=0"`
	LateCount           int64   `json:"late_count" validate:"gte=0"`
	LoanCount           int64   `json:"loan_count" validate:"gte=0"`
	LoansRepaid         int64   `json:"loans_repaid" validate:"gte=0"`
	LoansDefaulted      int64   `json:"loans_defaulted" validate:"gte=0"`
	AmountBorrowedTotal float64 `json:"amount_borrowed_total" validate:"gte=0"`
	AmountRepaidTotal   float64 `json:"amount_repaid_total" validate:"gte=0"`
}

// GroupProfile is the wire form of a savings group snapshot. AsOf defaults to
// the current date when omitted.
type GroupProfile struct {
	GroupID               int64           `json:"group_id" validate:"required,gt=0"`
	Name                  string          `json:"name" validate:"max=200"`
	ContributionAmount    float64         `json:"contribution_amount" validate:"gte=0"`
	Frequency             string          `json:"frequency" validate:"required,oneof=weekly biweekly monthly"`
	CycleDurationMonths   int64           `json:"cycle_duration_months" validate:"required,gte=1"`
	ActiveMembers         int64           `json:"active_members" validate:"gte=0"`
	InactiveMembers       int64           `json:"inactive_members" validate:"gte=0"`
	TotalBalance          float64         `json:"total_balance" validate:"gte=0"`
	TotalContributions    float64         `json:"total_contributions" validate:"gte=0"`
	TotalActiveLoans      float64         `json:"total_active_loans" validate:"gte=0"`
	ExpectedContributions int64           `json:"expected_contributions" validate:"gte=0"`
	ReceivedContributions int64           `json:"received_contributions" validate:"gte=0"`
	TotalLoans            int64           `json:"total_loans" validate:"gte=0"`
	LateLoans             int64           `json:"late_loans" validate:"gte=0"`
	ContributionTypes     []string        `json:"contribution_types" validate:"dive,oneof=savings penalty repayment interest"`
	CreationDate          string          `json:"creation_date" validate:"required,datetime=2006-01-02"`
	AsOf                  string          `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Members               []MemberProfile `json:"members,omitempty" validate:"omitempty,dive"`
}

// Assumptions overrides the default projection assumptions. Omitted fields
// keep their configured defaults; StartDate defaults to the group's as_of.
type Assumptions struct {
	StartDate           string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CollectionRate      *float64 `json:"collection_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
	LoanAllocationRate  *float64 `json:"loan_allocation_rate,omitempty" validate:"omitempty,gte=0,lte=1"`
	MonthlyInterestRate *float64 `json:"monthly_interest_rate,omitempty" validate:"omitempty,gte=0,lte=0.5"`
	GrowthRate          *float64 `json:"growth_rate,omitempty" validate:"omitempty,gte=0,lte=0.5"`
}

// HealthBaseline is a previous health observation used for trends.
type HealthBaseline struct {
	Score      float64           `json:"score" validate:"gte=0,lte=100"`
	Indicators *HealthIndicators `json:"indicators,omitempty"`
}

// ---------------------------------------------------------------------------
// Risk requests
// ---------------------------------------------------------------------------

// RiskScoreRequest scores one member, optionally against a requested loan.
type RiskScoreRequest struct {
	Member          MemberProfile `json:"member"`
	RequestedAmount *float64      `json:"requested_amount,omitempty" validate:"omitempty,gt=0"`
}

// RiskBatchRequest scores many members. Members are validated one by one
// so that a malformed entry fails alone.
type RiskBatchRequest struct {
	Members []RiskScoreRequest `json:"members" validate:"required,min=1"`
}

// CreditLimitRequest asks for the borrowing limit of a member.
type CreditLimitRequest struct {
	Member MemberProfile `json:"member"`
}

// ---------------------------------------------------------------------------
// Group requests
// ---------------------------------------------------------------------------

// GroupRequest carries a single group snapshot.
type GroupRequest struct {
	Group GroupProfile `json:"group"`
}

// GroupHealthRequest assesses a group, optionally against a baseline.
type GroupHealthRequest struct {
	Group    GroupProfile    `json:"group"`
	Baseline *HealthBaseline `json:"baseline,omitempty"`
}

// RankingRequest ranks the members of one group.
type RankingRequest struct {
	GroupID int64           `json:"group_id" validate:"required,gt=0"`
	Members []MemberProfile `json:"members" validate:"required,min=1,dive"`
}

// ---------------------------------------------------------------------------
// Projection requests
// ---------------------------------------------------------------------------

// ProjectionRequest projects a group fund over a horizon.
type ProjectionRequest struct {
	Group         GroupProfile `json:"group"`
	HorizonMonths int          `json:"horizon_months" validate:"gte=0"`
	Assumptions   *Assumptions `json:"assumptions,omitempty"`
}

// SavingsGoalRequest asks when a group reaches a savings target.
type SavingsGoalRequest struct {
	Group        GroupProfile `json:"group"`
	TargetAmount float64      `json:"target_amount" validate:"required,gt=0"`
	Assumptions  *Assumptions `json:"assumptions,omitempty"`
}

// MemberShare is one member's contribution used for pro-rata payouts.
type MemberShare struct {
	UserID      int64   `json:"user_id" validate:"required,gt=0"`
	Contributed float64 `json:"contributed" validate:"gte=0"`
}

// CycleSimulationRequest simulates a full savings cycle.
type CycleSimulationRequest struct {
	Members             int64         `json:"members" validate:"required,gte=1"`
	ContributionAmount  float64       `json:"contribution_amount" validate:"required,gt=0"`
	Frequency           string        `json:"frequency" validate:"required,oneof=weekly biweekly monthly"`
	DurationMonths      int           `json:"duration_months" validate:"required,gte=1"`
	StartDate           string        `json:"start_date" validate:"required,datetime=2006-01-02"`
	ParticipationRate   float64       `json:"participation_rate" validate:"gte=0,lte=1"`
	LoanAllocationRate  float64       `json:"loan_allocation_rate" validate:"gte=0,lte=1"`
	MonthlyInterestRate float64       `json:"monthly_interest_rate" validate:"gte=0,lte=0.5"`
	DefaultRate         float64       `json:"default_rate" validate:"gte=0,lte=1"`
	PenaltyRate         float64       `json:"penalty_rate" validate:"gte=0,lte=1"`
	Shares              []MemberShare `json:"shares,omitempty" validate:"omitempty,dive"`
}

// ---------------------------------------------------------------------------
// Portfolio requests
// ---------------------------------------------------------------------------

// DashboardRequest builds a portfolio dashboard. Groups are validated one
// by one so that a malformed group fails alone.
type DashboardRequest struct {
	Groups        []GroupProfile `json:"groups" validate:"required,min=1"`
	HorizonMonths int            `json:"horizon_months" validate:"omitempty,gte=1"`
}

// TrendsRequest compares a group with a previous observation.
type TrendsRequest struct {
	Group    GroupProfile    `json:"group"`
	Baseline *HealthBaseline `json:"baseline,omitempty"`
}

// CompareRequest compares groups with each other.
type CompareRequest struct {
	Groups []GroupProfile `json:"groups" validate:"required,min=2,dive"`
}

// StatusRequest asks for the service status.
type StatusRequest struct{}
