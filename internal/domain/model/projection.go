package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

var (
	maxMonthlyRate = decimal.RequireFromString("0.5")
	one            = decimal.NewFromInt(1)
)

// Assumptions parameterise a projection. All rates are fractions.
type Assumptions struct {
	StartDate           time.Time
	CollectionRate      decimal.Decimal
	LoanAllocationRate  decimal.Decimal
	MonthlyInterestRate decimal.Decimal
	GrowthRate          decimal.Decimal
}

// Validate checks every rate against its allowed range.
func (a Assumptions) Validate() error {
	ranges := []struct {
		field string
		v     decimal.Decimal
		max   decimal.Decimal
	}{
		{"collection_rate", a.CollectionRate, one},
		{"loan_allocation_rate", a.LoanAllocationRate, one},
		{"monthly_interest_rate", a.MonthlyInterestRate, maxMonthlyRate},
		{"growth_rate", a.GrowthRate, maxMonthlyRate},
	}
	for _, r := range ranges {
		if r.v.IsNegative() || r.v.GreaterThan(r.max) {
			return NewValidationError(r.field, "must be between 0 and %s", r.max.String())
		}
	}
	if a.StartDate.IsZero() {
		return NewValidationError("start_date", "is required")
	}
	return nil
}

// ProjectionPoint is the projected state of a fund at the end of one month.
type ProjectionPoint struct {
	MonthIndex           int
	Date                 time.Time
	CumulativeSavings    decimal.Decimal
	EstimatedLoans       decimal.Decimal
	EstimatedInterest    decimal.Decimal
	ProjectedBalance     decimal.Decimal
	ProjectedMemberCount int64
}

// Projection is a month-by-month simulation of a group's fund.
type Projection struct {
	GroupID       int64
	HorizonMonths int
	Assumptions   Assumptions
	Points        []ProjectionPoint
	TotalSavings  decimal.Decimal
	TotalInterest decimal.Decimal
	FinalBalance  decimal.Decimal
}

// ScenarioSet holds the three projections of a scenario analysis.
type ScenarioSet struct {
	GroupID     int64
	Optimistic  Projection
	Realistic   Projection
	Pessimistic Projection
}

// MemberShare is a member's contribution used to split cycle payouts.
type MemberShare struct {
	UserID      int64
	Contributed decimal.Decimal
}

// CycleParams describes one savings cycle to simulate.
type CycleParams struct {
	Members             int64
	ContributionAmount  decimal.Decimal
	Frequency           valueobject.Frequency
	DurationMonths      int
	StartDate           time.Time
	ParticipationRate   decimal.Decimal
	LoanAllocationRate  decimal.Decimal
	MonthlyInterestRate decimal.Decimal
	DefaultRate         decimal.Decimal
	PenaltyRate         decimal.Decimal
	Shares              []MemberShare
}

// Validate checks the cycle parameters.
func (p CycleParams) Validate(maxMembers int64, maxMonths int) error {
	if p.Members < 1 || p.Members > maxMembers {
		return NewValidationError("members", "must be between 1 and %d", maxMembers)
	}
	if !p.ContributionAmount.IsPositive() {
		return NewValidationError("contribution_amount", "must be positive")
	}
	if _, err := valueobject.ParseFrequency(string(p.Frequency)); err != nil {
		return NewValidationError("frequency", "%v", err)
	}
	if p.DurationMonths < 1 || p.DurationMonths > maxMonths {
		return NewValidationError("duration_months", "must be between 1 and %d", maxMonths)
	}
	if p.StartDate.IsZero() {
		return NewValidationError("start_date", "is required")
	}
	rates := []struct {
		field string
		v     decimal.Decimal
		max   decimal.Decimal
	}{
		{"participation_rate", p.ParticipationRate, one},
		{"loan_allocation_rate", p.LoanAllocationRate, one},
		{"monthly_interest_rate", p.MonthlyInterestRate, maxMonthlyRate},
		{"default_rate", p.DefaultRate, one},
		{"penalty_rate", p.PenaltyRate, one},
	}
	for _, r := range rates {
		if r.v.IsNegative() || r.v.GreaterThan(r.max) {
			return NewValidationError(r.field, "must be between 0 and %s", r.max.String())
		}
	}
	if len(p.Shares) > 0 && int64(len(p.Shares)) != p.Members {
		return NewValidationError("shares", "must list exactly %d members", p.Members)
	}
	for _, s := range p.Shares {
		if s.Contributed.IsNegative() {
			return NewValidationError("shares", "contributions must not be negative")
		}
	}
	return nil
}

// CycleMonth is the fund movement of one simulated month.
type CycleMonth struct {
	MonthIndex     int
	Date           time.Time
	Collected      decimal.Decimal
	Penalties      decimal.Decimal
	LoansIssued    decimal.Decimal
	InterestEarned decimal.Decimal
	WrittenOff     decimal.Decimal
	Balance        decimal.Decimal
}

// MemberPayout is one member's share of the distributable fund.
type MemberPayout struct {
	Position    int
	UserID      int64
	Contributed decimal.Decimal
	Share       float64
	Payout      decimal.Decimal
}

// CycleSimulation is the outcome of a simulated savings cycle.
type CycleSimulation struct {
	Months             []CycleMonth
	TotalContributions decimal.Decimal
	TotalPenalties     decimal.Decimal
	TotalInterest      decimal.Decimal
	TotalWrittenOff    decimal.Decimal
	FinalBalance       decimal.Decimal
	Distributable      decimal.Decimal
	AveragePayout      decimal.Decimal
	Payouts            []MemberPayout
	ReturnOnSavings    float64
}

// SavingsGoalResult reports when a group reaches a savings target.
type SavingsGoalResult struct {
	GroupID           int64
	Target            decimal.Decimal
	Status            valueobject.GoalStatus
	MonthsNeeded      int
	ReachedOn         *time.Time
	ProjectedSavings  decimal.Decimal
	MonthlyCollection decimal.Decimal
}

// LoanCapacity is how much a group can lend now and at its projected peak.
type LoanCapacity struct {
	GroupID          int64
	Capacity         decimal.Decimal
	PerMember        decimal.Decimal
	PeakCapacity     decimal.Decimal
	PeakMonth        int
	Ceiling          decimal.Decimal
	CappedByCeiling  bool
	AvailableBalance decimal.Decimal
	OutstandingLoans decimal.Decimal
}

// InterestMonth is the interest earned in one projected month.
type InterestMonth struct {
	MonthIndex int
	Date       time.Time
	Interest   decimal.Decimal
	Cumulative decimal.Decimal
}

// InterestProjection is the cumulative interest a fund earns over a horizon.
type InterestProjection struct {
	GroupID        int64
	HorizonMonths  int
	Months         []InterestMonth
	TotalInterest  decimal.Decimal
	MonthlyAverage decimal.Decimal
}
