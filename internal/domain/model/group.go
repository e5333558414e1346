package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// GroupProfile is a point-in-time snapshot of a savings group's fund.
type GroupProfile struct {
	GroupID               int64
	Name                  string
	ContributionAmount    decimal.Decimal
	Frequency             valueobject.Frequency
	CycleDurationMonths   int64
	ActiveMembers         int64
	InactiveMembers       int64
	TotalBalance          decimal.Decimal
	TotalContributions    decimal.Decimal
	TotalActiveLoans      decimal.Decimal
	ExpectedContributions int64
	ReceivedContributions int64
	TotalLoans            int64
	LateLoans             int64
	ContributionTypes     []valueobject.ContributionType
	CreationDate          time.Time
	AsOf                  time.Time

	// Members is optional; when present it feeds the risk summary.
	Members []MemberProfile
}

// Validate checks the snapshot's structural invariants.
func (g GroupProfile) Validate() error {
	if g.GroupID <= 0 {
		return NewValidationError("group_id", "must be positive")
	}
	if _, err := valueobject.ParseFrequency(string(g.Frequency)); err != nil {
		return NewValidationError("frequency", "%v", err)
	}
	if g.CycleDurationMonths < 1 {
		return NewValidationError("cycle_duration_months", "must be at least 1")
	}
	if g.ActiveMembers < 0 || g.InactiveMembers < 0 {
		return NewValidationError("active_members", "member counts must not be negative")
	}
	if g.ActiveMembers == 0 && g.InactiveMembers == 0 {
		return NewValidationError("active_members", "group must have at least one member")
	}
	amounts := []struct {
		field string
		v     decimal.Decimal
	}{
		{"contribution_amount", g.ContributionAmount},
		{"total_balance", g.TotalBalance},
		{"total_contributions", g.TotalContributions},
		{"total_active_loans", g.TotalActiveLoans},
	}
	for _, a := range amounts {
		if a.v.IsNegative() {
			return NewValidationError(a.field, "must not be negative")
		}
	}
	if g.ExpectedContributions < 0 || g.ReceivedContributions < 0 {
		return NewValidationError("expected_contributions", "contribution counts must not be negative")
	}
	if g.TotalLoans < 0 || g.LateLoans < 0 {
		return NewValidationError("total_loans", "loan counts must not be negative")
	}
	if g.LateLoans > g.TotalLoans {
		return NewValidationError("late_loans", "must not exceed total_loans")
	}
	for _, t := range g.ContributionTypes {
		if _, err := valueobject.ParseContributionType(string(t)); err != nil {
			return NewValidationError("contribution_types", "%v", err)
		}
	}
	if g.CreationDate.IsZero() {
		return NewValidationError("creation_date", "is required")
	}
	if g.AsOf.IsZero() {
		return NewValidationError("as_of", "is required")
	}
	if g.CreationDate.After(g.AsOf) {
		return NewValidationError("creation_date", "must not be after as_of")
	}
	for _, m := range g.Members {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TotalMembers is active plus inactive members.
func (g GroupProfile) TotalMembers() int64 {
	return g.ActiveMembers + g.InactiveMembers
}

// MonthlyContribution is the per-member contribution normalized to one month.
func (g GroupProfile) MonthlyContribution() decimal.Decimal {
	return g.ContributionAmount.Mul(decimal.NewFromInt(g.Frequency.PeriodsPerMonth()))
}

// DistinctContributionTypes counts the unique contribution types recorded.
func (g GroupProfile) DistinctContributionTypes() int {
	seen := make(map[valueobject.ContributionType]struct{}, len(g.ContributionTypes))
	for _, t := range g.ContributionTypes {
		seen[t] = struct{}{}
	}
	return len(seen)
}
