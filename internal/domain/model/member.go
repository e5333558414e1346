package model

import "github.com/shopspring/decimal"

// MemberProfile is the contribution and loan history of one group member,
// aggregated by the calling backend.
type MemberProfile struct {
	UserID              int64
	SeniorityMonths     int64
	ContributionTotal   decimal.Decimal
	ContributionCount   int64
	OnTimeCount         int64
	LateCount           int64
	LoanCount           int64
	LoansRepaid         int64
	LoansDefaulted      int64
	AmountBorrowedTotal decimal.Decimal
	AmountRepaidTotal   decimal.Decimal
}

// Validate checks the profile's counting and sign invariants.
func (m MemberProfile) Validate() error {
	if m.UserID <= 0 {
		return NewValidationError("user_id", "must be positive")
	}
	counts := []struct {
		field string
		v     int64
	}{
		{"seniority_months", m.SeniorityMonths},
		{"contribution_count", m.ContributionCount},
		{"on_time_count", m.OnTimeCount},
		{"late_count", m.LateCount},
		{"loan_count", m.LoanCount},
		{"loans_repaid", m.LoansRepaid},
		{"loans_defaulted", m.LoansDefaulted},
	}
	for _, c := range counts {
		if c.v < 0 {
			return NewValidationError(c.field, "must not be negative")
		}
	}
	if m.ContributionTotal.IsNegative() {
		return NewValidationError("contribution_total", "must not be negative")
	}
	if m.AmountBorrowedTotal.IsNegative() {
		return NewValidationError("amount_borrowed_total", "must not be negative")
	}
	if m.AmountRepaidTotal.IsNegative() {
		return NewValidationError("amount_repaid_total", "must not be negative")
	}
	// Compared by subtraction so large counts cannot wrap around.
	if m.OnTimeCount > m.ContributionCount || m.LateCount > m.ContributionCount-m.OnTimeCount {
		return NewValidationError("on_time_count", "on-time plus late contributions exceed contribution count")
	}
	if m.LoansRepaid > m.LoanCount || m.LoansDefaulted > m.LoanCount-m.LoansRepaid {
		return NewValidationError("loans_repaid", "repaid plus defaulted loans exceed loan count")
	}
	return nil
}

// Outstanding is the amount borrowed and not yet repaid, floored at zero.
func (m MemberProfile) Outstanding() decimal.Decimal {
	out := m.AmountBorrowedTotal.Sub(m.AmountRepaidTotal)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// HasUnresolvedDefault reports a past default while money is still owed.
func (m MemberProfile) HasUnresolvedDefault() bool {
	return m.LoansDefaulted > 0 && m.Outstanding().IsPositive()
}
