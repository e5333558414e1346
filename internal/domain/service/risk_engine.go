package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// RiskRequest pairs a member with an optional requested loan amount.
type RiskRequest struct {
	RequestedAmount *decimal.Decimal
	Member          model.MemberProfile
}

// RiskEngine is a domain service that scores a member's likelihood of
// defaulting on an internal group loan.
type RiskEngine struct {
	policy RiskPolicy
	limits Limits
}

// NewRiskEngine creates a RiskEngine.
func NewRiskEngine(policy RiskPolicy, limits Limits) *RiskEngine {
	return &RiskEngine{policy: policy, limits: limits}
}

// Assess scores a member. When requested is non-nil the savings coverage
// factor is measured against that amount instead of the outstanding balance.
func (e *RiskEngine) Assess(member model.MemberProfile, requested *decimal.Decimal) (model.RiskAssessment, error) {
	if err := member.Validate(); err != nil {
		return model.RiskAssessment{}, err
	}
	if requested != nil && !requested.IsPositive() {
		return model.RiskAssessment{}, model.NewValidationError("requested_amount", "must be positive")
	}

	p := e.policy
	components := []struct {
		name   string
		weight decimal.Decimal
		score  decimal.Decimal
	}{
		{"punctuality", p.PunctualityWeight, e.scorePunctuality(member)},
		{"loan_history", p.LoanHistoryWeight, e.scoreLoanHistory(member)},
		{"seniority", p.SeniorityWeight, e.scoreSeniority(member)},
		{"savings_to_loan", p.SavingsToLoanWeight, e.scoreSavingsToLoan(member, requested)},
	}

	total := decimal.Zero
	factors := make([]model.ScoringFactor, 0, len(components))
	for _, c := range components {
		total = total.Add(c.weight.Mul(c.score))
		factors = append(factors, factor(c.name, c.weight, c.score))
	}
	score := clampPercent(total).Round(2)

	assessment := model.RiskAssessment{
		UserID:             member.UserID,
		Score:              score.InexactFloat64(),
		Level:              valueobject.RiskLevelFromScore(score.InexactFloat64()),
		DefaultProbability: hundred.Sub(score).Div(hundred).InexactFloat64(),
		Factors:            factors,
		Eligible:           score.GreaterThanOrEqual(p.EligibilityFloor) && !member.HasUnresolvedDefault(),
	}

	if assessment.Eligible {
		limit := e.recommendedLimit(member, score)
		assessment.RecommendedAmount = &limit
	}

	flagBelow := p.FlagBelow.InexactFloat64()
	for _, f := range factors {
		if f.Score < flagBelow {
			assessment.RiskFactors = append(assessment.RiskFactors, riskFlag(f.Name, member))
			assessment.Recommendations = append(assessment.Recommendations, riskAdvice(f.Name))
		}
	}
	if requested != nil && (assessment.RecommendedAmount == nil || requested.GreaterThan(*assessment.RecommendedAmount)) {
		assessment.RiskFactors = append(assessment.RiskFactors, "requested amount exceeds recommended limit")
		assessment.Recommendations = append(assessment.Recommendations, "reduce the requested amount or split it into smaller loans")
	}
	switch {
	case member.HasUnresolvedDefault():
		assessment.Recommendations = append(assessment.Recommendations, "settle the outstanding defaulted loan before any new borrowing")
	case !assessment.Eligible:
		assessment.Recommendations = append(assessment.Recommendations, "not eligible for a new loan until the risk score reaches the eligibility floor")
	case len(assessment.RiskFactors) == 0:
		assessment.Recommendations = append(assessment.Recommendations, "member in good standing: standard loan terms apply")
	}

	return assessment, nil
}

// CreditLimit returns the recommended borrowing limit of a member.
func (e *RiskEngine) CreditLimit(member model.MemberProfile) (model.CreditLimit, error) {
	assessment, err := e.Assess(member, nil)
	if err != nil {
		return model.CreditLimit{}, err
	}

	limit := model.CreditLimit{
		UserID:   member.UserID,
		Score:    assessment.Score,
		Level:    assessment.Level,
		Multiple: e.policy.LimitMultiple,
		Ceiling:  e.policy.LimitCeiling,
		Limit:    decimal.Zero,
		Eligible: assessment.Eligible,
	}
	switch {
	case assessment.Eligible:
		limit.Limit = *assessment.RecommendedAmount
		limit.Reason = fmt.Sprintf("%s%% of %s times total contributions", decimal.NewFromFloat(assessment.Score).String(), e.policy.LimitMultiple.String())
		if limit.Limit.Equal(e.policy.LimitCeiling) {
			limit.Reason = "capped at the group lending ceiling"
		}
	case member.HasUnresolvedDefault():
		limit.Reason = "unresolved loan default"
	default:
		limit.Reason = fmt.Sprintf("risk score below eligibility floor of %s", e.policy.EligibilityFloor.String())
	}
	return limit, nil
}

// AssessBatch scores many members concurrently. A member that fails
// validation is reported in Failures and does not affect the others.
// Assessments are sorted riskiest first.
func (e *RiskEngine) AssessBatch(requests []RiskRequest) (model.RiskBatch, error) {
	if len(requests) == 0 {
		return model.RiskBatch{}, model.NewValidationError("members", "at least one member is required")
	}
	if len(requests) > e.limits.MaxMembers {
		return model.RiskBatch{}, model.NewValidationError("members", "at most %d members per call", e.limits.MaxMembers)
	}

	assessments := make([]model.RiskAssessment, len(requests))
	errs := make([]error, len(requests))

	var g errgroup.Group
	g.SetLimit(max(e.limits.BatchParallelism, 1))
	for i, req := range requests {
		g.Go(func() error {
			assessments[i], errs[i] = e.Assess(req.Member, req.RequestedAmount)
			return nil
		})
	}
	_ = g.Wait()

	batch := model.RiskBatch{Assessments: make([]model.RiskAssessment, 0, len(requests))}
	for i, err := range errs {
		if err != nil {
			batch.Failures = append(batch.Failures, model.BatchFailure{
				Index:  i,
				UserID: requests[i].Member.UserID,
				Err:    err,
			})
			continue
		}
		batch.Assessments = append(batch.Assessments, assessments[i])
	}

	sort.SliceStable(batch.Assessments, func(i, j int) bool {
		a, b := batch.Assessments[i], batch.Assessments[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.UserID < b.UserID
	})
	batch.Stats = e.stats(batch.Assessments)
	return batch, nil
}

func (e *RiskEngine) stats(assessments []model.RiskAssessment) model.RiskStats {
	stats := model.RiskStats{Count: len(assessments)}
	if len(assessments) == 0 {
		return stats
	}

	atRiskBelow := e.policy.AtRiskBelow.InexactFloat64()
	sum := decimal.Zero
	stats.Min = assessments[0].Score
	stats.Max = assessments[0].Score
	for _, a := range assessments {
		sum = sum.Add(decimal.NewFromFloat(a.Score))
		stats.Min = min(stats.Min, a.Score)
		stats.Max = max(stats.Max, a.Score)
		if a.Score < atRiskBelow {
			stats.AtRisk++
		}
	}
	stats.Mean = sum.Div(decimal.NewFromInt(int64(len(assessments)))).Round(2).InexactFloat64()
	return stats
}

// recommendedLimit is score% of LimitMultiple times total contributions,
// capped at LimitCeiling.
func (e *RiskEngine) recommendedLimit(member model.MemberProfile, score decimal.Decimal) decimal.Decimal {
	limit := score.Div(hundred).Mul(e.policy.LimitMultiple).Mul(member.ContributionTotal).Round(2)
	if limit.GreaterThan(e.policy.LimitCeiling) {
		return e.policy.LimitCeiling
	}
	return limit
}

// scorePunctuality is the share of contributions paid on time (0-100).
func (e *RiskEngine) scorePunctuality(m model.MemberProfile) decimal.Decimal {
	if m.ContributionCount == 0 {
		return e.policy.NeutralPunctuality
	}
	return decimal.NewFromInt(m.OnTimeCount).Mul(hundred).Div(decimal.NewFromInt(m.ContributionCount))
}

// scoreLoanHistory penalises defaults and rewards repaid loans (0-100).
func (e *RiskEngine) scoreLoanHistory(m model.MemberProfile) decimal.Decimal {
	if m.LoanCount == 0 {
		return e.policy.NeutralLoanHistory
	}
	score := hundred.
		Sub(e.policy.DefaultPenalty.Mul(decimal.NewFromInt(m.LoansDefaulted))).
		Add(e.policy.RepaidBonus.Mul(decimal.NewFromInt(m.LoansRepaid)))
	return clampPercent(score)
}

// scoreSeniority grows linearly until SeniorityCapMonths (0-100).
func (e *RiskEngine) scoreSeniority(m model.MemberProfile) decimal.Decimal {
	months := min(m.SeniorityMonths, e.policy.SeniorityCapMonths)
	return decimal.NewFromInt(months).Mul(hundred).Div(decimal.NewFromInt(e.policy.SeniorityCapMonths))
}

// scoreSavingsToLoan measures how well savings and repayments cover the
// exposure (0-100).
func (e *RiskEngine) scoreSavingsToLoan(m model.MemberProfile, requested *decimal.Decimal) decimal.Decimal {
	exposure := m.Outstanding()
	if requested != nil {
		exposure = *requested
	}
	if !exposure.IsPositive() {
		return hundred
	}
	coverage := m.ContributionTotal.Add(m.AmountRepaidTotal).Mul(hundred).Div(exposure)
	return decimal.Min(coverage, hundred)
}

func factor(name string, weight, score decimal.Decimal) model.ScoringFactor {
	s := score.Round(2).InexactFloat64()
	return model.ScoringFactor{
		Name:   name,
		Weight: weight,
		Score:  s,
		Impact: impactLabel(s),
	}
}

func riskFlag(factorName string, m model.MemberProfile) string {
	switch factorName {
	case "punctuality":
		return fmt.Sprintf("irregular contributions: %d of %d paid on time", m.OnTimeCount, m.ContributionCount)
	case "loan_history":
		return fmt.Sprintf("poor loan history: %d defaulted of %d loans", m.LoansDefaulted, m.LoanCount)
	case "seniority":
		return fmt.Sprintf("short membership: %d months", m.SeniorityMonths)
	case "savings_to_loan":
		return "savings do not cover the loan exposure"
	default:
		return factorName
	}
}

func riskAdvice(factorName string) string {
	switch factorName {
	case "punctuality":
		return "encourage contributions on the scheduled date"
	case "loan_history":
		return "require a guarantor for new loans"
	case "seniority":
		return "start with a small loan to build a repayment record"
	case "savings_to_loan":
		return "increase savings before borrowing this amount"
	default:
		return "review " + factorName
	}
}

// impactLabel returns a human-readable impact label for a factor score.
func impactLabel(score float64) string {
	switch {
	case score >= 80:
		return "POSITIVE"
	case score >= 50:
		return "NEUTRAL"
	default:
		return "NEGATIVE"
	}
}

func clampPercent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}
