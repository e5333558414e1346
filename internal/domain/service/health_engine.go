package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// Indicator names shared by health, benchmark, trend and comparison output.
const (
	IndicatorParticipation   = "participation_rate"
	IndicatorLoanPerformance = "loan_performance"
	IndicatorDiversification = "diversification"
	IndicatorLoanToSavings   = "loan_to_savings_ratio"
	IndicatorRetention       = "retention"
)

type indicatorDef struct {
	value          func(model.HealthIndicators) float64
	name           string
	strength       string
	weakness       string
	advice         string
	higherIsBetter bool
}

var indicatorCatalog = []indicatorDef{
	{
		name:           IndicatorParticipation,
		value:          func(i model.HealthIndicators) float64 { return i.ParticipationRate },
		higherIsBetter: true,
		strength:       "members contribute regularly",
		weakness:       "many scheduled contributions are missed",
		advice:         "follow up with members who miss contributions and review the meeting schedule",
	},
	{
		name:           IndicatorLoanPerformance,
		value:          func(i model.HealthIndicators) float64 { return i.LoanPerformance },
		higherIsBetter: true,
		strength:       "loans are repaid on time",
		weakness:       "a large share of loans is repaid late",
		advice:         "tighten loan approval and agree on repayment plans for late borrowers",
	},
	{
		name:           IndicatorDiversification,
		value:          func(i model.HealthIndicators) float64 { return i.Diversification },
		higherIsBetter: true,
		strength:       "the fund draws on several income sources",
		weakness:       "the fund relies on too few contribution types",
		advice:         "introduce penalties and interest on loans to diversify fund income",
	},
	{
		name:           IndicatorLoanToSavings,
		value:          func(i model.HealthIndicators) float64 { return i.LoanToSavingsRatio },
		higherIsBetter: false,
		strength:       "the fund keeps a comfortable cash reserve",
		weakness:       "outstanding loans are high relative to the fund balance",
		advice:         "slow down new lending until repayments rebuild the cash reserve",
	},
	{
		name:           IndicatorRetention,
		value:          func(i model.HealthIndicators) float64 { return i.Retention },
		higherIsBetter: true,
		strength:       "members stay active",
		weakness:       "too many members have become inactive",
		advice:         "reach out to inactive members and understand why they stopped",
	},
}

func indicatorsNamed(names ...string) []indicatorDef {
	defs := make([]indicatorDef, 0, len(names))
	for _, name := range names {
		for _, def := range indicatorCatalog {
			if def.name == name {
				defs = append(defs, def)
			}
		}
	}
	return defs
}

// HealthEngine is a domain service that scores the financial health of a
// savings group from a snapshot of its fund.
type HealthEngine struct {
	policy HealthPolicy
}

// NewHealthEngine creates a HealthEngine.
func NewHealthEngine(policy HealthPolicy) *HealthEngine {
	return &HealthEngine{policy: policy}
}

// Indicators computes the shared indicator set of a group.
func (e *HealthEngine) Indicators(g model.GroupProfile) (model.HealthIndicators, error) {
	if err := g.Validate(); err != nil {
		return model.HealthIndicators{}, err
	}
	return e.indicators(g)
}

func (e *HealthEngine) indicators(g model.GroupProfile) (model.HealthIndicators, error) {
	ind := model.HealthIndicators{
		ParticipationRate:  1,
		LoanPerformance:    1,
		Diversification:    float64(g.DistinctContributionTypes()) / float64(len(valueobject.AllContributionTypes)),
		LoanToSavingsRatio: 0,
		Retention:          float64(g.ActiveMembers) / float64(g.TotalMembers()),
	}
	if g.ExpectedContributions > 0 {
		ind.ParticipationRate = clampUnit(float64(g.ReceivedContributions) / float64(g.ExpectedContributions))
	}
	if g.TotalLoans > 0 {
		ind.LoanPerformance = 1 - float64(g.LateLoans)/float64(g.TotalLoans)
	}
	if g.TotalActiveLoans.IsPositive() {
		ind.LoanToSavingsRatio = e.policy.RatioCap
		if g.TotalBalance.IsPositive() {
			ratio := g.TotalActiveLoans.Div(g.TotalBalance).InexactFloat64()
			ind.LoanToSavingsRatio = math.Min(ratio, e.policy.RatioCap)
		}
	}

	for _, def := range indicatorCatalog {
		if v := def.value(ind); math.IsNaN(v) || math.IsInf(v, 0) {
			return model.HealthIndicators{}, model.NewComputationError("health indicators", "%s is not finite for group %d", def.name, g.GroupID)
		}
	}
	return ind, nil
}

// Assess computes the composite health of a group. When baseline is nil the
// trend is Stable.
func (e *HealthEngine) Assess(g model.GroupProfile, baseline *model.HealthBaseline) (model.HealthAssessment, error) {
	if err := g.Validate(); err != nil {
		return model.HealthAssessment{}, err
	}
	if baseline != nil && (baseline.Score < 0 || baseline.Score > 100) {
		return model.HealthAssessment{}, model.NewValidationError("baseline.score", "must be between 0 and 100")
	}

	ind, err := e.indicators(g)
	if err != nil {
		return model.HealthAssessment{}, err
	}

	p := e.policy
	composite := p.ParticipationWeight*ind.ParticipationRate*100 +
		p.LoanPerformanceWeight*ind.LoanPerformance*100 +
		p.RetentionWeight*ind.Retention*100 +
		p.LiquidityWeight*e.liquidity(ind.LoanToSavingsRatio)
	if math.IsNaN(composite) || math.IsInf(composite, 0) {
		return model.HealthAssessment{}, model.NewComputationError("health score", "composite is not finite for group %d", g.GroupID)
	}
	score := round2(math.Max(0, math.Min(100, composite)))

	assessment := model.HealthAssessment{
		GroupID:    g.GroupID,
		Score:      score,
		Level:      valueobject.HealthLevelFromScore(score),
		Indicators: ind,
		Trend:      valueobject.TrendStable,
	}

	for _, def := range indicatorCatalog {
		switch e.classify(def, def.value(ind)) {
		case 1:
			assessment.Strengths = append(assessment.Strengths, def.strength)
		case -1:
			assessment.Weaknesses = append(assessment.Weaknesses, def.weakness)
			assessment.Recommendations = append(assessment.Recommendations, def.advice)
		}
	}
	if len(assessment.Recommendations) == 0 {
		assessment.Recommendations = append(assessment.Recommendations, "keep the current practices and review the indicators every month")
	}

	if baseline != nil {
		change := round2(score - baseline.Score)
		assessment.ScoreChange = &change
		assessment.Trend = e.direction(change, p.TrendThreshold, true)
	}
	return assessment, nil
}

// AnalyzeParticipation reports contribution attendance and retention.
func (e *HealthEngine) AnalyzeParticipation(g model.GroupProfile) (model.ParticipationAnalysis, error) {
	ind, err := e.Indicators(g)
	if err != nil {
		return model.ParticipationAnalysis{}, err
	}

	analysis := model.ParticipationAnalysis{
		GroupID:               g.GroupID,
		ExpectedContributions: g.ExpectedContributions,
		ReceivedContributions: g.ReceivedContributions,
		MissedContributions:   max(g.ExpectedContributions-g.ReceivedContributions, 0),
		ParticipationRate:     round4(ind.ParticipationRate),
		ActiveMembers:         g.ActiveMembers,
		InactiveMembers:       g.InactiveMembers,
		RetentionRate:         round4(ind.Retention),
		Level:                 valueobject.HealthLevelFromScore(ind.ParticipationRate * 100),
	}
	for _, def := range indicatorsNamed(IndicatorParticipation, IndicatorRetention) {
		if e.classify(def, def.value(ind)) < 0 {
			analysis.Recommendations = append(analysis.Recommendations, def.advice)
		}
	}
	return analysis, nil
}

// AnalyzeLoanPerformance reports repayment quality and fund exposure.
func (e *HealthEngine) AnalyzeLoanPerformance(g model.GroupProfile) (model.LoanPerformanceAnalysis, error) {
	ind, err := e.Indicators(g)
	if err != nil {
		return model.LoanPerformanceAnalysis{}, err
	}

	analysis := model.LoanPerformanceAnalysis{
		GroupID:            g.GroupID,
		TotalLoans:         g.TotalLoans,
		LateLoans:          g.LateLoans,
		OnTimeLoans:        g.TotalLoans - g.LateLoans,
		LoanPerformance:    round4(ind.LoanPerformance),
		LoanToSavingsRatio: round4(ind.LoanToSavingsRatio),
		LiquidityScore:     round2(e.liquidity(ind.LoanToSavingsRatio)),
		OutstandingLoans:   g.TotalActiveLoans,
		AvailableBalance:   g.TotalBalance,
	}
	if g.TotalLoans > 0 {
		analysis.LateRate = round4(float64(g.LateLoans) / float64(g.TotalLoans))
	}
	for _, def := range indicatorsNamed(IndicatorLoanPerformance, IndicatorLoanToSavings) {
		if e.classify(def, def.value(ind)) < 0 {
			analysis.Recommendations = append(analysis.Recommendations, def.advice)
		}
	}
	return analysis, nil
}

// AnalyzeGrowth reports how far a group has progressed since it was created.
func (e *HealthEngine) AnalyzeGrowth(g model.GroupProfile) (model.GrowthAnalysis, error) {
	if err := g.Validate(); err != nil {
		return model.GrowthAnalysis{}, err
	}

	age := monthsBetween(g.CreationDate, g.AsOf)
	analysis := model.GrowthAnalysis{
		GroupID:                     g.GroupID,
		AgeMonths:                   age,
		CyclesCompleted:             age / g.CycleDurationMonths,
		AverageMonthlyContribution:  g.TotalContributions.Div(decimal.NewFromInt(max(age, 1))).Round(2),
		ContributionPerActiveMember: decimal.Zero,
	}
	if g.ActiveMembers > 0 {
		analysis.ContributionPerActiveMember = g.TotalContributions.Div(decimal.NewFromInt(g.ActiveMembers)).Round(2)
	}
	if g.TotalContributions.IsPositive() {
		analysis.BalanceToContributions = round4(g.TotalBalance.Div(g.TotalContributions).InexactFloat64())
	}

	switch {
	case age < 6:
		analysis.Stage = valueobject.StageNew
		analysis.Recommendations = append(analysis.Recommendations, "focus on regular contributions while the group builds its fund")
	case age >= g.CycleDurationMonths:
		analysis.Stage = valueobject.StageMature
		analysis.Recommendations = append(analysis.Recommendations, "plan the end-of-cycle share-out and consider raising the contribution amount")
	default:
		analysis.Stage = valueobject.StageGrowing
		analysis.Recommendations = append(analysis.Recommendations, "grow lending gradually as the fund balance increases")
	}
	if g.TotalContributions.IsPositive() && analysis.BalanceToContributions < 1 {
		analysis.Recommendations = append(analysis.Recommendations, "the fund balance is below total contributions: check for unrecovered loans")
	}
	return analysis, nil
}

// Benchmark compares every indicator of a group to its sector reference.
func (e *HealthEngine) Benchmark(g model.GroupProfile) (model.BenchmarkReport, error) {
	ind, err := e.Indicators(g)
	if err != nil {
		return model.BenchmarkReport{}, err
	}

	report := model.BenchmarkReport{GroupID: g.GroupID}
	for _, def := range indicatorCatalog {
		value := def.value(ind)
		ref := e.policy.References[def.name]
		delta := value - ref

		entry := model.BenchmarkEntry{
			Indicator: def.name,
			Value:     round4(value),
			Reference: ref,
			Delta:     round4(delta),
		}
		switch {
		case math.Abs(delta) <= e.policy.BenchmarkTolerance:
			entry.Position = valueobject.PositionAt
			entry.Favorable = true
		case delta > 0:
			entry.Position = valueobject.PositionAbove
			entry.Favorable = def.higherIsBetter
		default:
			entry.Position = valueobject.PositionBelow
			entry.Favorable = !def.higherIsBetter
		}
		if entry.Favorable {
			report.FavorableCount++
		} else {
			report.UnfavorableCount++
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

// liquidity maps the loan to savings ratio onto 0-100.
func (e *HealthEngine) liquidity(ratio float64) float64 {
	comfort, limit := e.policy.LiquidityComfort, e.policy.LiquidityLimit
	switch {
	case ratio <= comfort:
		return 100
	case ratio >= limit:
		return 0
	default:
		return 100 * (limit - ratio) / (limit - comfort)
	}
}

// classify returns 1 for a strength, -1 for a weakness and 0 otherwise.
func (e *HealthEngine) classify(def indicatorDef, value float64) int {
	t, ok := e.policy.Thresholds[def.name]
	if !ok {
		return 0
	}
	if def.higherIsBetter {
		switch {
		case value >= t.Strong:
			return 1
		case value < t.Weak:
			return -1
		}
		return 0
	}
	switch {
	case value <= t.Strong:
		return 1
	case value > t.Weak:
		return -1
	}
	return 0
}

// direction turns a change into a trend, honouring indicator polarity.
func (e *HealthEngine) direction(change, threshold float64, higherIsBetter bool) valueobject.Trend {
	if !higherIsBetter {
		change = -change
	}
	switch {
	case change >= threshold:
		return valueobject.TrendImproving
	case change <= -threshold:
		return valueobject.TrendDeclining
	default:
		return valueobject.TrendStable
	}
}

// monthsBetween counts whole calendar months from one date to another.
func monthsBetween(from, to time.Time) int64 {
	months := int64(to.Year()-from.Year())*12 + int64(to.Month()-from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return max(months, 0)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
