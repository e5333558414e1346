package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

var severityOrder = map[valueobject.Severity]int{
	valueobject.SeverityCritical: 0,
	valueobject.SeverityWarning:  1,
	valueobject.SeverityInfo:     2,
}

// Aggregator composes the health, risk and projection engines across one or
// many groups.
type Aggregator struct {
	health     *HealthEngine
	risk       *RiskEngine
	projection *ProjectionEngine
	alerts     AlertPolicy
	limits     Limits
}

// NewAggregator creates an Aggregator over the given engines.
func NewAggregator(health *HealthEngine, risk *RiskEngine, projection *ProjectionEngine, alerts AlertPolicy, limits Limits) *Aggregator {
	return &Aggregator{
		health:     health,
		risk:       risk,
		projection: projection,
		alerts:     alerts,
		limits:     limits,
	}
}

// Alerts evaluates the alert rules against one group.
func (a *Aggregator) Alerts(g model.GroupProfile) ([]model.Alert, error) {
	ind, err := a.health.Indicators(g)
	if err != nil {
		return nil, err
	}
	return a.evaluateAlerts(g, ind), nil
}

func (a *Aggregator) evaluateAlerts(g model.GroupProfile, ind model.HealthIndicators) []model.Alert {
	p := a.alerts
	alerts := make([]model.Alert, 0, 4)

	inactive := float64(g.InactiveMembers) / float64(g.TotalMembers())
	if inactive > p.InactiveWarning {
		sev := valueobject.SeverityWarning
		if inactive > p.InactiveCritical {
			sev = valueobject.SeverityCritical
		}
		alerts = append(alerts, model.Alert{
			GroupID:  g.GroupID,
			Code:     valueobject.AlertInactiveMembersHigh,
			Severity: sev,
			Value:    round4(inactive),
			Message:  fmt.Sprintf("%d of %d members are inactive", g.InactiveMembers, g.TotalMembers()),
		})
	}

	if g.LateLoans > 0 {
		late := float64(g.LateLoans) / float64(g.TotalLoans)
		sev := valueobject.SeverityCritical
		switch {
		case late <= p.OverdueInfoMax:
			sev = valueobject.SeverityInfo
		case late <= p.OverdueWarningMax:
			sev = valueobject.SeverityWarning
		}
		alerts = append(alerts, model.Alert{
			GroupID:  g.GroupID,
			Code:     valueobject.AlertLoansOverdue,
			Severity: sev,
			Value:    round4(late),
			Message:  fmt.Sprintf("%d of %d loans are overdue", g.LateLoans, g.TotalLoans),
		})
	}

	if ind.ParticipationRate < p.ParticipationWarning {
		sev := valueobject.SeverityWarning
		if ind.ParticipationRate < p.ParticipationCritical {
			sev = valueobject.SeverityCritical
		}
		alerts = append(alerts, model.Alert{
			GroupID:  g.GroupID,
			Code:     valueobject.AlertLowParticipation,
			Severity: sev,
			Value:    round4(ind.ParticipationRate),
			Message:  fmt.Sprintf("only %.0f%% of expected contributions were received", ind.ParticipationRate*100),
		})
	}

	if ind.LoanToSavingsRatio > p.LiquidityWarning {
		sev := valueobject.SeverityWarning
		if ind.LoanToSavingsRatio > p.LiquidityCritical {
			sev = valueobject.SeverityCritical
		}
		alerts = append(alerts, model.Alert{
			GroupID:  g.GroupID,
			Code:     valueobject.AlertLiquidityRisk,
			Severity: sev,
			Value:    round4(ind.LoanToSavingsRatio),
			Message:  fmt.Sprintf("outstanding loans are %.0f%% of the fund balance", ind.LoanToSavingsRatio*100),
		})
	}
	return alerts
}

// Dashboard folds the health, risk, alerts and projected balance of every
// group into a portfolio view. Invalid groups are reported in Failures.
func (a *Aggregator) Dashboard(groups []model.GroupProfile, horizon int) (model.Dashboard, error) {
	if len(groups) == 0 {
		return model.Dashboard{}, model.NewValidationError("groups", "at least one group is required")
	}
	if len(groups) > a.limits.MaxGroups {
		return model.Dashboard{}, model.NewValidationError("groups", "at most %d groups per call", a.limits.MaxGroups)
	}
	if horizon < 1 || horizon > a.limits.MaxHorizonMonths {
		return model.Dashboard{}, model.NewValidationError("horizon_months", "must be between 1 and %d", a.limits.MaxHorizonMonths)
	}

	dash := model.Dashboard{
		HorizonMonths: horizon,
		Summary: model.PortfolioSummary{
			TotalBalance:       decimal.Zero,
			TotalContributions: decimal.Zero,
			TotalActiveLoans:   decimal.Zero,
			ProjectedBalance:   decimal.Zero,
			LevelDistribution:  make(map[string]int),
			AlertsBySeverity:   make(map[valueobject.Severity]int),
		},
	}

	healthSum := 0.0
	seenRecs := make(map[string]struct{})
	var groupRecs []string
	for i, g := range groups {
		section, err := a.groupSection(g, horizon)
		if err != nil {
			dash.Failures = append(dash.Failures, model.GroupFailure{Index: i, GroupID: g.GroupID, Err: err})
			continue
		}
		dash.Groups = append(dash.Groups, section)

		s := &dash.Summary
		s.GroupCount++
		s.TotalMembers += g.TotalMembers()
		s.ActiveMembers += g.ActiveMembers
		s.TotalBalance = s.TotalBalance.Add(g.TotalBalance)
		s.TotalContributions = s.TotalContributions.Add(g.TotalContributions)
		s.TotalActiveLoans = s.TotalActiveLoans.Add(g.TotalActiveLoans)
		s.ProjectedBalance = s.ProjectedBalance.Add(section.ProjectedBalance)
		s.LevelDistribution[section.Health.Level.String()]++
		healthSum += section.Health.Score
		for _, alert := range section.Alerts {
			s.AlertsBySeverity[alert.Severity]++
			dash.Alerts = append(dash.Alerts, alert)
		}
		for _, rec := range section.Health.Weaknesses {
			if _, ok := seenRecs[rec]; !ok {
				seenRecs[rec] = struct{}{}
				groupRecs = append(groupRecs, rec)
			}
		}
	}

	if dash.Summary.GroupCount > 0 {
		dash.Summary.AverageHealth = round2(healthSum / float64(dash.Summary.GroupCount))
	}
	sort.SliceStable(dash.Alerts, func(i, j int) bool {
		x, y := dash.Alerts[i], dash.Alerts[j]
		if severityOrder[x.Severity] != severityOrder[y.Severity] {
			return severityOrder[x.Severity] < severityOrder[y.Severity]
		}
		return x.GroupID < y.GroupID
	})
	dash.Recommendations = portfolioRecommendations(dash, groupRecs)
	return dash, nil
}

func (a *Aggregator) groupSection(g model.GroupProfile, horizon int) (model.GroupDashboard, error) {
	health, err := a.health.Assess(g, nil)
	if err != nil {
		return model.GroupDashboard{}, err
	}
	projection, err := a.projection.Project(g, horizon, a.projection.DefaultAssumptions(g.AsOf))
	if err != nil {
		return model.GroupDashboard{}, err
	}

	section := model.GroupDashboard{
		GroupID:          g.GroupID,
		Name:             g.Name,
		Health:           health,
		Alerts:           a.evaluateAlerts(g, health.Indicators),
		ProjectedBalance: projection.FinalBalance,
	}
	if len(g.Members) > 0 {
		requests := make([]RiskRequest, 0, len(g.Members))
		for _, m := range g.Members {
			requests = append(requests, RiskRequest{Member: m})
		}
		batch, err := a.risk.AssessBatch(requests)
		if err != nil {
			return model.GroupDashboard{}, err
		}
		section.Risk = &model.GroupRiskSummary{
			Assessed:  batch.Stats.Count,
			MeanScore: batch.Stats.Mean,
			AtRisk:    batch.Stats.AtRisk,
		}
	}
	return section, nil
}

func portfolioRecommendations(dash model.Dashboard, weaknesses []string) []string {
	var recs []string
	if n := dash.Summary.AlertsBySeverity[valueobject.SeverityCritical]; n > 0 {
		recs = append(recs, fmt.Sprintf("address %d critical alerts first", n))
	}
	if dash.Summary.GroupCount > 0 && dash.Summary.AverageHealth < 60 {
		recs = append(recs, "average group health is below Good: schedule field visits for the weakest groups")
	}
	for _, w := range weaknesses {
		recs = append(recs, "common weakness: "+w)
	}
	if len(recs) == 0 {
		recs = append(recs, "portfolio is healthy: keep monitoring monthly")
	}
	return recs
}

// Trends compares the current indicators of a group with a baseline. Without
// a baseline the report holds the current values only and is flagged
// InsufficientHistory.
func (a *Aggregator) Trends(g model.GroupProfile, baseline *model.HealthBaseline) (model.TrendReport, error) {
	health, err := a.health.Assess(g, baseline)
	if err != nil {
		return model.TrendReport{}, err
	}

	report := model.TrendReport{
		GroupID:             g.GroupID,
		Score:               health.Score,
		Overall:             health.Trend,
		InsufficientHistory: baseline == nil,
	}
	if baseline != nil {
		score := baseline.Score
		report.BaselineScore = &score
	}

	tolerance := a.health.policy.IndicatorTolerance
	for _, def := range indicatorCatalog {
		current := def.value(health.Indicators)
		trend := model.IndicatorTrend{
			Indicator: def.name,
			Current:   round4(current),
			Direction: valueobject.TrendStable,
		}
		if baseline != nil && baseline.Indicators != nil {
			prev := def.value(*baseline.Indicators)
			if math.IsNaN(prev) || math.IsInf(prev, 0) {
				return model.TrendReport{}, model.NewValidationError("baseline.indicators", "%s must be finite", def.name)
			}
			trend.Baseline = round4(prev)
			trend.Change = round4(current - prev)
			trend.Direction = a.health.direction(current-prev, tolerance, def.higherIsBetter)
		}
		report.Indicators = append(report.Indicators, trend)
	}
	return report, nil
}

// Compare ranks two or more groups on every shared indicator and overall by
// health score.
func (a *Aggregator) Compare(groups []model.GroupProfile) (model.GroupComparison, error) {
	if len(groups) < 2 {
		return model.GroupComparison{}, model.NewValidationError("groups", "at least two groups are required for a comparison")
	}
	if len(groups) > a.limits.MaxGroups {
		return model.GroupComparison{}, model.NewValidationError("groups", "at most %d groups per call", a.limits.MaxGroups)
	}

	ids := make([]int64, 0, len(groups))
	indicators := make(map[int64]model.HealthIndicators, len(groups))
	scores := make(map[int64]float64, len(groups))
	for i, g := range groups {
		if _, dup := scores[g.GroupID]; dup {
			return model.GroupComparison{}, model.NewValidationError("groups", "duplicate group_id %d", g.GroupID)
		}
		health, err := a.health.Assess(g, nil)
		if err != nil {
			return model.GroupComparison{}, fmt.Errorf("group %d (index %d): %w", g.GroupID, i, err)
		}
		ids = append(ids, g.GroupID)
		indicators[g.GroupID] = health.Indicators
		scores[g.GroupID] = health.Score
	}

	cmp := model.GroupComparison{}
	for _, def := range indicatorCatalog {
		values := make(map[int64]float64, len(ids))
		for _, id := range ids {
			values[id] = round4(def.value(indicators[id]))
		}
		cmp.Indicators = append(cmp.Indicators, model.IndicatorComparison{
			Indicator:      def.name,
			HigherIsBetter: def.higherIsBetter,
			Ranking:        rankGroups(ids, values, def.higherIsBetter),
		})
	}
	cmp.Overall = rankGroups(ids, scores, true)
	cmp.Best = cmp.Overall[0].GroupID
	cmp.Weakest = cmp.Overall[len(cmp.Overall)-1].GroupID
	return cmp, nil
}

// rankGroups orders groups best first with competition ranking; ties are
// listed by ascending group id.
func rankGroups(ids []int64, values map[int64]float64, higherIsBetter bool) []model.IndicatorRank {
	ranks := make([]model.IndicatorRank, 0, len(ids))
	for _, id := range ids {
		ranks = append(ranks, model.IndicatorRank{GroupID: id, Value: values[id]})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Value != ranks[j].Value {
			if higherIsBetter {
				return ranks[i].Value > ranks[j].Value
			}
			return ranks[i].Value < ranks[j].Value
		}
		return ranks[i].GroupID < ranks[j].GroupID
	})
	for i := range ranks {
		if i > 0 && ranks[i].Value == ranks[i-1].Value {
			ranks[i].Rank = ranks[i-1].Rank
		} else {
			ranks[i].Rank = i + 1
		}
	}
	return ranks
}
