package usecase

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Request mapping
// ---------------------------------------------------------------------------

func toMember(m dto.MemberProfile) model.MemberProfile {
	return model.MemberProfile{
		UserID:              m.UserID,
		SeniorityMonths:     m.SeniorityMonths,
		ContributionTotal:   decimal.NewFromFloat(m.ContributionTotal),
		ContributionCount:   m.ContributionCount,
		OnTimeCount:         m.OnTimeCount,
		LateCount:           m.LateCount,
		LoanCount:           m.LoanCount,
		LoansRepaid:         m.LoansRepaid,
		LoansDefaulted:      m.LoansDefaulted,
		AmountBorrowedTotal: decimal.NewFromFloat(m.AmountBorrowedTotal),
		AmountRepaidTotal:   decimal.NewFromFloat(m.AmountRepaidTotal),
	}
}

func toMembers(ms []dto.MemberProfile) []model.MemberProfile {
	if len(ms) == 0 {
		return nil
	}
	out := make([]model.MemberProfile, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMember(m))
	}
	return out
}

// toGroup maps a group snapshot. An omitted as_of becomes asOf.
func toGroup(g dto.GroupProfile, asOf time.Time) (model.GroupProfile, error) {
	created, err := parseDate("creation_date", g.CreationDate)
	if err != nil {
		return model.GroupProfile{}, err
	}
	if g.AsOf != "" {
		if asOf, err = parseDate("as_of", g.AsOf); err != nil {
			return model.GroupProfile{}, err
		}
	}

	types := make([]valueobject.ContributionType, 0, len(g.ContributionTypes))
	for _, t := range g.ContributionTypes {
		types = append(types, valueobject.ContributionType(t))
	}

	return model.GroupProfile{
		GroupID:               g.GroupID,
		Name:                  g.Name,
		ContributionAmount:    decimal.NewFromFloat(g.ContributionAmount),
		Frequency:             valueobject.Frequency(g.Frequency),
		CycleDurationMonths:   g.CycleDurationMonths,
		ActiveMembers:         g.ActiveMembers,
		InactiveMembers:       g.InactiveMembers,
		TotalBalance:          decimal.NewFromFloat(g.TotalBalance),
		TotalContributions:    decimal.NewFromFloat(g.TotalContributions),
		TotalActiveLoans:      decimal.NewFromFloat(g.TotalActiveLoans),
		ExpectedContributions: g.ExpectedContributions,
		ReceivedContributions: g.ReceivedContributions,
		TotalLoans:            g.TotalLoans,
		LateLoans:             g.LateLoans,
		ContributionTypes:     types,
		CreationDate:          created,
		AsOf:                  asOf,
		Members:               toMembers(g.Members),
	}, nil
}

// toAssumptions overlays the caller's overrides on defaults.
func toAssumptions(a *dto.Assumptions, defaults model.Assumptions) (model.Assumptions, error) {
	if a == nil {
		return defaults, nil
	}
	out := defaults
	if a.StartDate != "" {
		start, err := parseDate("start_date", a.StartDate)
		if err != nil {
			return model.Assumptions{}, err
		}
		out.StartDate = start
	}
	overrides := []struct {
		v      *float64
		target *decimal.Decimal
	}{
		{a.CollectionRate, &out.CollectionRate},
		{a.LoanAllocationRate, &out.LoanAllocationRate},
		{a.MonthlyInterestRate, &out.MonthlyInterestRate},
		{a.GrowthRate, &out.GrowthRate},
	}
	for _, o := range overrides {
		if o.v != nil {
			*o.target = decimal.NewFromFloat(*o.v)
		}
	}
	return out, nil
}

func toBaseline(b *dto.HealthBaseline) *model.HealthBaseline {
	if b == nil {
		return nil
	}
	out := &model.HealthBaseline{Score: b.Score}
	if b.Indicators != nil {
		ind := model.HealthIndicators{
			ParticipationRate:  b.Indicators.ParticipationRate,
			LoanPerformance:    b.Indicators.LoanPerformance,
			Diversification:    b.Indicators.Diversification,
			LoanToSavingsRatio: b.Indicators.LoanToSavingsRatio,
			Retention:          b.Indicators.Retention,
		}
		out.Indicators = &ind
	}
	return out
}

func toCycleParams(r dto.CycleSimulationRequest) (model.CycleParams, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return model.CycleParams{}, err
	}
	shares := make([]model.MemberShare, 0, len(r.Shares))
	for _, s := range r.Shares {
		shares = append(shares, model.MemberShare{UserID: s.UserID, Contributed: decimal.NewFromFloat(s.Contributed)})
	}
	return model.CycleParams{
		Members:             r.Members,
		ContributionAmount:  decimal.NewFromFloat(r.ContributionAmount),
		Frequency:           valueobject.Frequency(r.Frequency),
		DurationMonths:      r.DurationMonths,
		StartDate:           start,
		ParticipationRate:   decimal.NewFromFloat(r.ParticipationRate),
		LoanAllocationRate:  decimal.NewFromFloat(r.LoanAllocationRate),
		MonthlyInterestRate: decimal.NewFromFloat(r.MonthlyInterestRate),
		DefaultRate:         decimal.NewFromFloat(r.DefaultRate),
		PenaltyRate:         decimal.NewFromFloat(r.PenaltyRate),
		Shares:              shares,
	}, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, model.NewValidationError(field, "must be a date formatted as YYYY-MM-DD")
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// Response mapping
// ---------------------------------------------------------------------------

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func formatDate(t time.Time) string {
	return t.Format(dto.DateLayout)
}

func toFailure(index int, id int64, err error) dto.ItemFailure {
	f := dto.ItemFailure{Index: index, ID: id, Error: err.Error()}
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		f.Field = verr.Field
		f.Error = verr.Message
	}
	return f
}

func toFactors(fs []model.ScoringFactor) []dto.ScoringFactor {
	out := make([]dto.ScoringFactor, 0, len(fs))
	for _, f := range fs {
		out = append(out, dto.ScoringFactor{
			Name:   f.Name,
			Weight: f.Weight.InexactFloat64(),
			Score:  f.Score,
			Impact: f.Impact,
		})
	}
	return out
}

func toRiskResponse(a model.RiskAssessment) dto.RiskAssessmentResponse {
	resp := dto.RiskAssessmentResponse{
		UserID:             a.UserID,
		RiskScore:          a.Score,
		RiskLevel:          a.Level.String(),
		DefaultProbability: a.DefaultProbability,
		Eligible:           a.Eligible,
		Factors:            toFactors(a.Factors),
		RiskFactors:        nonNil(a.RiskFactors),
		Recommendations:    nonNil(a.Recommendations),
	}
	if a.RecommendedAmount != nil {
		amount := money(*a.RecommendedAmount)
		resp.RecommendedAmount = &amount
	}
	return resp
}

func toIndicators(ind model.HealthIndicators) dto.HealthIndicators {
	return dto.HealthIndicators{
		ParticipationRate:  ind.ParticipationRate,
		LoanPerformance:    ind.LoanPerformance,
		Diversification:    ind.Diversification,
		LoanToSavingsRatio: ind.LoanToSavingsRatio,
		Retention:          ind.Retention,
	}
}

func toHealthResponse(h model.HealthAssessment) dto.GroupHealthResponse {
	return dto.GroupHealthResponse{
		GroupID:         h.GroupID,
		HealthScore:     h.Score,
		HealthLevel:     h.Level.String(),
		Indicators:      toIndicators(h.Indicators),
		Strengths:       nonNil(h.Strengths),
		Weaknesses:      nonNil(h.Weaknesses),
		Recommendations: nonNil(h.Recommendations),
		Trend:           string(h.Trend),
		ScoreChange:     h.ScoreChange,
	}
}

func toProjectionResponse(p model.Projection) dto.ProjectionResponse {
	points := make([]dto.ProjectionPoint, 0, len(p.Points))
	for _, pt := range p.Points {
		points = append(points, dto.ProjectionPoint{
			Month:                pt.MonthIndex,
			Date:                 formatDate(pt.Date),
			CumulativeSavings:    money(pt.CumulativeSavings),
			EstimatedLoans:       money(pt.EstimatedLoans),
			EstimatedInterest:    money(pt.EstimatedInterest),
			ProjectedBalance:     money(pt.ProjectedBalance),
			ProjectedMemberCount: pt.ProjectedMemberCount,
		})
	}
	return dto.ProjectionResponse{
		GroupID:       p.GroupID,
		HorizonMonths: p.HorizonMonths,
		Assumptions: dto.AssumptionsResponse{
			StartDate:           formatDate(p.Assumptions.StartDate),
			CollectionRate:      p.Assumptions.CollectionRate.InexactFloat64(),
			LoanAllocationRate:  p.Assumptions.LoanAllocationRate.InexactFloat64(),
			MonthlyInterestRate: p.Assumptions.MonthlyInterestRate.InexactFloat64(),
			GrowthRate:          p.Assumptions.GrowthRate.InexactFloat64(),
		},
		Projections:   points,
		TotalSavings:  money(p.TotalSavings),
		TotalInterest: money(p.TotalInterest),
		FinalBalance:  money(p.FinalBalance),
	}
}

func toAlerts(alerts []model.Alert) []dto.Alert {
	out := make([]dto.Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.Alert{
			GroupID:  a.GroupID,
			Code:     string(a.Code),
			Severity: string(a.Severity),
			Message:  a.Message,
			Value:    a.Value,
		})
	}
	return out
}

func toIndicatorRanks(rs []model.IndicatorRank) []dto.IndicatorRank {
	out := make([]dto.IndicatorRank, 0, len(rs))
	for _, r := range rs {
		out = append(out, dto.IndicatorRank{GroupID: r.GroupID, Value: r.Value, Rank: r.Rank})
	}
	return out
}

// nonNil keeps empty lists as [] on the wire.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
