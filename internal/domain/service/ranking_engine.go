package service

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// RankingEngine orders the members of a group by contribution discipline.
type RankingEngine struct {
	policy RankingPolicy
	limits Limits
}

// NewRankingEngine creates a RankingEngine.
func NewRankingEngine(policy RankingPolicy, limits Limits) *RankingEngine {
	return &RankingEngine{policy: policy, limits: limits}
}

// Rank scores and orders members. Scoring weights:
//   - Regularity of contributions: 40%
//   - Total contributed, relative to the best contributor: 30%
//   - Loan repayment rate: 20%
//   - Seniority, relative to the longest-standing member: 10%
//
// Members with equal scores share a rank and a badge; the next rank skips
// accordingly.
func (e *RankingEngine) Rank(groupID int64, members []model.MemberProfile) (model.Ranking, error) {
	if len(members) == 0 {
		return model.Ranking{}, model.NewValidationError("members", "at least one member is required")
	}
	if len(members) > e.limits.MaxMembers {
		return model.Ranking{}, model.NewValidationError("members", "at most %d members per call", e.limits.MaxMembers)
	}
	seen := make(map[int64]struct{}, len(members))
	maxContribution, maxSeniority := decimal.Zero, int64(0)
	for _, m := range members {
		if err := m.Validate(); err != nil {
			return model.Ranking{}, err
		}
		if _, dup := seen[m.UserID]; dup {
			return model.Ranking{}, model.NewValidationError("members", "duplicate user_id %d", m.UserID)
		}
		seen[m.UserID] = struct{}{}
		maxContribution = decimal.Max(maxContribution, m.ContributionTotal)
		maxSeniority = max(maxSeniority, m.SeniorityMonths)
	}

	entries := make([]model.RankEntry, 0, len(members))
	scores := make(map[int64]decimal.Decimal, len(members))
	for _, m := range members {
		regularity := percentOf(m.OnTimeCount, m.OnTimeCount+m.LateCount)
		repayment := hundred
		if m.LoanCount > 0 {
			repayment = percentOf(m.LoansRepaid, m.LoanCount)
		}
		score := e.policy.RegularityWeight.Mul(regularity).
			Add(e.policy.ContributionWeight.Mul(normalized(m.ContributionTotal, maxContribution))).
			Add(e.policy.RepaymentWeight.Mul(repayment)).
			Add(e.policy.SeniorityWeight.Mul(normalized(decimal.NewFromInt(m.SeniorityMonths), decimal.NewFromInt(maxSeniority)))).
			Round(2)
		scores[m.UserID] = score

		entries = append(entries, model.RankEntry{
			UserID:            m.UserID,
			DisciplineScore:   score.InexactFloat64(),
			PunctualityRate:   percentOf(m.OnTimeCount, m.ContributionCount).Round(2).InexactFloat64(),
			Regularity:        regularity.Round(2).InexactFloat64(),
			ContributionTotal: m.ContributionTotal,
			LoansRepaid:       m.LoansRepaid,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := scores[entries[i].UserID], scores[entries[j].UserID]
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return entries[i].UserID < entries[j].UserID
	})

	band := max(1, int(math.Ceil(e.policy.BadgeBand*float64(len(entries)))))
	for i := range entries {
		if i > 0 && scores[entries[i].UserID].Equal(scores[entries[i-1].UserID]) {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
		entries[i].Badge = badgeFor(entries[i].Rank, band)
	}

	return model.Ranking{
		GroupID: groupID,
		Entries: entries,
		Stats:   rankingStats(entries, scores),
	}, nil
}

// badgeFor assigns Gold to the top rank, then one band each of Silver and
// Bronze.
func badgeFor(rank, band int) valueobject.Badge {
	switch {
	case rank == 1:
		return valueobject.BadgeGold
	case rank <= 1+band:
		return valueobject.BadgeSilver
	case rank <= 1+2*band:
		return valueobject.BadgeBronze
	default:
		return valueobject.BadgeMember
	}
}

func rankingStats(entries []model.RankEntry, scores map[int64]decimal.Decimal) model.RankingStats {
	stats := model.RankingStats{
		Count:  len(entries),
		Badges: make(map[valueobject.Badge]int),
	}
	sum := decimal.Zero
	for _, entry := range entries {
		sum = sum.Add(scores[entry.UserID])
		stats.Badges[entry.Badge]++
	}
	if len(entries) > 0 {
		stats.MeanScore = sum.Div(decimal.NewFromInt(int64(len(entries)))).Round(2).InexactFloat64()
		stats.TopScore = entries[0].DisciplineScore
	}
	return stats
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole))
}

// normalized scales v against the largest value of the call onto 0-100.
func normalized(v, maxValue decimal.Decimal) decimal.Decimal {
	if !maxValue.IsPositive() {
		return decimal.Zero
	}
	return v.Mul(hundred).Div(maxValue)
}
