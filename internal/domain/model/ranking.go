package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// RankEntry is one member's position in a group's discipline ranking.
type RankEntry struct {
	Rank              int
	UserID            int64
	DisciplineScore   float64
	PunctualityRate   float64
	Regularity        float64
	ContributionTotal decimal.Decimal
	LoansRepaid       int64
	Badge             valueobject.Badge
}

// RankingStats summarises a ranking.
type RankingStats struct {
	Count     int
	MeanScore float64
	TopScore  float64
	Badges    map[valueobject.Badge]int
}

// Ranking is the ordered discipline ranking of a group's members.
type Ranking struct {
	GroupID int64
	Entries []RankEntry
	Stats   RankingStats
}
