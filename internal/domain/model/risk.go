package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

// ScoringFactor is one weighted component of a composite score.
type ScoringFactor struct {
	Name   string
	Weight decimal.Decimal
	Impact string
	Score  float64
}

// RiskAssessment is the default-risk evaluation of a single member.
type RiskAssessment struct {
	UserID             int64
	Score              float64
	Level              valueobject.RiskLevel
	DefaultProbability float64

	// RecommendedAmount is nil when the member is not eligible.
	RecommendedAmount *decimal.Decimal
	Factors           []ScoringFactor
	RiskFactors       []string
	Recommendations   []string
	Eligible          bool
}

// CreditLimit is the borrowing ceiling derived from a member's risk score.
type CreditLimit struct {
	UserID   int64
	Score    float64
	Level    valueobject.RiskLevel
	Multiple decimal.Decimal
	Ceiling  decimal.Decimal
	Limit    decimal.Decimal
	Reason   string
	Eligible bool
}

// BatchFailure records a batch item that could not be scored.
type BatchFailure struct {
	Err    error
	Index  int
	UserID int64
}

// RiskStats summarises the scores of a batch.
type RiskStats struct {
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	AtRisk int
}

// RiskBatch is the result of scoring many members at once. Assessments are
// ordered riskiest first.
type RiskBatch struct {
	Assessments []RiskAssessment
	Failures    []BatchFailure
	Stats       RiskStats
}
