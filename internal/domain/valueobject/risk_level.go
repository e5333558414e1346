package valueobject

// RiskLevel is an immutable value object classifying a member's default risk.
// Higher scores mean lower risk.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "Low"}
	RiskLevelModerate = RiskLevel{value: "Moderate"}
	RiskLevelHigh     = RiskLevel{value: "High"}
	RiskLevelCritical = RiskLevel{value: "Critical"}
)

// RiskLevelFromScore derives the RiskLevel for a composite score in [0,100].
//
//	score >= 80 -> Low
//	score >= 60 -> Moderate
//	score >= 40 -> High
//	otherwise   -> Critical
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLevelLow
	case score >= 60:
		return RiskLevelModerate
	case score >= 40:
		return RiskLevelHigh
	default:
		return RiskLevelCritical
	}
}

// String returns the string representation.
func (r RiskLevel) String() string { return r.value }

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool { return r.value == "" }

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool { return r.value == other.value }
