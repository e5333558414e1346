package valueobject

// HealthLevel classifies a group's composite health score.
type HealthLevel struct {
	value string
}

var (
	HealthLevelExcellent = HealthLevel{value: "Excellent"}
	HealthLevelGood      = HealthLevel{value: "Good"}
	HealthLevelFair      = HealthLevel{value: "Fair"}
	HealthLevelWeak      = HealthLevel{value: "Weak"}
	HealthLevelCritical  = HealthLevel{value: "Critical"}
)

// HealthLevelFromScore maps a [0,100] score onto the five health bands.
func HealthLevelFromScore(score float64) HealthLevel {
	switch {
	case score >= 80:
		return HealthLevelExcellent
	case score >= 60:
		return HealthLevelGood
	case score >= 40:
		return HealthLevelFair
	case score >= 20:
		return HealthLevelWeak
	default:
		return HealthLevelCritical
	}
}

// String returns the string representation of the level.
func (l HealthLevel) String() string { return l.value }

// IsZero returns true if the level has not been initialised.
func (l HealthLevel) IsZero() bool { return l.value == "" }

// Equal returns true when both levels carry the same value.
func (l HealthLevel) Equal(other HealthLevel) bool { return l.value == other.value }
