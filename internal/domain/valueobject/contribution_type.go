package valueobject

import "fmt"

// ContributionType identifies the kind of money a member paid into the fund.
type ContributionType string

const (
	ContributionSavings   ContributionType = "savings"
	ContributionPenalty   ContributionType = "penalty"
	ContributionRepayment ContributionType = "repayment"
	ContributionInterest  ContributionType = "interest"
)

// AllContributionTypes lists every type a group can record.
var AllContributionTypes = []ContributionType{
	ContributionSavings,
	ContributionPenalty,
	ContributionRepayment,
	ContributionInterest,
}

// ParseContributionType validates a raw contribution type.
func ParseContributionType(s string) (ContributionType, error) {
	for _, t := range AllContributionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid contribution type: %q", s)
}
