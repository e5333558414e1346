package service_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/internal/domain/valueobject"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// reliableMember pays on time, has repaid every loan and owes nothing.
func reliableMember(id int64) model.MemberProfile {
	return model.MemberProfile{
		UserID:              id,
		SeniorityMonths:     24,
		ContributionTotal:   dec("100000"),
		ContributionCount:   10,
		OnTimeCount:         10,
		LoanCount:           2,
		LoansRepaid:         2,
		AmountBorrowedTotal: dec("50000"),
		AmountRepaidTotal:   dec("50000"),
	}
}

// newcomer has no history at all.
func newcomer(id int64) model.MemberProfile {
	return model.MemberProfile{
		UserID:              id,
		ContributionTotal:   decimal.Zero,
		AmountBorrowedTotal: decimal.Zero,
		AmountRepaidTotal:   decimal.Zero,
	}
}

// defaulter pays late and still owes money on defaulted loans.
func defaulter(id int64) model.MemberProfile {
	return model.MemberProfile{
		UserID:              id,
		SeniorityMonths:     12,
		ContributionTotal:   dec("20000"),
		ContributionCount:   10,
		OnTimeCount:         4,
		LateCount:           6,
		LoanCount:           3,
		LoansDefaulted:      2,
		AmountBorrowedTotal: dec("60000"),
		AmountRepaidTotal:   dec("10000"),
	}
}

// healthyGroup has indicators participation 0.95, loan performance 0.95,
// diversification 0.75, loan to savings 0.4 and retention 0.9.
func healthyGroup(id int64) model.GroupProfile {
	return model.GroupProfile{
		GroupID:               id,
		Name:                  "Twiyungunganye",
		ContributionAmount:    dec("5000"),
		Frequency:             valueobject.FrequencyMonthly,
		CycleDurationMonths:   12,
		ActiveMembers:         18,
		InactiveMembers:       2,
		TotalBalance:          dec("1000000"),
		TotalContributions:    dec("1200000"),
		TotalActiveLoans:      dec("400000"),
		ExpectedContributions: 200,
		ReceivedContributions: 190,
		TotalLoans:            20,
		LateLoans:             1,
		ContributionTypes: []valueobject.ContributionType{
			valueobject.ContributionSavings,
			valueobject.ContributionPenalty,
			valueobject.ContributionInterest,
		},
		CreationDate: date(2025, time.January, 15),
		AsOf:         date(2025, time.October, 20),
	}
}

// weakGroup has every indicator on the wrong side of its threshold.
func weakGroup(id int64) model.GroupProfile {
	return model.GroupProfile{
		GroupID:               id,
		Name:                  "Dufatanye",
		ContributionAmount:    dec("2000"),
		Frequency:             valueobject.FrequencyWeekly,
		CycleDurationMonths:   12,
		ActiveMembers:         5,
		InactiveMembers:       5,
		TotalBalance:          dec("100000"),
		TotalContributions:    dec("150000"),
		TotalActiveLoans:      dec("150000"),
		ExpectedContributions: 100,
		ReceivedContributions: 50,
		TotalLoans:            10,
		LateLoans:             5,
		ContributionTypes:     []valueobject.ContributionType{valueobject.ContributionSavings},
		CreationDate:          date(2025, time.January, 15),
		AsOf:                  date(2025, time.October, 20),
	}
}

// simpleFund starts empty with ten members contributing 1000 a month.
func simpleFund() model.GroupProfile {
	g := healthyGroup(7)
	g.ContributionAmount = dec("1000")
	g.ActiveMembers = 10
	g.InactiveMembers = 0
	g.TotalBalance = decimal.Zero
	g.TotalActiveLoans = decimal.Zero
	return g
}

func simpleAssumptions() model.Assumptions {
	return model.Assumptions{
		StartDate:           date(2025, time.January, 1),
		CollectionRate:      dec("1"),
		LoanAllocationRate:  dec("0.5"),
		MonthlyInterestRate: dec("0.1"),
		GrowthRate:          decimal.Zero,
	}
}

func newRiskEngine() *service.RiskEngine {
	return service.NewRiskEngine(service.DefaultRiskPolicy(), service.DefaultLimits())
}

func newHealthEngine() *service.HealthEngine {
	return service.NewHealthEngine(service.DefaultHealthPolicy())
}

func newProjectionEngine() *service.ProjectionEngine {
	return service.NewProjectionEngine(service.DefaultProjectionPolicy(), service.DefaultLimits())
}

func newAggregator() *service.Aggregator {
	return service.NewAggregator(newHealthEngine(), newRiskEngine(), newProjectionEngine(), service.DefaultAlertPolicy(), service.DefaultLimits())
}
