package usecase_test

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/application/usecase"
	"github.com/bibbank/savings-analytics/internal/domain/event"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/internal/infrastructure/validation"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockPublisher struct {
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error
}

func (m *mockPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc == nil {
		return nil
	}
	return m.publishFunc(ctx, events...)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func fixedClock() usecase.Clock {
	return func() time.Time { return time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC) }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

type engines struct {
	risk       *service.RiskEngine
	health     *service.HealthEngine
	ranking    *service.RankingEngine
	projection *service.ProjectionEngine
	aggregator *service.Aggregator
}

func newEngines() engines {
	limits := service.DefaultLimits()
	risk := service.NewRiskEngine(service.DefaultRiskPolicy(), limits)
	health := service.NewHealthEngine(service.DefaultHealthPolicy())
	projection := service.NewProjectionEngine(service.DefaultProjectionPolicy(), limits)
	return engines{
		risk:       risk,
		health:     health,
		ranking:    service.NewRankingEngine(service.DefaultRankingPolicy(), limits),
		projection: projection,
		aggregator: service.NewAggregator(health, risk, projection, service.DefaultAlertPolicy(), limits),
	}
}

func newValidator() usecase.Validator {
	return validation.New()
}

// reliableMember pays on time, has repaid every loan and owes nothing.
func reliableMember(id int64) dto.MemberProfile {
	return dto.MemberProfile{
		UserID:              id,
		SeniorityMonths:     36,
		ContributionTotal:   120000,
		ContributionCount:   24,
		OnTimeCount:         24,
		LoanCount:           2,
		LoansRepaid:         2,
		AmountBorrowedTotal: 100000,
		AmountRepaidTotal:   100000,
	}
}

// defaulter has an unresolved defaulted loan.
func defaulter(id int64) dto.MemberProfile {
	return dto.MemberProfile{
		UserID:              id,
		SeniorityMonths:     6,
		ContributionTotal:   10000,
		ContributionCount:   6,
		OnTimeCount:         2,
		LateCount:           4,
		LoanCount:           1,
		LoansDefaulted:      1,
		AmountBorrowedTotal: 50000,
		AmountRepaidTotal:   5000,
	}
}

// healthyGroup has full participation, no late loans and a comfortable
// loan book.
func healthyGroup(id int64) dto.GroupProfile {
	return dto.GroupProfile{
		GroupID:               id,
		Name:                  "Umoja",
		ContributionAmount:    5000,
		Frequency:             "monthly",
		CycleDurationMonths:   12,
		ActiveMembers:         20,
		TotalBalance:          1_000_000,
		TotalContributions:    1_200_000,
		TotalActiveLoans:      300_000,
		ExpectedContributions: 240,
		ReceivedContributions: 240,
		TotalLoans:            10,
		ContributionTypes:     []string{"savings", "penalty", "repayment", "interest"},
		CreationDate:          "2024-01-01",
		AsOf:                  "2025-01-01",
	}
}

// troubledGroup triggers every alert rule.
func troubledGroup(id int64) dto.GroupProfile {
	return dto.GroupProfile{
		GroupID:               id,
		Name:                  "Harambee",
		ContributionAmount:    1000,
		Frequency:             "weekly",
		CycleDurationMonths:   12,
		ActiveMembers:         5,
		InactiveMembers:       5,
		TotalBalance:          100_000,
		TotalContributions:    150_000,
		TotalActiveLoans:      120_000,
		ExpectedContributions: 100,
		ReceivedContributions: 30,
		TotalLoans:            10,
		LateLoans:             5,
		ContributionTypes:     []string{"savings"},
		CreationDate:          "2024-06-01",
		AsOf:                  "2025-01-01",
	}
}
