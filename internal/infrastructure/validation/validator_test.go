package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/internal/infrastructure/validation"
)

func validGroup() dto.GroupProfile {
	return dto.GroupProfile{
		GroupID:             7,
		ContributionAmount:  5000,
		Frequency:           "monthly",
		CycleDurationMonths: 12,
		ActiveMembers:       20,
		ContributionTypes:   []string{"savings", "penalty"},
		CreationDate:        "2025-01-15",
	}
}

func TestValidator_Struct(t *testing.T) {
	v := validation.New()
	negative := -1.0
	tooHigh := 0.9

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{
			name: "valid risk request",
			req:  dto.RiskScoreRequest{Member: dto.MemberProfile{UserID: 1}},
		},
		{
			name:      "missing user id",
			req:       dto.RiskScoreRequest{Member: dto.MemberProfile{}},
			wantField: "member.user_id",
			wantMsg:   "is required",
		},
		{
			name:      "non positive requested amount",
			req:       dto.RiskScoreRequest{Member: dto.MemberProfile{UserID: 1}, RequestedAmount: &negative},
			wantField: "requested_amount",
			wantMsg:   "must be greater than 0",
		},
		{
			name:      "unknown frequency",
			req:       dto.GroupRequest{Group: func() dto.GroupProfile { g := validGroup(); g.Frequency = "daily"; return g }()},
			wantField: "group.frequency",
			wantMsg:   "must be one of: weekly, biweekly, monthly",
		},
		{
			name:      "malformed date",
			req:       dto.GroupRequest{Group: func() dto.GroupProfile { g := validGroup(); g.CreationDate = "15/01/2025"; return g }()},
			wantField: "group.creation_date",
			wantMsg:   "must be a date formatted as YYYY-MM-DD",
		},
		{
			name:      "unknown contribution type",
			req:       dto.GroupRequest{Group: func() dto.GroupProfile { g := validGroup(); g.ContributionTypes = []string{"gift"}; return g }()},
			wantField: "group.contribution_types[0]",
			wantMsg:   "must be one of: savings, penalty, repayment, interest",
		},
		{
			name:      "interest above ceiling",
			req:       dto.ProjectionRequest{Group: validGroup(), HorizonMonths: 12, Assumptions: &dto.Assumptions{MonthlyInterestRate: &tooHigh}},
			wantField: "assumptions.monthly_interest_rate",
			wantMsg:   "must be at most 0.5",
		},
		{
			name:      "compare needs two groups",
			req:       dto.CompareRequest{Groups: []dto.GroupProfile{validGroup()}},
			wantField: "groups",
			wantMsg:   "must contain at least 2 items",
		},
		{
			name:      "invalid ranking member",
			req:       dto.RankingRequest{GroupID: 1, Members: []dto.MemberProfile{{UserID: 1}, {UserID: 2, LateCount: -3}}},
			wantField: "members[1].late_count",
			wantMsg:   "must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrValidation))

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}
