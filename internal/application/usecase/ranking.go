package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/service"
)

// RankingUseCase ranks the members of a group by contribution discipline.
type RankingUseCase struct {
	engine    *service.RankingEngine
	validator Validator
}

// NewRankingUseCase wires dependencies.
func NewRankingUseCase(engine *service.RankingEngine, validator Validator) *RankingUseCase {
	return &RankingUseCase{engine: engine, validator: validator}
}

// Execute ranks the members.
func (uc *RankingUseCase) Execute(ctx context.Context, req dto.RankingRequest) (resp dto.RankingResponse, err error) {
	_, span := startSpan(ctx, "ranking.rank")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.RankingResponse{}, err
	}
	ranking, err := uc.engine.Rank(req.GroupID, toMembers(req.Members))
	if err != nil {
		return dto.RankingResponse{}, fmt.Errorf("rank group %d: %w", req.GroupID, err)
	}

	resp = dto.RankingResponse{
		GroupID:  ranking.GroupID,
		Rankings: make([]dto.RankEntry, 0, len(ranking.Entries)),
		Statistics: dto.RankingStats{
			Count:     ranking.Stats.Count,
			MeanScore: ranking.Stats.MeanScore,
			TopScore:  ranking.Stats.TopScore,
			Badges:    make(map[string]int, len(ranking.Stats.Badges)),
		},
	}
	for _, e := range ranking.Entries {
		resp.Rankings = append(resp.Rankings, dto.RankEntry{
			Rank:              e.Rank,
			UserID:            e.UserID,
			DisciplineScore:   e.DisciplineScore,
			PunctualityRate:   e.PunctualityRate,
			Regularity:        e.Regularity,
			ContributionTotal: money(e.ContributionTotal),
			LoansRepaid:       e.LoansRepaid,
			Badge:             string(e.Badge),
		})
	}
	for badge, n := range ranking.Stats.Badges {
		resp.Statistics.Badges[string(badge)] = n
	}
	return resp, nil
}
