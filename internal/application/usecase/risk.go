package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bibbank/savings-analytics/internal/application/dto"
	"github.com/bibbank/savings-analytics/internal/domain/service"
)

// RiskUseCase scores members for internal loans.
type RiskUseCase struct {
	engine    *service.RiskEngine
	validator Validator
}

// NewRiskUseCase wires dependencies.
func NewRiskUseCase(engine *service.RiskEngine, validator Validator) *RiskUseCase {
	return &RiskUseCase{engine: engine, validator: validator}
}

// Score assesses one member.
func (uc *RiskUseCase) Score(ctx context.Context, req dto.RiskScoreRequest) (resp dto.RiskAssessmentResponse, err error) {
	_, span := startSpan(ctx, "risk.score")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.RiskAssessmentResponse{}, err
	}
	assessment, err := uc.engine.Assess(toMember(req.Member), requestedAmount(req.RequestedAmount))
	if err != nil {
		return dto.RiskAssessmentResponse{}, fmt.Errorf("assess member %d: %w", req.Member.UserID, err)
	}
	return toRiskResponse(assessment), nil
}

// Factors returns the factor breakdown of a member's score.
func (uc *RiskUseCase) Factors(ctx context.Context, req dto.RiskScoreRequest) (resp dto.RiskFactorsResponse, err error) {
	_, span := startSpan(ctx, "risk.factors")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.RiskFactorsResponse{}, err
	}
	assessment, err := uc.engine.Assess(toMember(req.Member), requestedAmount(req.RequestedAmount))
	if err != nil {
		return dto.RiskFactorsResponse{}, fmt.Errorf("assess member %d: %w", req.Member.UserID, err)
	}
	return dto.RiskFactorsResponse{
		UserID:      assessment.UserID,
		RiskScore:   assessment.Score,
		Factors:     toFactors(assessment.Factors),
		RiskFactors: nonNil(assessment.RiskFactors),
	}, nil
}

// Batch scores many members. Entries that fail validation are reported in
// Failures with their position in the request.
func (uc *RiskUseCase) Batch(ctx context.Context, req dto.RiskBatchRequest) (resp dto.RiskBatchResponse, err error) {
	_, span := startSpan(ctx, "risk.batch")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.RiskBatchResponse{}, err
	}

	resp.Failures = []dto.ItemFailure{}
	requests := make([]service.RiskRequest, 0, len(req.Members))
	positions := make([]int, 0, len(req.Members))
	for i, item := range req.Members {
		if err := uc.validator.Struct(item); err != nil {
			resp.Failures = append(resp.Failures, toFailure(i, item.Member.UserID, err))
			continue
		}
		requests = append(requests, service.RiskRequest{
			Member:          toMember(item.Member),
			RequestedAmount: requestedAmount(item.RequestedAmount),
		})
		positions = append(positions, i)
	}

	resp.Assessments = []dto.RiskAssessmentResponse{}
	if len(requests) == 0 {
		return resp, nil
	}

	batch, err := uc.engine.AssessBatch(requests)
	if err != nil {
		return dto.RiskBatchResponse{}, fmt.Errorf("assess batch: %w", err)
	}
	for _, a := range batch.Assessments {
		resp.Assessments = append(resp.Assessments, toRiskResponse(a))
	}
	for _, f := range batch.Failures {
		resp.Failures = append(resp.Failures, toFailure(positions[f.Index], f.UserID, f.Err))
	}
	resp.Statistics = dto.RiskStats{
		Count:     batch.Stats.Count,
		MeanScore: batch.Stats.Mean,
		MinScore:  batch.Stats.Min,
		MaxScore:  batch.Stats.Max,
		AtRisk:    batch.Stats.AtRisk,
	}
	return resp, nil
}

// CreditLimit returns the recommended borrowing limit of a member.
func (uc *RiskUseCase) CreditLimit(ctx context.Context, req dto.CreditLimitRequest) (resp dto.CreditLimitResponse, err error) {
	_, span := startSpan(ctx, "risk.credit_limit")
	defer func() { endSpan(span, err) }()

	if err := uc.validator.Struct(req); err != nil {
		return dto.CreditLimitResponse{}, err
	}
	limit, err := uc.engine.CreditLimit(toMember(req.Member))
	if err != nil {
		return dto.CreditLimitResponse{}, fmt.Errorf("credit limit for member %d: %w", req.Member.UserID, err)
	}
	return dto.CreditLimitResponse{
		UserID:      limit.UserID,
		RiskScore:   limit.Score,
		RiskLevel:   limit.Level.String(),
		CreditLimit: money(limit.Limit),
		Multiple:    limit.Multiple.InexactFloat64(),
		Ceiling:     money(limit.Ceiling),
		Eligible:    limit.Eligible,
		Reason:      limit.Reason,
	}, nil
}

func requestedAmount(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
