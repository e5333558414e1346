package usecase

import (
	"context"

	"github.com/bibbank/savings-analytics/internal/application/dto"
)

// StatusUseCase reports the identity of the running service.
type StatusUseCase struct {
	service string
	version string
}

// NewStatusUseCase wires dependencies.
func NewStatusUseCase(service, version string) *StatusUseCase {
	return &StatusUseCase{service: service, version: version}
}

// Execute returns the service status.
func (uc *StatusUseCase) Execute(_ context.Context, _ dto.StatusRequest) (dto.StatusResponse, error) {
	return dto.StatusResponse{
		Service: uc.service,
		Version: uc.version,
		Status:  "operational",
		Engines: []string{"risk", "health", "ranking", "projection", "analytics"},
	}, nil
}
