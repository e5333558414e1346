package port

import (
	"context"

	"github.com/bibbank/savings-analytics/internal/domain/event"
)

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
