package port

import (
	"context"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishComplaintSubmitted(ctx context.Context, event domain.ComplaintSubmittedEvent) error
	PublishComplaintStatusChanged(ctx context.Context, event domain.ComplaintStatusChangedEvent) error
}
