package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs citypulse.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":             event.UserID,
		"username":            event.Username,
		"email":               event.Email,
		"role":                event.Role,
		"registered_at":       event.RegisteredAt,
		"registration_method": event.RegistrationMethod,
		"metadata":            event.Metadata,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishComplaintSubmitted logs citypulse.complaint.submitted events.
func (p *StubPublisher) PublishComplaintSubmitted(_ context.Context, event domain.ComplaintSubmittedEvent) error {
	payload := map[string]any{
		"complaint_id": event.ComplaintID,
		"user_id":      event.UserID,
		"category":     event.Category,
		"severity":     event.Severity,
		"title":        event.Title,
		"submitted_at": event.SubmittedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("complaint.submitted", event.UserID, event.SubmittedAt, payload)
	return nil
}

// PublishComplaintStatusChanged logs citypulse.complaint.status.changed events.
func (p *StubPublisher) PublishComplaintStatusChanged(_ context.Context, event domain.ComplaintStatusChangedEvent) error {
	payload := map[string]any{
		"complaint_id": event.ComplaintID,
		"user_id":      event.UserID,
		"old_status":   event.OldStatus,
		"new_status":   event.NewStatus,
		"notes":        event.Notes,
		"changed_by":   event.ChangedBy,
		"changed_at":   event.ChangedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("complaint.status.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
