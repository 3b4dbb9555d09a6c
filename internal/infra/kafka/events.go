package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes citypulse.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID             string         `json:"user_id"`
		Username           string         `json:"username"`
		Email              string         `json:"email"`
		Role               string         `json:"role"`
		RegisteredAt       time.Time      `json:"registered_at"`
		RegistrationMethod string         `json:"registration_method"`
		Metadata           map[string]any `json:"metadata,omitempty"`
	}{
		UserID:             event.UserID,
		Username:           event.Username,
		Email:              event.Email,
		Role:               event.Role,
		RegisteredAt:       event.RegisteredAt.UTC(),
		RegistrationMethod: event.RegistrationMethod,
		Metadata:           event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishComplaintSubmitted publishes citypulse.complaint.submitted events.
func (p *EventPublisher) PublishComplaintSubmitted(ctx context.Context, event domain.ComplaintSubmittedEvent) error {
	payload := struct {
		ComplaintID string         `json:"complaint_id"`
		UserID      string         `json:"user_id"`
		Category    string         `json:"category"`
		Severity    string         `json:"severity"`
		Title       string         `json:"title"`
		SubmittedAt time.Time      `json:"submitted_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		ComplaintID: event.ComplaintID,
		UserID:      event.UserID,
		Category:    string(event.Category),
		Severity:    string(event.Severity),
		Title:       event.Title,
		SubmittedAt: event.SubmittedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "complaint.submitted", event.UserID, event.SubmittedAt, payload)
}

// PublishComplaintStatusChanged publishes citypulse.complaint.status.changed events.
func (p *EventPublisher) PublishComplaintStatusChanged(ctx context.Context, event domain.ComplaintStatusChangedEvent) error {
	payload := struct {
		ComplaintID string         `json:"complaint_id"`
		UserID      string         `json:"user_id"`
		OldStatus   string         `json:"old_status"`
		NewStatus   string         `json:"new_status"`
		Notes       string         `json:"notes,omitempty"`
		ChangedBy   string         `json:"changed_by"`
		ChangedAt   time.Time      `json:"changed_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		ComplaintID: event.ComplaintID,
		UserID:      event.UserID,
		OldStatus:   string(event.OldStatus),
		NewStatus:   string(event.NewStatus),
		Notes:       event.Notes,
		ChangedBy:   event.ChangedBy,
		ChangedAt:   event.ChangedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "complaint.status.changed", event.UserID, event.ChangedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
