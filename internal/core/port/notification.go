package port

import (
	"context"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
)

// MailSink delivers a single mail message to the outbound provider.
type MailSink interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}

// Notifier accepts messages for asynchronous, best-effort delivery.
// Enqueue must never block the caller and must never return an error.
type Notifier interface {
	Enqueue(msg domain.MailMessage)
}
