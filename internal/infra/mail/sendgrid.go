package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/config"
	"github.com/chiragtiwari115/CityPulse/internal/infra/logger"
)

// SendGridSink delivers plain-text notification mail through SendGrid.
type SendGridSink struct {
	client *sendgrid.Client
	from   *sgmail.Email
	log    *zap.Logger
}

// NewSendGridSink constructs a SendGrid-backed mail sink.
func NewSendGridSink(cfg config.MailSettings, log *zap.Logger) (*SendGridSink, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}

	return &SendGridSink{
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		log:    log,
	}, nil
}

// Send delivers one message to every recipient in a single API call.
func (s *SendGridSink) Send(ctx context.Context, msg domain.MailMessage) error {
	if len(msg.Recipients) == 0 {
		return nil
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = msg.Subject
	m.AddContent(sgmail.NewContent("text/plain", msg.Body))

	p := sgmail.NewPersonalization()
	for _, rcpt := range msg.Recipients {
		p.AddTos(sgmail.NewEmail("", rcpt))
	}
	m.AddPersonalizations(p)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}

	s.log.Debug("mail delivered",
		zap.Int("recipients", len(msg.Recipients)),
		zap.String("subject", msg.Subject),
	)

	return nil
}

var _ port.MailSink = (*SendGridSink)(nil)

// LogSink records outbound mail in the log instead of sending it. Useful
// for development environments without a SendGrid key.
type LogSink struct {
	log *zap.Logger
}

// NewLogSink constructs a logging mail sink.
func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

// Send logs the message with masked recipient addresses.
func (s *LogSink) Send(_ context.Context, msg domain.MailMessage) error {
	masked := make([]string, 0, len(msg.Recipients))
	for _, rcpt := range msg.Recipients {
		masked = append(masked, logger.MaskEmail(rcpt))
	}

	s.log.Info("Stub mail delivered",
		zap.Strings("recipients", masked),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)

	return nil
}

var _ port.MailSink = (*LogSink)(nil)
