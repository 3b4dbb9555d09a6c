// Package notification hands mail messages to a background worker so that
// HTTP requests never wait on, or fail because of, the mail provider.
package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/logger"
)

const defaultQueueSize = 256

// Dispatcher is a best-effort asynchronous mail dispatcher. Messages are
// queued on a bounded channel and delivered by a single worker goroutine;
// when the queue is full the message is dropped and logged, never blocking
// the caller.
type Dispatcher struct {
	sink        port.MailSink
	log         *zap.Logger
	queue       chan domain.MailMessage
	sendTimeout time.Duration

	closeOnce sync.Once
	done      chan struct{}
	drained   chan struct{}
}

// NewDispatcher starts the worker goroutine and returns the dispatcher.
func NewDispatcher(sink port.MailSink, queueSize int, sendTimeout time.Duration, log *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		sink:        sink,
		log:         log,
		queue:       make(chan domain.MailMessage, queueSize),
		sendTimeout: sendTimeout,
		done:        make(chan struct{}),
		drained:     make(chan struct{}),
	}

	go d.run()

	return d
}

// Enqueue accepts a message for delivery. It never blocks and never fails;
// a full queue drops the message with a warning.
func (d *Dispatcher) Enqueue(msg domain.MailMessage) {
	if len(msg.Recipients) == 0 {
		return
	}

	select {
	case <-d.done:
		d.log.Warn("mail dispatcher closed, dropping message",
			zap.String("subject", msg.Subject),
		)
	default:
		select {
		case d.queue <- msg:
		default:
			d.log.Warn("mail queue full, dropping message",
				zap.String("subject", msg.Subject),
				zap.Int("recipients", len(msg.Recipients)),
			)
		}
	}
}

func (d *Dispatcher) run() {
	defer close(d.drained)

	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.done:
			// Drain whatever was queued before Close.
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(msg domain.MailMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.sink.Send(ctx, msg); err != nil {
		masked := make([]string, 0, len(msg.Recipients))
		for _, rcpt := range msg.Recipients {
			masked = append(masked, logger.MaskEmail(rcpt))
		}

		d.log.Error("mail delivery failed",
			zap.Error(err),
			zap.Strings("recipients", masked),
			zap.String("subject", msg.Subject),
		)
	}
}

// Close stops accepting new messages, drains the queue, and waits for the
// worker to finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	<-d.drained
}

var _ port.Notifier = (*Dispatcher)(nil)
