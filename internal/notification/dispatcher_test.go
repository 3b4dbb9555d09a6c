package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []domain.MailMessage
	err      error
	block    chan struct{}
}

func (s *recordingSink) Send(ctx context.Context, msg domain.MailMessage) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.err
}

func (s *recordingSink) sent() []domain.MailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.MailMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

func TestDispatcherDeliversQueuedMessages(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 8, time.Second, zap.NewNop())

	d.Enqueue(domain.MailMessage{
		Recipients: []string{"citizen@example.com"},
		Subject:    "Complaint Received",
		Body:       "body",
	})
	d.Enqueue(domain.MailMessage{
		Recipients: []string{"owner@example.com", "contact@example.com"},
		Subject:    "Complaint Status Updated",
		Body:       "body",
	})

	d.Close()

	sent := sink.sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 delivered messages, got %d", len(sent))
	}
	if len(sent[1].Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(sent[1].Recipients))
	}
}

func TestDispatcherIgnoresEmptyRecipientList(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 8, time.Second, zap.NewNop())

	d.Enqueue(domain.MailMessage{Subject: "no recipients"})
	d.Close()

	if len(sink.sent()) != 0 {
		t.Fatal("message without recipients must be dropped")
	}
}

func TestDispatcherSwallowsSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("provider down")}
	d := NewDispatcher(sink, 8, time.Second, zap.NewNop())

	d.Enqueue(domain.MailMessage{
		Recipients: []string{"citizen@example.com"},
		Subject:    "Complaint Received",
	})
	d.Close()

	if len(sink.sent()) != 1 {
		t.Fatal("sink was not invoked")
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	sink := &recordingSink{block: block}
	d := NewDispatcher(sink, 1, time.Second, zap.NewNop())

	// First message occupies the worker, second fills the queue, the
	// third must be dropped without blocking.
	for i := 0; i < 3; i++ {
		done := make(chan struct{})
		go func() {
			d.Enqueue(domain.MailMessage{
				Recipients: []string{"citizen@example.com"},
				Subject:    "Complaint Received",
			})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Enqueue blocked")
		}
	}

	close(block)
	d.Close()
}

func TestEnqueueAfterCloseDoesNotBlock(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 1, time.Second, zap.NewNop())
	d.Close()

	done := make(chan struct{})
	go func() {
		d.Enqueue(domain.MailMessage{
			Recipients: []string{"citizen@example.com"},
			Subject:    "Complaint Received",
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked after Close")
	}
}
