package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

const strongRegistrationPassword = "Sup3r!SecurePass#7890"

func newRegistrationService(users *mockUserRepository, events *mockEventPublisher) *RegistrationService {
	return NewRegistrationService(users, newTestSessionIssuer(), events, nil, zap.NewNop())
}

func TestRegisterSuccess(t *testing.T) {
	users := newMockUserRepository()
	events := &mockEventPublisher{}
	svc := newRegistrationService(users, events)

	session, err := svc.Register(context.Background(), "jane", "Jane@Example.COM", strongRegistrationPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if users.createCalls != 1 {
		t.Fatalf("expected 1 create call, got %d", users.createCalls)
	}
	created := users.createdUser
	if created.Email != "jane@example.com" {
		t.Fatalf("email was not normalized: %s", created.Email)
	}
	if created.Role != domain.RoleCitizen || created.Admin {
		t.Fatal("self registration must produce a non-admin citizen")
	}
	if created.PasswordHash == strongRegistrationPassword {
		t.Fatal("password stored in plain text")
	}

	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	if session.User.PasswordHash != "" {
		t.Fatal("session user must not carry the password hash")
	}

	if len(events.registered) != 1 {
		t.Fatalf("expected 1 registration event, got %d", len(events.registered))
	}
	if events.registered[0].RegistrationMethod != "password" {
		t.Fatalf("unexpected registration method: %s", events.registered[0].RegistrationMethod)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newMockUserRepository()
	seedUser(t, users, "jane@example.com", strongRegistrationPassword, false)

	svc := newRegistrationService(users, &mockEventPublisher{})

	_, err := svc.Register(context.Background(), "jane", "jane@example.com", strongRegistrationPassword)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterConcurrentDuplicateMapsConflict(t *testing.T) {
	users := newMockUserRepository()
	users.createErr = repository.ErrConflict

	svc := newRegistrationService(users, &mockEventPublisher{})

	_, err := svc.Register(context.Background(), "jane", "jane@example.com", strongRegistrationPassword)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newRegistrationService(newMockUserRepository(), &mockEventPublisher{})

	_, err := svc.Register(context.Background(), "jane", "jane@example.com", "short")
	if !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	svc := newRegistrationService(newMockUserRepository(), &mockEventPublisher{})

	cases := []struct {
		name     string
		username string
		email    string
	}{
		{"missing username", "", "jane@example.com"},
		{"missing email", "jane", ""},
		{"malformed email", "jane", "not-an-email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, strongRegistrationPassword)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegisterEventFailureDoesNotFailRegistration(t *testing.T) {
	users := newMockUserRepository()
	events := &mockEventPublisher{err: errors.New("broker down")}

	svc := newRegistrationService(users, events)

	if _, err := svc.Register(context.Background(), "jane", "jane@example.com", strongRegistrationPassword); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
}
