package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
)

func seedUser(t *testing.T, users *mockUserRepository, email, password string, admin bool) domain.User {
	t.Helper()

	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	role := domain.RoleCitizen
	if admin {
		role = domain.RoleAdmin
	}

	user := domain.User{
		ID:           "user-" + email,
		Username:     "tester",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Admin:        admin,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	users.add(user)
	return user
}

func TestLoginSuccess(t *testing.T) {
	users := newMockUserRepository()
	seedUser(t, users, "jane@example.com", "tr4vel-M0nkey-lamp", false)

	svc := NewAuthService(users, newTestSessionIssuer())

	session, err := svc.Login(context.Background(), "Jane@Example.com", "tr4vel-M0nkey-lamp")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if session.Token == "" {
		t.Fatal("expected a signed token")
	}
	if session.ExpiresIn != 3600 {
		t.Fatalf("unexpected expires_in: %d", session.ExpiresIn)
	}
	if session.User.PasswordHash != "" {
		t.Fatal("session user must not carry the password hash")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepository(), newTestSessionIssuer())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMockUserRepository()
	seedUser(t, users, "jane@example.com", "tr4vel-M0nkey-lamp", false)

	svc := NewAuthService(users, newTestSessionIssuer())

	_, err := svc.Login(context.Background(), "jane@example.com", "not-the-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginFederatedPlaceholderDigest(t *testing.T) {
	users := newMockUserRepository()

	placeholder, err := security.GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken returned error: %v", err)
	}

	sub := "auth0|abc"
	users.add(domain.User{
		ID:           "user-fed",
		Username:     "fed",
		Email:        "fed@example.com",
		PasswordHash: placeholder,
		Role:         domain.RoleCitizen,
		ProviderID:   &sub,
	})

	svc := NewAuthService(users, newTestSessionIssuer())

	_, err = svc.Login(context.Background(), "fed@example.com", placeholder)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginEmptyInputs(t *testing.T) {
	svc := NewAuthService(newMockUserRepository(), newTestSessionIssuer())

	if _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
