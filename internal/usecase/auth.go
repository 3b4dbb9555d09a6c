package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

// AuthService coordinates local credential authentication.
type AuthService struct {
	users    port.UserRepository
	sessions *SessionIssuer
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, sessions *SessionIssuer) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Login validates credentials and issues a session. Unknown accounts and
// wrong passwords collapse into the same error so callers cannot probe for
// registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (SessionResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return SessionResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SessionResult{}, ErrInvalidCredentials
		}
		return SessionResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return SessionResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return SessionResult{}, ErrInvalidCredentials
	}

	return s.sessions.Issue(*user)
}
