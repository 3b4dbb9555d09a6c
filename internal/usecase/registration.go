package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/logger"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

const (
	maxUsernameLength = 150
	maxEmailLength    = 150
)

// RegistrationService handles new citizen onboarding.
type RegistrationService struct {
	users             port.UserRepository
	sessions          *SessionIssuer
	events            port.EventPublisher
	passwordValidator *security.PasswordValidator
	log               *zap.Logger
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	users port.UserRepository,
	sessions *SessionIssuer,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &RegistrationService{
		users:             users,
		sessions:          sessions,
		events:            events,
		passwordValidator: validator,
		log:               log,
	}
}

// Register creates a citizen account and immediately issues a session, so
// sign-up doubles as the first login.
func (s *RegistrationService) Register(ctx context.Context, username, email, password string) (SessionResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)

	switch {
	case username == "":
		return SessionResult{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	case len([]rune(username)) > maxUsernameLength:
		return SessionResult{}, fmt.Errorf("%w: username exceeds %d characters", ErrInvalidInput, maxUsernameLength)
	case email == "" || !strings.Contains(email, "@"):
		return SessionResult{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	case len(email) > maxEmailLength:
		return SessionResult{}, fmt.Errorf("%w: email exceeds %d characters", ErrInvalidInput, maxEmailLength)
	case password == "":
		return SessionResult{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if err := s.passwordValidator.Validate(password); err != nil {
		return SessionResult{}, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return SessionResult{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return SessionResult{}, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return SessionResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleCitizen,
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the existence check;
		// the unique index is the authority.
		if errors.Is(err, repository.ErrConflict) {
			return SessionResult{}, ErrEmailTaken
		}
		return SessionResult{}, fmt.Errorf("create user: %w", err)
	}

	s.publishRegistered(ctx, user, "password")

	return s.sessions.Issue(user)
}

func (s *RegistrationService) publishRegistered(ctx context.Context, user domain.User, method string) {
	if s.events == nil {
		return
	}

	event := domain.UserRegisteredEvent{
		EventID:            uuid.NewString(),
		UserID:             user.ID,
		Username:           user.Username,
		Email:              user.Email,
		Role:               string(user.Role),
		RegisteredAt:       user.CreatedAt,
		RegistrationMethod: method,
	}

	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.log.Warn("publish user registered event failed",
			zap.Error(err),
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
		)
	}
}
