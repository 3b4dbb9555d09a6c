package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/infra/config"
	"github.com/chiragtiwari115/CityPulse/internal/infra/logger"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

const federatedPasswordBytes = 32

// FederationService completes the Auth0 authorization-code flow and
// reconciles the upstream identity with the local user store.
type FederationService struct {
	users    port.UserRepository
	sessions *SessionIssuer
	events   port.EventPublisher
	cfg      config.Auth0Settings
	client   *http.Client
	log      *zap.Logger
}

// NewFederationService constructs a FederationService.
func NewFederationService(
	users port.UserRepository,
	sessions *SessionIssuer,
	events port.EventPublisher,
	cfg config.Auth0Settings,
	log *zap.Logger,
) *FederationService {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &FederationService{
		users:    users,
		sessions: sessions,
		events:   events,
		cfg:      cfg,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type userInfo struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

// HandleCallback exchanges the authorization code, fetches the upstream
// profile, upserts the local account, and issues a session.
func (s *FederationService) HandleCallback(ctx context.Context, code string) (SessionResult, error) {
	if strings.TrimSpace(code) == "" {
		return SessionResult{}, fmt.Errorf("%w: authorization code is required", ErrInvalidInput)
	}

	accessToken, err := s.exchangeCode(ctx, code)
	if err != nil {
		return SessionResult{}, err
	}

	info, err := s.fetchUserInfo(ctx, accessToken)
	if err != nil {
		return SessionResult{}, err
	}

	user, err := s.upsertFederatedUser(ctx, info)
	if err != nil {
		return SessionResult{}, err
	}

	return s.sessions.Issue(*user)
}

func (s *FederationService) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.CallbackURL)

	endpoint := s.endpointBase() + "/oauth/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("auth0 code exchange failed", zap.Error(err))
		return "", ErrUpstreamAuth
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("auth0 code exchange rejected", zap.Int("status", resp.StatusCode))
		return "", ErrUpstreamAuth
	}

	var token tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&token); err != nil {
		s.log.Error("auth0 token response malformed", zap.Error(err))
		return "", ErrUpstreamAuth
	}

	if token.AccessToken == "" {
		return "", ErrUpstreamAuth
	}

	return token.AccessToken, nil
}

func (s *FederationService) fetchUserInfo(ctx context.Context, accessToken string) (userInfo, error) {
	endpoint := s.endpointBase() + "/userinfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return userInfo{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("auth0 userinfo fetch failed", zap.Error(err))
		return userInfo{}, ErrUpstreamAuth
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("auth0 userinfo rejected", zap.Int("status", resp.StatusCode))
		return userInfo{}, ErrUpstreamAuth
	}

	var info userInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		s.log.Error("auth0 userinfo response malformed", zap.Error(err))
		return userInfo{}, ErrUpstreamAuth
	}

	if info.Sub == "" || info.Email == "" {
		return userInfo{}, ErrUpstreamAuth
	}

	return info, nil
}

// endpointBase keeps plain tenant domains on https while allowing a full URL
// to be configured directly.
func (s *FederationService) endpointBase() string {
	domainValue := strings.TrimRight(s.cfg.Domain, "/")
	if strings.Contains(domainValue, "://") {
		return domainValue
	}
	return "https://" + domainValue
}

func (s *FederationService) upsertFederatedUser(ctx context.Context, info userInfo) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))
	name := resolveDisplayName(info)

	existing, err := s.users.GetByProviderID(ctx, info.Sub)
	if err == nil {
		existing.Email = email
		existing.Username = name
		existing.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, *existing); err != nil {
			return nil, fmt.Errorf("update federated user: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup federated user: %w", err)
	}

	// A local account with the same email gets linked to the upstream
	// subject instead of colliding on the unique email index.
	byEmail, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		sub := info.Sub
		byEmail.ProviderID = &sub
		byEmail.Username = name
		byEmail.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, *byEmail); err != nil {
			return nil, fmt.Errorf("link federated user: %w", err)
		}
		return byEmail, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	return s.createFederatedUser(ctx, info.Sub, email, name)
}

func (s *FederationService) createFederatedUser(ctx context.Context, sub, email, name string) (*domain.User, error) {
	// Federated accounts never authenticate locally; the stored digest is
	// an opaque random value that no password can verify against.
	placeholder, err := security.GenerateSecureToken(federatedPasswordBytes)
	if err != nil {
		return nil, fmt.Errorf("generate placeholder digest: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     name,
		Email:        email,
		PasswordHash: placeholder,
		Role:         domain.RoleCitizen,
		Admin:        false,
		ProviderID:   &sub,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create federated user: %w", err)
	}

	s.publishRegistered(ctx, user)

	return &user, nil
}

func (s *FederationService) publishRegistered(ctx context.Context, user domain.User) {
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
		RegistrationMethod: "auth0",
	}

	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.log.Warn("publish user registered event failed",
			zap.Error(err),
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
		)
	}
}

func resolveDisplayName(info userInfo) string {
	if name := strings.TrimSpace(info.Name); name != "" {
		return name
	}
	if nickname := strings.TrimSpace(info.Nickname); nickname != "" {
		return nickname
	}
	return strings.ToLower(strings.TrimSpace(info.Email))
}
