package usecase

import (
	"fmt"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/infra/security"
)

// SessionResult is the authenticated session handed back to the client.
// ExpiresIn is the token lifetime in whole seconds.
type SessionResult struct {
	Token     string
	ExpiresIn int
	User      domain.User
}

// SessionIssuer mints access tokens for authenticated users. Every login
// path (local, registration, federated) funnels through it so the session
// shape stays uniform.
type SessionIssuer struct {
	codec *security.TokenCodec
}

// NewSessionIssuer constructs a SessionIssuer.
func NewSessionIssuer(codec *security.TokenCodec) *SessionIssuer {
	return &SessionIssuer{codec: codec}
}

// Issue signs a token for the user and assembles the session payload.
func (i *SessionIssuer) Issue(user domain.User) (SessionResult, error) {
	token, err := i.codec.Issue(user.ID, string(user.Role), user.Admin)
	if err != nil {
		return SessionResult{}, fmt.Errorf("issue token: %w", err)
	}

	return SessionResult{
		Token:     token,
		ExpiresIn: int(i.codec.TTL().Seconds()),
		User:      user.Sanitized(),
	}, nil
}
