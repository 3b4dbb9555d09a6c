package port

import (
	"context"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
)

// UserRepository exposes persistence behavior for users. Email lookups are
// expected to receive already-normalized (lower-cased) addresses.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByProviderID(ctx context.Context, providerID string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user domain.User) error
}
