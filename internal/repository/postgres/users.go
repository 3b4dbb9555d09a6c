package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiragtiwari115/CityPulse/internal/core/domain"
	"github.com/chiragtiwari115/CityPulse/internal/core/port"
	"github.com/chiragtiwari115/CityPulse/internal/repository"
)

var userColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"role",
	"is_admin",
	"provider_id",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance that executes statements within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var providerValue any
	if user.ProviderID != nil && *user.ProviderID != "" {
		providerValue = *user.ProviderID
	}

	query := r.builder.Insert("citypulse.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Username,
			user.Email,
			user.PasswordHash,
			string(user.Role),
			user.Admin,
			providerValue,
			user.CreatedAt,
			user.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return repository.Unavailable("insert user", err)
	}

	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id}, "select user by id")
}

// GetByEmail retrieves a user by normalized email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email}, "select user by email")
}

// GetByProviderID retrieves a user by its federated provider subject.
func (r *UserRepository) GetByProviderID(ctx context.Context, providerID string) (*domain.User, error) {
	return r.getBy(ctx, squirrel.Eq{"provider_id": providerID}, "select user by provider id")
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq, op string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("citypulse.users").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s sql: %w", op, err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		user     domain.User
		role     string
		provider sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Admin,
		&provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, repository.Unavailable(op, err)
	}

	user.Role = domain.Role(role)
	if provider.Valid {
		val := provider.String
		user.ProviderID = &val
	}

	return &user, nil
}

// ExistsByEmail reports whether a user row exists for the normalized email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("1").
		From("citypulse.users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists by email sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, repository.Unavailable("exists by email", err)
	}

	return true, nil
}

// Update persists mutable user fields.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	var providerValue any
	if user.ProviderID != nil && *user.ProviderID != "" {
		providerValue = *user.ProviderID
	}

	stmt, args, err := r.builder.Update("citypulse.users").
		Set("username", user.Username).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("role", string(user.Role)).
		Set("is_admin", user.Admin).
		Set("provider_id", providerValue).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return repository.Unavailable("update user", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
