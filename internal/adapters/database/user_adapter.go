package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return apperrors.NewInternalError("user is nil", fmt.Errorf("user is nil"))
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.LastLogin.IsZero() {
		user.LastLogin = now
	}

	record := goqu.Record{
		"id":              user.ID,
		"auth_provider":   string(user.AuthProvider),
		"provider_id":     user.ProviderID,
		"email":           user.Email,
		"first_name":      user.FirstName,
		"gender":          string(user.Gender),
		"profile_picture": sql.NullString{String: user.ProfilePicture, Valid: user.ProfilePicture != ""},
		"created_at":      user.CreatedAt,
		"last_login":      user.LastLogin,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	query := `
		SELECT id, auth_provider, provider_id, email, first_name, gender,
			COALESCE(profile_picture, ''), created_at, last_login
		FROM users
		WHERE id = $1
	`

	user, err := a.scanUser(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}

// GetByProvider retrieves a user by (provider, providerId)
func (a *UserAdapter) GetByProvider(ctx context.Context, provider entities.AuthProvider, providerID string) (*entities.User, error) {
	query := `
		SELECT id, auth_provider, provider_id, email, first_name, gender,
			COALESCE(profile_picture, ''), created_at, last_login
		FROM users
		WHERE auth_provider = $1 AND provider_id = $2
	`

	user, err := a.scanUser(a.client.DB().QueryRowContext(ctx, query, string(provider), providerID))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no %s user with provider id %s", provider, providerID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user by provider", err)
	}

	return user, nil
}

// TouchLastLogin updates lastLogin to now
func (a *UserAdapter) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`

	result, err := a.client.DB().ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return apperrors.NewInternalError("failed to update last login", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}

	return nil
}

// CountAll returns the total number of registered users
func (a *UserAdapter) CountAll(ctx context.Context) (int, error) {
	var count int
	err := a.client.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count users", err)
	}
	return count, nil
}

// CountCreatedBetween counts users created in [from, to)
func (a *UserAdapter) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at < $2`

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count new users", err)
	}
	return count, nil
}

// CountActiveBetween counts users whose lastLogin falls in [from, to)
func (a *UserAdapter) CountActiveBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE last_login >= $1 AND last_login < $2`

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count active users", err)
	}
	return count, nil
}

func (a *UserAdapter) scanUser(row *sql.Row) (*entities.User, error) {
	user := &entities.User{}
	var provider, gender string
	err := row.Scan(
		&user.ID,
		&provider,
		&user.ProviderID,
		&user.Email,
		&user.FirstName,
		&gender,
		&user.ProfilePicture,
		&user.CreatedAt,
		&user.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	user.AuthProvider = entities.AuthProvider(provider)
	user.Gender = entities.Gender(gender)
	return user, nil
}
