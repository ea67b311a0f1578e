package repositories

import (
	"context"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByProvider retrieves a user by (provider, providerId), the unique
	// identity key established at first OAuth login
	GetByProvider(ctx context.Context, provider entities.AuthProvider, providerID string) (*entities.User, error)

	// TouchLastLogin updates lastLogin to now
	TouchLastLogin(ctx context.Context, id string) error

	// CountAll returns the total number of registered users
	CountAll(ctx context.Context) (int, error)

	// CountCreatedBetween counts users created in [from, to)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)

	// CountActiveBetween counts users whose lastLogin falls in [from, to)
	CountActiveBetween(ctx context.Context, from, to time.Time) (int, error)
}
