package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/auth"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

// AuthService owns the findOrCreate step of the login flow.
type AuthService struct {
	users   repositories.UserRepository
	metrics *observability.Metrics
}

// NewAuthService creates a new auth service.
func NewAuthService(users repositories.UserRepository, metrics *observability.Metrics) *AuthService {
	return &AuthService{users: users, metrics: metrics}
}

// FindOrCreate upserts the user identified by (provider, providerId).
// Existing users get lastLogin touched; new users are created from the
// normalized profile.
func (s *AuthService) FindOrCreate(ctx context.Context, profile *auth.NormalizedProfile) (*entities.User, error) {
	user, err := s.users.GetByProvider(ctx, profile.Provider, profile.ProviderID)
	if err == nil {
		if touchErr := s.users.TouchLastLogin(ctx, user.ID); touchErr != nil {
			// Login still succeeds; the timestamp just stays stale.
			log.Printf("Warning: Failed to touch last login for user %s: %v", user.ID, touchErr)
		} else {
			user.LastLogin = time.Now()
		}
		observability.RecordLogin(ctx, s.metrics, string(profile.Provider))
		return user, nil
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperrors.ErrorTypeNotFound {
		return nil, err
	}

	now := time.Now()
	user = &entities.User{
		ID:             uuid.New().String(),
		AuthProvider:   profile.Provider,
		ProviderID:     profile.ProviderID,
		Email:          profile.Email,
		FirstName:      profile.FirstName,
		Gender:         profile.Gender,
		ProfilePicture: profile.ProfilePicture,
		CreatedAt:      now,
		LastLogin:      now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	observability.RecordLogin(ctx, s.metrics, string(profile.Provider))
	return user, nil
}

// GetUser loads a user by id, as stored in the session.
func (s *AuthService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}
