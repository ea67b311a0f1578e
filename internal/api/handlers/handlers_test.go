package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

func testUser() *entities.User {
	return &entities.User{
		ID:             "user-1",
		AuthProvider:   entities.AuthProviderGoogle,
		ProviderID:     "google-123",
		Email:          "jane@example.com",
		FirstName:      "Jane",
		Gender:         entities.GenderFemale,
		ProfilePicture: "https://example.com/jane.png",
		CreatedAt:      time.Now(),
		LastLogin:      time.Now(),
	}
}

// authedRequest builds a request whose context already carries the given
// user, mimicking what the session middleware does in production.
func authedRequest(method, target string, body io.Reader, user *entities.User) *http.Request {
	r := httptest.NewRequest(method, target, body)
	if user != nil {
		r = r.WithContext(middleware.WithUser(r.Context(), user))
	}
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

type fakeStateReviewRepo struct {
	created  []*entities.StateReview
	listed   []*entities.StateReview
	groupOne *repositories.StateGroupStats
	groupAll []repositories.StateGroupStats
	visitors []repositories.StateVisitorStats
	err      error
}

func (f *fakeStateReviewRepo) Create(ctx context.Context, review *entities.StateReview) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, review)
	return nil
}

func (f *fakeStateReviewRepo) ListByState(ctx context.Context, state string, limit int) ([]*entities.StateReview, error) {
	return f.listed, f.err
}

func (f *fakeStateReviewRepo) GroupStatsByState(ctx context.Context, state string) (*repositories.StateGroupStats, error) {
	return f.groupOne, f.err
}

func (f *fakeStateReviewRepo) GroupStatsAllStates(ctx context.Context) ([]repositories.StateGroupStats, error) {
	return f.groupAll, f.err
}

func (f *fakeStateReviewRepo) VisitorStatsAllStates(ctx context.Context) ([]repositories.StateVisitorStats, error) {
	return f.visitors, f.err
}

func (f *fakeStateReviewRepo) CountApprovedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return len(f.created), f.err
}

type fakeAgencyReviewRepo struct {
	created  []*entities.AgencyReview
	groupAll []repositories.AgencyGroupStats
	listed   []*entities.AgencyReviewWithProfile
	err      error
}

func (f *fakeAgencyReviewRepo) Create(ctx context.Context, review *entities.AgencyReview) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, review)
	return nil
}

func (f *fakeAgencyReviewRepo) GroupStatsByAgency(ctx context.Context) ([]repositories.AgencyGroupStats, error) {
	return f.groupAll, f.err
}

func (f *fakeAgencyReviewRepo) ListByAgency(ctx context.Context, agencyID string, limit int) ([]*entities.AgencyReviewWithProfile, error) {
	return f.listed, f.err
}

type fakeUserRepo struct {
	users        map[string]*entities.User
	totalUsers   int
	createdCount int
	activeCount  int
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	if f.users == nil {
		f.users = make(map[string]*entities.User)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (f *fakeUserRepo) GetByProvider(ctx context.Context, provider entities.AuthProvider, providerID string) (*entities.User, error) {
	for _, user := range f.users {
		if user.AuthProvider == provider && user.ProviderID == providerID {
			return user, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (f *fakeUserRepo) TouchLastLogin(ctx context.Context, id string) error { return nil }

func (f *fakeUserRepo) CountAll(ctx context.Context) (int, error) { return f.totalUsers, nil }

func (f *fakeUserRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	return f.createdCount, nil
}

func (f *fakeUserRepo) CountActiveBetween(ctx context.Context, from, to time.Time) (int, error) {
	return f.activeCount, nil
}
