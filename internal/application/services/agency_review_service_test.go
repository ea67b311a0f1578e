package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

type fakeAgencyReviewRepo struct {
	created []*entities.AgencyReview
	groups  []repositories.AgencyGroupStats
	listed  []*entities.AgencyReviewWithProfile
	err     error
}

func (f *fakeAgencyReviewRepo) Create(ctx context.Context, review *entities.AgencyReview) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, review)
	return nil
}

func (f *fakeAgencyReviewRepo) GroupStatsByAgency(ctx context.Context) ([]repositories.AgencyGroupStats, error) {
	return f.groups, f.err
}

func (f *fakeAgencyReviewRepo) ListByAgency(ctx context.Context, agencyID string, limit int) ([]*entities.AgencyReviewWithProfile, error) {
	return f.listed, f.err
}

func validAgencyInput() AgencyReviewInput {
	return AgencyReviewInput{
		AgencyID:           "InterExchange",
		AgencyName:         "InterExchange",
		ApplicationProcess: 4,
		CustomerService:    5,
		Communication:      3,
		SupportServices:    4,
		OverallExperience:  5,
		UsageFrequency:     2,
		Comments:           "Placement went smoothly and the support team answered quickly.",
		TOSAccepted:        true,
	}
}

func TestAgencyReviewService_Submit_ComputesOverallRating(t *testing.T) {
	repo := &fakeAgencyReviewRepo{}
	svc := NewAgencyReviewService(repo, nil, nil, nil)

	review, err := svc.Submit(context.Background(), testUser(), validAgencyInput(), "203.0.113.7")
	require.NoError(t, err)

	// mean of {4,5,3,4,5} = 4.2
	assert.Equal(t, 4.2, review.OverallRating)
	assert.Equal(t, "interexchange", review.AgencyID, "agency id lowercased")
	assert.Equal(t, "203.0.113.7", review.IPAddress)
	assert.False(t, review.TOSAcceptedAt.IsZero())
}

func TestAgencyReviewService_Submit_ClientOverallRatingKept(t *testing.T) {
	repo := &fakeAgencyReviewRepo{}
	svc := NewAgencyReviewService(repo, nil, nil, nil)

	input := validAgencyInput()
	input.OverallRating = 3.74

	review, err := svc.Submit(context.Background(), testUser(), input, "")
	require.NoError(t, err)
	assert.Equal(t, 3.7, review.OverallRating)
}

func TestAgencyReviewService_Submit_CommentLength(t *testing.T) {
	repo := &fakeAgencyReviewRepo{}
	svc := NewAgencyReviewService(repo, nil, nil, nil)

	t.Run("19 characters rejected", func(t *testing.T) {
		input := validAgencyInput()
		input.Comments = "1234567890123456789"

		_, err := svc.Submit(context.Background(), testUser(), input, "")
		require.Error(t, err)

		vErrs, ok := err.(*apperrors.ValidationErrors)
		require.True(t, ok)
		found := false
		for _, msg := range vErrs.Errors {
			if strings.Contains(msg, "at least 20 characters") {
				found = true
			}
		}
		assert.True(t, found, "error must mention the minimum length")
	})

	t.Run("20 characters accepted", func(t *testing.T) {
		input := validAgencyInput()
		input.Comments = "12345678901234567890"

		_, err := svc.Submit(context.Background(), testUser(), input, "")
		require.NoError(t, err)
	})

	t.Run("whitespace collapse applies before measuring", func(t *testing.T) {
		input := validAgencyInput()
		input.Comments = "12345   67890\n\t12345 678"

		review, err := svc.Submit(context.Background(), testUser(), input, "")
		require.NoError(t, err)
		assert.Equal(t, "12345 67890 12345 678", review.Comments)
	})
}

func TestAgencyReviewService_Submit_NoDeduplication(t *testing.T) {
	repo := &fakeAgencyReviewRepo{}
	svc := NewAgencyReviewService(repo, nil, nil, nil)

	// Repeat submissions by the same user for the same agency are all kept.
	_, err := svc.Submit(context.Background(), testUser(), validAgencyInput(), "")
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), testUser(), validAgencyInput(), "")
	require.NoError(t, err)

	assert.Len(t, repo.created, 2)
}

func TestAgencyReviewService_Submit_AccumulatesAllErrors(t *testing.T) {
	svc := NewAgencyReviewService(&fakeAgencyReviewRepo{}, nil, nil, nil)

	_, err := svc.Submit(context.Background(), testUser(), AgencyReviewInput{}, "")
	require.Error(t, err)

	vErrs, ok := err.(*apperrors.ValidationErrors)
	require.True(t, ok)
	assert.Contains(t, vErrs.Errors, "Terms of Service must be accepted before submitting a review.")
	assert.Contains(t, vErrs.Errors, "Agency identifier is required.")
	assert.Contains(t, vErrs.Errors, "Agency name is required.")
	assert.Contains(t, vErrs.Errors, "Application process rating must be an integer between 1 and 5.")
	assert.Contains(t, vErrs.Errors, "Usage frequency must be between 1 and 5.")
	assert.Contains(t, vErrs.Errors, "Comments must be at least 20 characters.")
}

func TestAgencyReviewService_GetRankings_SortAndTieBreak(t *testing.T) {
	now := time.Now()
	repo := &fakeAgencyReviewRepo{
		groups: []repositories.AgencyGroupStats{
			{AgencyID: "beta", AgencyName: "Beta", ReviewCount: 3, AvgOverallRating: 4.21, LastReviewDate: now},
			{AgencyID: "alpha", AgencyName: "Alpha", ReviewCount: 3, AvgOverallRating: 4.24, LastReviewDate: now},
			{AgencyID: "gamma", AgencyName: "Gamma", ReviewCount: 8, AvgOverallRating: 4.19, LastReviewDate: now.Add(-40 * 24 * time.Hour)},
		},
	}
	svc := NewAgencyReviewService(repo, nil, nil, nil)

	rankings, err := svc.GetRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	// All three round to 4.2: count desc breaks the first tie, id asc the second.
	assert.Equal(t, "gamma", rankings[0].ID)
	assert.Equal(t, "alpha", rankings[1].ID)
	assert.Equal(t, "beta", rankings[2].ID)

	assert.True(t, rankings[1].RecentActivity)
	assert.False(t, rankings[0].RecentActivity, "40-day-old last review is not recent")
	assert.True(t, rankings[0].Verified)
}

func TestAgencyReviewService_GetRankings_NameSpellingsStaySeparate(t *testing.T) {
	now := time.Now()
	repo := &fakeAgencyReviewRepo{
		groups: []repositories.AgencyGroupStats{
			{AgencyID: "abc", AgencyName: "ABC Travel", ReviewCount: 2, AvgOverallRating: 4.0, LastReviewDate: now},
			{AgencyID: "abc", AgencyName: "abc travel ltd", ReviewCount: 2, AvgOverallRating: 4.0, LastReviewDate: now},
		},
	}
	svc := NewAgencyReviewService(repo, nil, nil, nil)

	rankings, err := svc.GetRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 2, "one slug under two name spellings ranks as two entries")

	// Identical rating, count and id: name ascending keeps the order total.
	assert.Equal(t, "ABC Travel", rankings[0].Name)
	assert.Equal(t, "abc travel ltd", rankings[1].Name)
}

func TestAgencyReviewService_GetRankings_CachesResult(t *testing.T) {
	now := time.Now()
	repo := &fakeAgencyReviewRepo{
		groups: []repositories.AgencyGroupStats{
			{AgencyID: "ciee", AgencyName: "CIEE", ReviewCount: 2, AvgOverallRating: 3.5, LastReviewDate: now},
		},
	}
	cache := newFakeCacheProvider()
	svc := NewAgencyReviewService(repo, cache, nil, nil)

	first, err := svc.GetRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	exists, err := cache.Exists(context.Background(), RankingsCacheKey)
	require.NoError(t, err)
	assert.True(t, exists)

	// Second read is served from cache, not the repository.
	repo.groups = nil
	second, err := svc.GetRankings(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "ciee", second[0].ID)
}

func TestAgencyReviewService_ListByAgency_RequiresID(t *testing.T) {
	svc := NewAgencyReviewService(&fakeAgencyReviewRepo{}, nil, nil, nil)

	_, err := svc.ListByAgency(context.Background(), "   ")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}
