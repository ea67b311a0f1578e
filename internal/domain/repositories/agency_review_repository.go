package repositories

import (
	"context"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
)

// AgencyGroupStats is a raw GROUP BY row per (agencyId, agencyName).
// Averages are unrounded; lastReviewDate is max(createdAt).
type AgencyGroupStats struct {
	AgencyID              string
	AgencyName            string
	ReviewCount           int
	AvgApplicationProcess float64
	AvgCustomerService    float64
	AvgCommunication      float64
	AvgSupportServices    float64
	AvgOverallExperience  float64
	AvgOverallRating      float64
	LastReviewDate        time.Time
}

// AgencyReviewRepository defines the interface for agency review operations
type AgencyReviewRepository interface {
	// Create persists a new review
	Create(ctx context.Context, review *entities.AgencyReview) error

	// GroupStatsByAgency aggregates all reviews grouped by agency
	GroupStatsByAgency(ctx context.Context) ([]AgencyGroupStats, error)

	// ListByAgency retrieves the newest reviews for one agency, joined with
	// the submitter's profile picture
	ListByAgency(ctx context.Context, agencyID string, limit int) ([]*entities.AgencyReviewWithProfile, error)
}
