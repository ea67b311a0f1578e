package repositories

import (
	"context"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
)

// StateGroupStats is a raw GROUP BY row for states that have reviews.
// Averages are unrounded; the service layer owns presentation rounding.
type StateGroupStats struct {
	State       string
	ReviewCount int
	AvgRating   float64
	AvgWage     float64
}

// StateVisitorStats is a raw analytics row: unique approved+TOS reviewers per
// state and the mean of each reviewer's earliest timesUsed value.
type StateVisitorStats struct {
	State         string
	TotalVisitors int
	AvgRevisit    float64
}

// StateReviewRepository defines the interface for state review operations
type StateReviewRepository interface {
	// Create persists a new review
	Create(ctx context.Context, review *entities.StateReview) error

	// ListByState retrieves the newest approved reviews for one state
	ListByState(ctx context.Context, state string, limit int) ([]*entities.StateReview, error)

	// GroupStatsByState aggregates approved reviews for a single state
	GroupStatsByState(ctx context.Context, state string) (*StateGroupStats, error)

	// GroupStatsAllStates aggregates approved reviews grouped by state;
	// states without reviews are absent from the result
	GroupStatsAllStates(ctx context.Context) ([]StateGroupStats, error)

	// VisitorStatsAllStates runs the two-stage unique-visitor aggregation
	// over approved reviews with TOS accepted
	VisitorStatsAllStates(ctx context.Context) ([]StateVisitorStats, error)

	// CountApprovedBetween counts approved reviews created in [from, to)
	CountApprovedBetween(ctx context.Context, from, to time.Time) (int, error)
}
