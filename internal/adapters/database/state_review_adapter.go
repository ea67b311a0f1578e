package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

// StateReviewAdapter implements the StateReviewRepository interface
type StateReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStateReviewAdapter creates a new state review adapter
func NewStateReviewAdapter(client *postgres.Client) repositories.StateReviewRepository {
	return &StateReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new review
func (a *StateReviewAdapter) Create(ctx context.Context, review *entities.StateReview) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":              review.ID,
		"user_id":         review.UserID,
		"user_first_name": review.UserFirstName,
		"user_gender":     string(review.UserGender),
		"state":           review.State,
		"job_title":       review.JobTitle,
		"employer":        review.Employer,
		"city":            review.City,
		"wages":           review.Wages,
		"hours_per_week":  review.HoursPerWeek,
		"rating":          review.Rating,
		"experience":      review.Experience,
		"times_used":      review.TimesUsed,
		"visit_year":      review.VisitYear,
		"tos_accepted":    review.TOSAccepted,
		"tos_accepted_at": review.TOSAcceptedAt,
		"is_approved":     review.IsApproved,
		"created_at":      review.CreatedAt,
	}

	query, args, err := a.db.Insert("state_reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build state review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create state review", err)
	}

	return nil
}

// ListByState retrieves the newest approved reviews for one state
func (a *StateReviewAdapter) ListByState(ctx context.Context, state string, limit int) ([]*entities.StateReview, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, user_first_name, user_gender, state, job_title,
			employer, city, wages, hours_per_week, rating, experience,
			times_used, visit_year, tos_accepted, tos_accepted_at,
			is_approved, created_at
		FROM state_reviews
		WHERE state = $1 AND is_approved = true
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := a.client.DB().QueryContext(ctx, query, state, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list state reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.StateReview
	for rows.Next() {
		r := &entities.StateReview{}
		var gender string
		err := rows.Scan(
			&r.ID,
			&r.UserID,
			&r.UserFirstName,
			&gender,
			&r.State,
			&r.JobTitle,
			&r.Employer,
			&r.City,
			&r.Wages,
			&r.HoursPerWeek,
			&r.Rating,
			&r.Experience,
			&r.TimesUsed,
			&r.VisitYear,
			&r.TOSAccepted,
			&r.TOSAcceptedAt,
			&r.IsApproved,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan state review", err)
		}
		r.UserGender = entities.Gender(gender)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read state reviews", err)
	}

	return reviews, nil
}

// GroupStatsByState aggregates approved reviews for a single state. Returns
// nil when the state has no approved reviews.
func (a *StateReviewAdapter) GroupStatsByState(ctx context.Context, state string) (*repositories.StateGroupStats, error) {
	query := `
		SELECT state, COUNT(*), AVG(rating), AVG(wages)
		FROM state_reviews
		WHERE state = $1 AND is_approved = true
		GROUP BY state
	`

	stats := &repositories.StateGroupStats{}
	err := a.client.DB().QueryRowContext(ctx, query, state).Scan(
		&stats.State,
		&stats.ReviewCount,
		&stats.AvgRating,
		&stats.AvgWage,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get state stats", err)
	}

	return stats, nil
}

// GroupStatsAllStates aggregates approved reviews grouped by state
func (a *StateReviewAdapter) GroupStatsAllStates(ctx context.Context) ([]repositories.StateGroupStats, error) {
	query := `
		SELECT state, COUNT(*), AVG(rating), AVG(wages)
		FROM state_reviews
		WHERE is_approved = true
		GROUP BY state
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get all state stats", err)
	}
	defer rows.Close()

	var stats []repositories.StateGroupStats
	for rows.Next() {
		s := repositories.StateGroupStats{}
		if err := rows.Scan(&s.State, &s.ReviewCount, &s.AvgRating, &s.AvgWage); err != nil {
			return nil, apperrors.NewInternalError("failed to scan state stats", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read state stats", err)
	}

	return stats, nil
}

// VisitorStatsAllStates runs the two-stage unique-visitor aggregation. The
// inner DISTINCT ON keeps each user's earliest review per state, so repeat
// submissions never inflate visitor counts or skew the revisit average.
func (a *StateReviewAdapter) VisitorStatsAllStates(ctx context.Context) ([]repositories.StateVisitorStats, error) {
	query := `
		SELECT state, COUNT(*), AVG(times_used)
		FROM (
			SELECT DISTINCT ON (state, user_id) state, user_id, times_used
			FROM state_reviews
			WHERE is_approved = true AND tos_accepted = true
			ORDER BY state, user_id, created_at
		) first_visits
		GROUP BY state
		ORDER BY COUNT(*) DESC
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get visitor stats", err)
	}
	defer rows.Close()

	var stats []repositories.StateVisitorStats
	for rows.Next() {
		s := repositories.StateVisitorStats{}
		if err := rows.Scan(&s.State, &s.TotalVisitors, &s.AvgRevisit); err != nil {
			return nil, apperrors.NewInternalError("failed to scan visitor stats", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read visitor stats", err)
	}

	return stats, nil
}

// CountApprovedBetween counts approved reviews created in [from, to)
func (a *StateReviewAdapter) CountApprovedBetween(ctx context.Context, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM state_reviews
		WHERE is_approved = true AND created_at >= $1 AND created_at < $2
	`

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count state reviews", err)
	}
	return count, nil
}
