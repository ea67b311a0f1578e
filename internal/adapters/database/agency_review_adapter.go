package database

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

// AgencyReviewAdapter implements the AgencyReviewRepository interface
type AgencyReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAgencyReviewAdapter creates a new agency review adapter
func NewAgencyReviewAdapter(client *postgres.Client) repositories.AgencyReviewRepository {
	return &AgencyReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create persists a new review
func (a *AgencyReviewAdapter) Create(ctx context.Context, review *entities.AgencyReview) error {
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
		"id":                  review.ID,
		"user_id":             review.UserID,
		"user_first_name":     review.UserFirstName,
		"agency_id":           review.AgencyID,
		"agency_name":         review.AgencyName,
		"application_process": review.ApplicationProcess,
		"customer_service":    review.CustomerService,
		"communication":       review.Communication,
		"support_services":    review.SupportServices,
		"overall_experience":  review.OverallExperience,
		"overall_rating":      review.OverallRating,
		"usage_frequency":     review.UsageFrequency,
		"comments":            review.Comments,
		"tos_accepted_at":     review.TOSAcceptedAt,
		"ip_address":          review.IPAddress,
		"created_at":          review.CreatedAt,
	}

	query, args, err := a.db.Insert("agency_reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build agency review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create agency review", err)
	}

	return nil
}

// GroupStatsByAgency aggregates all reviews grouped by the (agency_id,
// agency_name) pair. The name is free text from the submitter, so one slug
// submitted under two spellings yields two groups.
func (a *AgencyReviewAdapter) GroupStatsByAgency(ctx context.Context) ([]repositories.AgencyGroupStats, error) {
	query := `
		SELECT
			agency_id,
			agency_name,
			COUNT(*),
			AVG(application_process),
			AVG(customer_service),
			AVG(communication),
			AVG(support_services),
			AVG(overall_experience),
			AVG(overall_rating),
			MAX(created_at)
		FROM agency_reviews
		GROUP BY agency_id, agency_name
	`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get agency stats", err)
	}
	defer rows.Close()

	var stats []repositories.AgencyGroupStats
	for rows.Next() {
		s := repositories.AgencyGroupStats{}
		err := rows.Scan(
			&s.AgencyID,
			&s.AgencyName,
			&s.ReviewCount,
			&s.AvgApplicationProcess,
			&s.AvgCustomerService,
			&s.AvgCommunication,
			&s.AvgSupportServices,
			&s.AvgOverallExperience,
			&s.AvgOverallRating,
			&s.LastReviewDate,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan agency stats", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read agency stats", err)
	}

	return stats, nil
}

// ListByAgency retrieves the newest reviews for one agency, joined with the
// submitter's current profile picture.
func (a *AgencyReviewAdapter) ListByAgency(ctx context.Context, agencyID string, limit int) ([]*entities.AgencyReviewWithProfile, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT
			r.user_first_name,
			COALESCE(u.profile_picture, ''),
			r.overall_rating,
			r.application_process,
			r.customer_service,
			r.communication,
			r.support_services,
			r.overall_experience,
			r.comments,
			r.created_at,
			r.usage_frequency
		FROM agency_reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.agency_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2
	`

	rows, err := a.client.DB().QueryContext(ctx, query, agencyID, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list agency reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.AgencyReviewWithProfile
	for rows.Next() {
		r := &entities.AgencyReviewWithProfile{}
		err := rows.Scan(
			&r.UserFirstName,
			&r.UserProfilePicture,
			&r.OverallRating,
			&r.ApplicationProcess,
			&r.CustomerService,
			&r.Communication,
			&r.SupportServices,
			&r.OverallExperience,
			&r.Comments,
			&r.CreatedAt,
			&r.UsageFrequency,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan agency review", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read agency reviews", err)
	}

	return reviews, nil
}
