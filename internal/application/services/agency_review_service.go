package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

const (
	recentActivityWindow = 30 * 24 * time.Hour

	// RankingsCacheKey holds the serialized rankings payload. New agency
	// submissions invalidate it via the event bus (CacheInvalidationService),
	// so the TTL is only a backstop.
	RankingsCacheKey     = "cache:agency_rankings"
	rankingsCacheTTLSecs = 300
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// AgencyReviewInput is the submission payload for an agency review.
type AgencyReviewInput struct {
	AgencyID           string  `json:"agencyId"`
	AgencyName         string  `json:"agencyName"`
	ApplicationProcess int     `json:"applicationProcess"`
	CustomerService    int     `json:"customerService"`
	Communication      int     `json:"communication"`
	SupportServices    int     `json:"supportServices"`
	OverallExperience  int     `json:"overallExperience"`
	OverallRating      float64 `json:"overallRating"`
	UsageFrequency     int     `json:"usageFrequency"`
	Comments           string  `json:"comments"`
	TOSAccepted        bool    `json:"tosAccepted"`
}

// AgencyReviewService handles agency review submission and rankings.
type AgencyReviewService struct {
	repo     repositories.AgencyReviewRepository
	cache    providers.CacheProvider
	eventBus providers.EventBus
	metrics  *observability.Metrics
}

// NewAgencyReviewService creates a new agency review service. cache is
// optional; when nil every rankings request hits the database.
func NewAgencyReviewService(repo repositories.AgencyReviewRepository, cache providers.CacheProvider, eventBus providers.EventBus, metrics *observability.Metrics) *AgencyReviewService {
	return &AgencyReviewService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		metrics:  metrics,
	}
}

// Submit validates and persists an agency review. ipAddress is the caller's
// resolved client IP, recorded for abuse follow-up only.
func (s *AgencyReviewService) Submit(ctx context.Context, user *entities.User, input AgencyReviewInput, ipAddress string) (*entities.AgencyReview, error) {
	vErrs := &apperrors.ValidationErrors{}

	if !input.TOSAccepted {
		vErrs.Add("Terms of Service must be accepted before submitting a review.")
	}
	if strings.TrimSpace(input.AgencyID) == "" {
		vErrs.Add("Agency identifier is required.")
	}
	if name := strings.TrimSpace(input.AgencyName); name == "" {
		vErrs.Add("Agency name is required.")
	} else if len(name) > 300 {
		vErrs.Add("Agency name must be 300 characters or fewer.")
	}

	validateRating(input.ApplicationProcess, "Application process rating", vErrs)
	validateRating(input.CustomerService, "Customer service rating", vErrs)
	validateRating(input.Communication, "Communication rating", vErrs)
	validateRating(input.SupportServices, "Support services rating", vErrs)
	validateRating(input.OverallExperience, "Overall experience rating", vErrs)

	if input.UsageFrequency < 1 || input.UsageFrequency > 5 {
		vErrs.Add("Usage frequency must be between 1 and 5.")
	}

	comments := collapseWhitespace(input.Comments)
	if len(comments) < 20 {
		vErrs.Add("Comments must be at least 20 characters.")
	} else if len(comments) > 2000 {
		vErrs.Add("Comments must be 2000 characters or fewer.")
	}

	if vErrs.HasErrors() {
		return nil, vErrs
	}

	// A zero client value means "compute it": the composite is the plain
	// mean of the five category scores at one decimal.
	overallRating := input.OverallRating
	if overallRating == 0 {
		sum := input.ApplicationProcess + input.CustomerService + input.Communication +
			input.SupportServices + input.OverallExperience
		overallRating = float64(sum) / 5
	}
	overallRating = round1(overallRating)

	now := time.Now()
	review := &entities.AgencyReview{
		ID:                 uuid.New().String(),
		UserID:             user.ID,
		UserFirstName:      user.FirstName,
		AgencyID:           strings.ToLower(strings.TrimSpace(input.AgencyID)),
		AgencyName:         strings.TrimSpace(input.AgencyName),
		ApplicationProcess: input.ApplicationProcess,
		CustomerService:    input.CustomerService,
		Communication:      input.Communication,
		SupportServices:    input.SupportServices,
		OverallExperience:  input.OverallExperience,
		OverallRating:      overallRating,
		UsageFrequency:     input.UsageFrequency,
		Comments:           comments,
		TOSAcceptedAt:      now,
		IPAddress:          ipAddress,
		CreatedAt:          now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordReviewSubmission(ctx, s.metrics, "agency")
	s.publish(ctx, review)

	return review, nil
}

// GetRankings returns all reviewed agencies ordered best-first. Ties on the
// rounded overall rating break on review count, then agency id, then name,
// so the ordering is total and stable across runs.
func (s *AgencyReviewService) GetRankings(ctx context.Context) ([]entities.AgencyRanking, error) {
	if cached := s.cachedRankings(ctx); cached != nil {
		return cached, nil
	}

	raw, err := s.repo.GroupStatsByAgency(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rankings := make([]entities.AgencyRanking, 0, len(raw))
	for _, r := range raw {
		rankings = append(rankings, entities.AgencyRanking{
			ID:            r.AgencyID,
			Name:          r.AgencyName,
			OverallRating: round1(r.AvgOverallRating),
			ReviewCount:   r.ReviewCount,
			Metrics: entities.AgencyMetrics{
				ApplicationProcess: round1(r.AvgApplicationProcess),
				CustomerService:    round1(r.AvgCustomerService),
				Communication:      round1(r.AvgCommunication),
				SupportServices:    round1(r.AvgSupportServices),
				OverallExperience:  round1(r.AvgOverallExperience),
			},
			Verified:       true,
			RecentActivity: now.Sub(r.LastReviewDate) <= recentActivityWindow,
			LastReviewDate: r.LastReviewDate,
		})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].OverallRating != rankings[j].OverallRating {
			return rankings[i].OverallRating > rankings[j].OverallRating
		}
		if rankings[i].ReviewCount != rankings[j].ReviewCount {
			return rankings[i].ReviewCount > rankings[j].ReviewCount
		}
		if rankings[i].ID != rankings[j].ID {
			return rankings[i].ID < rankings[j].ID
		}
		return rankings[i].Name < rankings[j].Name
	})

	s.storeRankings(ctx, rankings)

	return rankings, nil
}

func (s *AgencyReviewService) cachedRankings(ctx context.Context) []entities.AgencyRanking {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, RankingsCacheKey)
	if err != nil || data == nil {
		return nil
	}
	var rankings []entities.AgencyRanking
	if err := json.Unmarshal(data, &rankings); err != nil {
		log.Printf("Warning: Failed to decode cached rankings: %v", err)
		return nil
	}
	return rankings
}

func (s *AgencyReviewService) storeRankings(ctx context.Context, rankings []entities.AgencyRanking) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(rankings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, RankingsCacheKey, data, rankingsCacheTTLSecs); err != nil {
		log.Printf("Warning: Failed to cache rankings: %v", err)
	}
}

// ListByAgency returns up to 50 of the newest reviews for one agency.
func (s *AgencyReviewService) ListByAgency(ctx context.Context, agencyID string) ([]*entities.AgencyReviewWithProfile, error) {
	agencyID = strings.ToLower(strings.TrimSpace(agencyID))
	if agencyID == "" {
		return nil, apperrors.NewValidationError("Agency identifier is required.")
	}
	return s.repo.ListByAgency(ctx, agencyID, 50)
}

func (s *AgencyReviewService) publish(ctx context.Context, review *entities.AgencyReview) {
	if s.eventBus == nil {
		return
	}
	event := &entities.ReviewEvent{
		ID:        review.ID,
		Type:      entities.ReviewEventAgencySubmitted,
		Subject:   review.AgencyID,
		Rating:    review.OverallRating,
		Timestamp: review.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelReviews, event); err != nil {
		log.Printf("Warning: Failed to publish agency review event: %v", err)
	}
	if err := s.eventBus.Publish(ctx, providers.GetAgencyChannel(review.AgencyID), event); err != nil {
		log.Printf("Warning: Failed to publish agency channel event: %v", err)
	}
}

func validateRating(value int, fieldName string, vErrs *apperrors.ValidationErrors) {
	if value < 1 || value > 5 {
		vErrs.Add(fieldName + " must be an integer between 1 and 5.")
	}
}

func collapseWhitespace(text string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
}
