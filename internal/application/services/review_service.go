package services

import (
	"context"
	"log"
	"math"
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

// StateReviewInput is the submission payload for a state experience review.
type StateReviewInput struct {
	State        string  `json:"state"`
	JobTitle     string  `json:"jobTitle"`
	Employer     string  `json:"employer"`
	City         string  `json:"city"`
	Wages        float64 `json:"wages"`
	HoursPerWeek int     `json:"hoursPerWeek"`
	Rating       int     `json:"rating"`
	Experience   string  `json:"experience"`
	TimesUsed    int     `json:"timesUsed"`
	VisitYear    string  `json:"visitYear"`
	TOSAccepted  bool    `json:"tosAccepted"`
}

// ReviewService handles state review submission and aggregation.
type ReviewService struct {
	repo     repositories.StateReviewRepository
	eventBus providers.EventBus
	metrics  *observability.Metrics
}

// NewReviewService creates a new state review service.
func NewReviewService(repo repositories.StateReviewRepository, eventBus providers.EventBus, metrics *observability.Metrics) *ReviewService {
	return &ReviewService{
		repo:     repo,
		eventBus: eventBus,
		metrics:  metrics,
	}
}

// Submit validates and persists a state review for the given user. Validation
// accumulates every violated rule; the returned error is a *ValidationErrors
// listing all of them.
func (s *ReviewService) Submit(ctx context.Context, user *entities.User, input StateReviewInput) (*entities.StateReview, error) {
	vErrs := &apperrors.ValidationErrors{}

	if !input.TOSAccepted {
		vErrs.Add("Terms of Service must be accepted before submitting a review.")
	}
	if strings.TrimSpace(input.State) == "" {
		vErrs.Add("State is required.")
	}
	if strings.TrimSpace(input.JobTitle) == "" {
		vErrs.Add("Job title is required.")
	}
	if input.Wages < 0 {
		vErrs.Add("Wages must be zero or greater.")
	}
	if input.HoursPerWeek < 1 || input.HoursPerWeek > 80 {
		vErrs.Add("Hours per week must be between 1 and 80.")
	}
	if input.Rating < 1 || input.Rating > 5 {
		vErrs.Add("Rating must be an integer between 1 and 5.")
	}
	experience := strings.TrimSpace(input.Experience)
	if experience == "" {
		vErrs.Add("Experience is required.")
	} else if len(experience) > 2000 {
		vErrs.Add("Experience must be 2000 characters or fewer.")
	}
	if input.TimesUsed < 1 || input.TimesUsed > 10 {
		vErrs.Add("Times used must be between 1 and 10.")
	}

	if vErrs.HasErrors() {
		return nil, vErrs
	}

	now := time.Now()
	review := &entities.StateReview{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		UserFirstName: user.FirstName,
		UserGender:    user.Gender,
		State:         strings.TrimSpace(input.State),
		JobTitle:      strings.TrimSpace(input.JobTitle),
		Employer:      strings.TrimSpace(input.Employer),
		City:          strings.TrimSpace(input.City),
		Wages:         input.Wages,
		HoursPerWeek:  input.HoursPerWeek,
		Rating:        input.Rating,
		Experience:    experience,
		TimesUsed:     input.TimesUsed,
		VisitYear:     strings.TrimSpace(input.VisitYear),
		TOSAccepted:   true,
		TOSAcceptedAt: now,
		IsApproved:    true,
		CreatedAt:     now,
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.RecordReviewSubmission(ctx, s.metrics, "state")
	s.publish(ctx, review)

	return review, nil
}

// ListByState returns the newest approved reviews for a state.
func (s *ReviewService) ListByState(ctx context.Context, state string, limit int) ([]*entities.StateReview, error) {
	return s.repo.ListByState(ctx, strings.TrimSpace(state), limit)
}

// GetStateStats returns the aggregate for one state. A state with no approved
// reviews yields zeros rather than an error.
func (s *ReviewService) GetStateStats(ctx context.Context, state string) (*entities.StateStats, error) {
	raw, err := s.repo.GroupStatsByState(ctx, state)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return &entities.StateStats{State: state}, nil
	}
	return &entities.StateStats{
		State:       raw.State,
		ReviewCount: raw.ReviewCount,
		AvgRating:   round1(raw.AvgRating),
		AvgWage:     round2(raw.AvgWage),
	}, nil
}

// GetAllStatesStats returns the full 50-state scoreboard. States without
// reviews appear with zeros. Rounding happens before sorting, so two states
// whose averages agree at one decimal tie and fall back to review count.
func (s *ReviewService) GetAllStatesStats(ctx context.Context) ([]entities.StateStats, error) {
	raw, err := s.repo.GroupStatsAllStates(ctx)
	if err != nil {
		return nil, err
	}

	byState := make(map[string]entities.StateStats, len(raw))
	for _, r := range raw {
		byState[r.State] = entities.StateStats{
			State:       r.State,
			ReviewCount: r.ReviewCount,
			AvgRating:   round1(r.AvgRating),
			AvgWage:     round2(r.AvgWage),
		}
	}

	stats := make([]entities.StateStats, 0, len(entities.USStates))
	for _, state := range entities.USStates {
		if stat, ok := byState[state]; ok {
			stats = append(stats, stat)
		} else {
			stats = append(stats, entities.StateStats{State: state})
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].AvgRating != stats[j].AvgRating {
			return stats[i].AvgRating > stats[j].AvgRating
		}
		return stats[i].ReviewCount > stats[j].ReviewCount
	})

	return stats, nil
}

// GetStateAnalytics returns per-state unique-visitor counts and revisit
// averages, most visited first.
func (s *ReviewService) GetStateAnalytics(ctx context.Context) ([]entities.StateAnalytics, error) {
	raw, err := s.repo.VisitorStatsAllStates(ctx)
	if err != nil {
		return nil, err
	}

	analytics := make([]entities.StateAnalytics, 0, len(raw))
	for _, r := range raw {
		analytics = append(analytics, entities.StateAnalytics{
			State:         r.State,
			TotalVisitors: r.TotalVisitors,
			AvgRevisit:    round2(r.AvgRevisit),
		})
	}
	return analytics, nil
}

func (s *ReviewService) publish(ctx context.Context, review *entities.StateReview) {
	if s.eventBus == nil {
		return
	}
	event := &entities.ReviewEvent{
		ID:        review.ID,
		Type:      entities.ReviewEventStateSubmitted,
		Subject:   review.State,
		Rating:    float64(review.Rating),
		Timestamp: review.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelReviews, event); err != nil {
		log.Printf("Warning: Failed to publish state review event: %v", err)
	}
	if err := s.eventBus.Publish(ctx, providers.GetStateChannel(review.State), event); err != nil {
		log.Printf("Warning: Failed to publish state channel event: %v", err)
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
