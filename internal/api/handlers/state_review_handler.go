package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
)

// StateReviewHandler serves the state review submission and scoreboard
// endpoints.
type StateReviewHandler struct {
	service *services.ReviewService
}

func NewStateReviewHandler(service *services.ReviewService) *StateReviewHandler {
	return &StateReviewHandler{service: service}
}

// Submit accepts a state review from an authenticated user.
func (h *StateReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var input services.StateReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	review, err := h.service.Submit(r.Context(), user, input)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Review submitted successfully!",
		"review": map[string]interface{}{
			"id":        review.ID,
			"state":     review.State,
			"rating":    review.Rating,
			"createdAt": review.CreatedAt,
		},
	})
}

// List returns approved reviews for the state named by the query param,
// newest first.
func (h *StateReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		respondWithError(w, http.StatusBadRequest, "State is required.")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Limit must be a positive integer.")
			return
		}
		limit = parsed
	}

	reviews, err := h.service.ListByState(r.Context(), state, limit)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(reviews),
		"reviews": reviews,
	})
}

// Stats returns the full 50-state scoreboard, or a single state's
// aggregate when ?state= is given.
func (h *StateReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if state := r.URL.Query().Get("state"); state != "" {
		stats, err := h.service.GetStateStats(r.Context(), state)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stats":   stats,
		})
		return
	}

	stats, err := h.service.GetAllStatesStats(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// Analytics returns unique-visitor counts and revisit averages per state.
func (h *StateReviewHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.GetStateAnalytics(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"analytics": analytics,
	})
}
