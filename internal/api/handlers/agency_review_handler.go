package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
)

// AgencyReviewHandler serves the J-1 agency review and ranking endpoints.
type AgencyReviewHandler struct {
	service *services.AgencyReviewService
}

func NewAgencyReviewHandler(service *services.AgencyReviewService) *AgencyReviewHandler {
	return &AgencyReviewHandler{service: service}
}

// Submit accepts an agency review from an authenticated user. The caller's
// IP is recorded for abuse tracing.
func (h *AgencyReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondUnauthenticated(w)
		return
	}

	var input services.AgencyReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	review, err := h.service.Submit(r.Context(), user, input, clientIP(r))
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Review submitted successfully!",
		"review": map[string]interface{}{
			"id":            review.ID,
			"agencyId":      review.AgencyID,
			"agencyName":    review.AgencyName,
			"overallRating": review.OverallRating,
			"createdAt":     review.CreatedAt,
		},
	})
}

// Rankings returns every agency's aggregated ratings, best first.
func (h *AgencyReviewHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.service.GetRankings(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"count":    len(rankings),
		"agencies": rankings,
	})
}

// List returns the most recent approved reviews for one agency.
func (h *AgencyReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListByAgency(r.Context(), r.PathValue("agencyId"))
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
