package handlers

import (
	"net/http"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

// ReportHandler serves the admin-only analytics report endpoints.
type ReportHandler struct {
	service *services.ReportService
	admin   *config.AdminConfig
}

func NewReportHandler(service *services.ReportService, admin *config.AdminConfig) *ReportHandler {
	return &ReportHandler{service: service, admin: admin}
}

func (h *ReportHandler) Users(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	payload, err := h.service.UsersReport(r.Context(), user.Email)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

func (h *ReportHandler) Traffic(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	payload, err := h.service.TrafficReport(r.Context(), user.Email)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

func (h *ReportHandler) Ads(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	payload, err := h.service.AdsReport(r.Context(), user.Email)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

// requireAdmin gates report access. An empty allow-list is treated as a
// server misconfiguration rather than an open door.
func (h *ReportHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (*entities.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondUnauthenticated(w)
		return nil, false
	}

	if !h.admin.Configured() {
		observability.GetLogger().Error().Msg("ADMIN_EMAILS is not configured; refusing report access")
		respondWithError(w, http.StatusInternalServerError, "Admin access is not configured.")
		return nil, false
	}

	if !h.admin.IsAdmin(user.Email) {
		observability.GetLogger().Warn().
			Str("email", user.Email).
			Str("path", r.URL.Path).
			Msg("Non-admin attempted to access reports")
		respondWithError(w, http.StatusForbidden, "Admin access required.")
		return nil, false
	}

	return user, true
}
