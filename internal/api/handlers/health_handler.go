package handlers

import (
	"net/http"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/postgres"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

// HealthHandler reports service liveness and the readiness of its
// backing dependencies.
type HealthHandler struct {
	db        *postgres.Client
	oauth     *config.OAuthConfig
	startedAt time.Time
}

func NewHealthHandler(db *postgres.Client, oauth *config.OAuthConfig) *HealthHandler {
	return &HealthHandler{
		db:        db,
		oauth:     oauth,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	status := "ok"
	if h.db == nil {
		dbStatus = "not configured"
	} else if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "disconnected"
		status = "degraded"
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":        status,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"uptimeSeconds": int64(time.Since(h.startedAt).Seconds()),
		"database":      dbStatus,
		"authentication": map[string]bool{
			"google":   h.oauth.Google.Configured(),
			"facebook": h.oauth.Facebook.Configured(),
		},
	})
}
