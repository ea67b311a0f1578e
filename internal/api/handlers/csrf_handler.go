package handlers

import (
	"net/http"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/session"
)

// CSRFHandler hands the session's CSRF token to the frontend so it can
// attach it to state-changing requests.
type CSRFHandler struct {
	sessions *session.Manager
}

func NewCSRFHandler(sessions *session.Manager) *CSRFHandler {
	return &CSRFHandler{sessions: sessions}
}

// Token returns the current session's CSRF token, creating an anonymous
// session first when the caller has none yet.
func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		created, err := h.sessions.Create(r.Context(), w, "")
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		sess = created
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"csrfToken": sess.CSRFToken,
	})
}
