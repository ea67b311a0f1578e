package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/cache"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/session"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

func newCSRFFixture() (*CSRFHandler, *session.Manager) {
	sessions := session.NewManager(cache.NewMemoryAdapter(), &config.SessionConfig{
		Secret:            "test-secret",
		CookieName:        "jamwathq.sid",
		MaxAgeDays:        30,
		AllowInsecureHTTP: true,
	})
	return NewCSRFHandler(sessions), sessions
}

func TestCSRFHandler_CreatesAnonymousSession(t *testing.T) {
	handler, _ := newCSRFFixture()

	rec := httptest.NewRecorder()
	handler.Token(rec, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["csrfToken"])
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "jamwathq.sid", rec.Result().Cookies()[0].Name)
}

func TestCSRFHandler_ReusesExistingSession(t *testing.T) {
	handler, sessions := newCSRFFixture()

	createRec := httptest.NewRecorder()
	sess, err := sessions.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), createRec, "user-1")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	r = r.WithContext(middleware.WithSession(r.Context(), sess))
	rec := httptest.NewRecorder()
	handler.Token(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess.CSRFToken, decodeBody(t, rec)["csrfToken"])
	assert.Empty(t, rec.Result().Cookies())
}
