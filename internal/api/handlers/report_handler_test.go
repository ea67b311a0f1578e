package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/reportlog"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

type stubSessionCounter struct{ count int }

func (s *stubSessionCounter) Count(ctx context.Context) (int, error) { return s.count, nil }

func newReportFixture(t *testing.T, admin *config.AdminConfig) *ReportHandler {
	t.Helper()
	reportLog, err := reportlog.New(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(reportLog.Close)

	users := &fakeUserRepo{totalUsers: 120, createdCount: 10, activeCount: 60}
	service := services.NewReportService(users, &fakeStateReviewRepo{}, &stubSessionCounter{count: 7}, reportLog)
	return NewReportHandler(service, admin)
}

func TestReportHandler_Users_Unauthenticated(t *testing.T) {
	handler := newReportFixture(t, &config.AdminConfig{Emails: []string{"jane@example.com"}})

	rec := httptest.NewRecorder()
	handler.Users(rec, httptest.NewRequest(http.MethodGet, "/api/reports/users", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportHandler_Users_AdminNotConfigured(t *testing.T) {
	handler := newReportFixture(t, &config.AdminConfig{})

	rec := httptest.NewRecorder()
	handler.Users(rec, authedRequest(http.MethodGet, "/api/reports/users", nil, testUser()))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Admin access is not configured.", decodeBody(t, rec)["message"])
}

func TestReportHandler_Users_Forbidden(t *testing.T) {
	handler := newReportFixture(t, &config.AdminConfig{Emails: []string{"boss@example.com"}})

	rec := httptest.NewRecorder()
	handler.Users(rec, authedRequest(http.MethodGet, "/api/reports/users", nil, testUser()))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required.", decodeBody(t, rec)["message"])
}

func TestReportHandler_Users_Success(t *testing.T) {
	handler := newReportFixture(t, &config.AdminConfig{Emails: []string{"jane@example.com"}})

	rec := httptest.NewRecorder()
	handler.Users(rec, authedRequest(http.MethodGet, "/api/reports/users", nil, testUser()))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	metrics := body["metrics"].(map[string]interface{})
	assert.Equal(t, float64(120), metrics["totalUsers"])
	sessions := metrics["activeSessions"].(map[string]interface{})
	assert.Equal(t, float64(7), sessions["current"])
}

func TestReportHandler_Traffic_Success(t *testing.T) {
	handler := newReportFixture(t, &config.AdminConfig{Emails: []string{"jane@example.com"}})

	rec := httptest.NewRecorder()
	handler.Traffic(rec, authedRequest(http.MethodGet, "/api/reports/traffic", nil, testUser()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])
}

func TestReportHandler_Ads_Success(t *testing.T) {
	handler := newReportFixture(t, &config.AdminConfig{Emails: []string{"jane@example.com"}})

	rec := httptest.NewRecorder()
	handler.Ads(rec, authedRequest(http.MethodGet, "/api/reports/ads", nil, testUser()))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	metrics := body["metrics"].(map[string]interface{})
	impressions := metrics["impressions"].(map[string]interface{})
	assert.Equal(t, float64(0), impressions["currentPeriod"])
}
