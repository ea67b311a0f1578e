package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
)

func validStateReviewJSON() string {
	return `{
		"state": "Florida",
		"jobTitle": "Lifeguard",
		"employer": "Beach Resort",
		"city": "Miami",
		"wages": 14.50,
		"hoursPerWeek": 38,
		"rating": 4,
		"experience": "Great summer overall, would go back.",
		"timesUsed": 2,
		"visitYear": "2025",
		"tosAccepted": true
	}`
}

func TestStateReviewHandler_Submit(t *testing.T) {
	repo := &fakeStateReviewRepo{}
	handler := NewStateReviewHandler(services.NewReviewService(repo, nil, nil))

	rec := httptest.NewRecorder()
	handler.Submit(rec, authedRequest(http.MethodPost, "/api/reviews", strings.NewReader(validStateReviewJSON()), testUser()))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Florida", repo.created[0].State)
	assert.Equal(t, "user-1", repo.created[0].UserID)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Review submitted successfully!", body["message"])
	review := body["review"].(map[string]interface{})
	assert.Equal(t, "Florida", review["state"])
	assert.NotEmpty(t, review["id"])
}

func TestStateReviewHandler_Submit_Unauthenticated(t *testing.T) {
	handler := NewStateReviewHandler(services.NewReviewService(&fakeStateReviewRepo{}, nil, nil))

	rec := httptest.NewRecorder()
	handler.Submit(rec, authedRequest(http.MethodPost, "/api/reviews", strings.NewReader(validStateReviewJSON()), nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["authenticated"])
}

func TestStateReviewHandler_Submit_ValidationErrors(t *testing.T) {
	handler := NewStateReviewHandler(services.NewReviewService(&fakeStateReviewRepo{}, nil, nil))

	rec := httptest.NewRecorder()
	handler.Submit(rec, authedRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"tosAccepted": false}`), testUser()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].([]interface{})
	assert.Contains(t, errs, "Terms of Service must be accepted before submitting a review.")
	assert.Contains(t, errs, "State is required.")
}

func TestStateReviewHandler_Submit_MalformedBody(t *testing.T) {
	handler := NewStateReviewHandler(services.NewReviewService(&fakeStateReviewRepo{}, nil, nil))

	rec := httptest.NewRecorder()
	handler.Submit(rec, authedRequest(http.MethodPost, "/api/reviews", strings.NewReader("{not json"), testUser()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body.", decodeBody(t, rec)["message"])
}

func TestStateReviewHandler_List_RequiresState(t *testing.T) {
	handler := NewStateReviewHandler(services.NewReviewService(&fakeStateReviewRepo{}, nil, nil))

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/reviews", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "State is required.", decodeBody(t, rec)["message"])
}

func TestStateReviewHandler_Stats_AllStates(t *testing.T) {
	repo := &fakeStateReviewRepo{
		groupAll: []repositories.StateGroupStats{
			{State: "Texas", ReviewCount: 3, AvgRating: 4.3333, AvgWage: 15.5},
		},
	}
	handler := NewStateReviewHandler(services.NewReviewService(repo, nil, nil))

	rec := httptest.NewRecorder()
	handler.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/reviews/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	stats := body["stats"].([]interface{})
	require.Len(t, stats, 50)

	top := stats[0].(map[string]interface{})
	assert.Equal(t, "Texas", top["state"])
	assert.Equal(t, 4.3, top["avgRating"])
}

func TestStateReviewHandler_Stats_SingleState(t *testing.T) {
	repo := &fakeStateReviewRepo{
		groupOne: &repositories.StateGroupStats{State: "Texas", ReviewCount: 3, AvgRating: 4.3333, AvgWage: 15.836},
	}
	handler := NewStateReviewHandler(services.NewReviewService(repo, nil, nil))

	rec := httptest.NewRecorder()
	handler.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/reviews/stats?state=Texas", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody(t, rec)["stats"].(map[string]interface{})
	assert.Equal(t, "Texas", stats["state"])
	assert.Equal(t, 4.3, stats["avgRating"])
	assert.Equal(t, 15.84, stats["avgWage"])
}

func TestStateReviewHandler_Analytics(t *testing.T) {
	repo := &fakeStateReviewRepo{
		visitors: []repositories.StateVisitorStats{
			{State: "Ohio", TotalVisitors: 7, AvgRevisit: 1.8571},
		},
	}
	handler := NewStateReviewHandler(services.NewReviewService(repo, nil, nil))

	rec := httptest.NewRecorder()
	handler.Analytics(rec, httptest.NewRequest(http.MethodGet, "/api/reviews/analytics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	analytics := decodeBody(t, rec)["analytics"].([]interface{})
	require.Len(t, analytics, 1)
	row := analytics[0].(map[string]interface{})
	assert.Equal(t, "Ohio", row["state"])
	assert.Equal(t, 1.86, row["avgRevisit"])
}
