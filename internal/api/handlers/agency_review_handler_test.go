package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/repositories"
)

func validAgencyReviewJSON() string {
	return `{
		"agencyId": "Global-Placements",
		"agencyName": "Global Placements",
		"applicationProcess": 4,
		"customerService": 5,
		"communication": 3,
		"supportServices": 4,
		"overallExperience": 5,
		"usageFrequency": 2,
		"comments": "Responsive staff and the paperwork was handled quickly.",
		"tosAccepted": true
	}`
}

func TestAgencyReviewHandler_Submit(t *testing.T) {
	repo := &fakeAgencyReviewRepo{}
	handler := NewAgencyReviewHandler(services.NewAgencyReviewService(repo, nil, nil, nil))

	r := authedRequest(http.MethodPost, "/api/agency-reviews", strings.NewReader(validAgencyReviewJSON()), testUser())
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.Submit(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "global-placements", repo.created[0].AgencyID)
	assert.Equal(t, "203.0.113.9", repo.created[0].IPAddress)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Review submitted successfully!", body["message"])
	review := body["review"].(map[string]interface{})
	assert.Equal(t, "global-placements", review["agencyId"])
	assert.Equal(t, 4.2, review["overallRating"])
}

func TestAgencyReviewHandler_Submit_Unauthenticated(t *testing.T) {
	handler := NewAgencyReviewHandler(services.NewAgencyReviewService(&fakeAgencyReviewRepo{}, nil, nil, nil))

	rec := httptest.NewRecorder()
	handler.Submit(rec, authedRequest(http.MethodPost, "/api/agency-reviews", strings.NewReader(validAgencyReviewJSON()), nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAgencyReviewHandler_Submit_ValidationErrors(t *testing.T) {
	handler := NewAgencyReviewHandler(services.NewAgencyReviewService(&fakeAgencyReviewRepo{}, nil, nil, nil))

	rec := httptest.NewRecorder()
	handler.Submit(rec, authedRequest(http.MethodPost, "/api/agency-reviews", strings.NewReader(`{"tosAccepted": false}`), testUser()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid review submission.", body["message"])
	assert.NotEmpty(t, body["errors"])
}

func TestAgencyReviewHandler_Rankings(t *testing.T) {
	repo := &fakeAgencyReviewRepo{
		groupAll: []repositories.AgencyGroupStats{
			{
				AgencyID:              "global-placements",
				AgencyName:            "Global Placements",
				ReviewCount:           4,
				AvgApplicationProcess: 4.25,
				AvgCustomerService:    4.5,
				AvgCommunication:      3.75,
				AvgSupportServices:    4.0,
				AvgOverallExperience:  4.5,
				AvgOverallRating:      4.2,
				LastReviewDate:        time.Now().Add(-48 * time.Hour),
			},
		},
	}
	handler := NewAgencyReviewHandler(services.NewAgencyReviewService(repo, nil, nil, nil))

	rec := httptest.NewRecorder()
	handler.Rankings(rec, httptest.NewRequest(http.MethodGet, "/api/agency-reviews/rankings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	agencies := body["agencies"].([]interface{})
	top := agencies[0].(map[string]interface{})
	assert.Equal(t, "global-placements", top["id"])
	assert.Equal(t, true, top["recentActivity"])
}

func TestAgencyReviewHandler_List(t *testing.T) {
	repo := &fakeAgencyReviewRepo{
		listed: []*entities.AgencyReviewWithProfile{
			{UserFirstName: "Jane", OverallRating: 4.2, Comments: "Helped me land a placement within two weeks."},
		},
	}
	handler := NewAgencyReviewHandler(services.NewAgencyReviewService(repo, nil, nil, nil))

	r := httptest.NewRequest(http.MethodGet, "/api/agency-reviews/global-placements", nil)
	r.SetPathValue("agencyId", "global-placements")
	rec := httptest.NewRecorder()
	handler.List(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	reviews := body["reviews"].([]interface{})
	assert.Equal(t, "Jane", reviews[0].(map[string]interface{})["userFirstName"])
}

func TestAgencyReviewHandler_List_MissingID(t *testing.T) {
	handler := NewAgencyReviewHandler(services.NewAgencyReviewService(&fakeAgencyReviewRepo{}, nil, nil, nil))

	r := httptest.NewRequest(http.MethodGet, "/api/agency-reviews/", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, r)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Agency identifier is required.", decodeBody(t, rec)["message"])
}
