package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	apperrors "github.com/DewyHRite/test.jamwathq.test-sub000/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondWithServiceError translates service-layer errors into HTTP
// responses. Validation failures carry the full error list; anything
// unclassified becomes a generic 500 so internals never leak.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErrs *apperrors.ValidationErrors
	if errors.As(err, &vErrs) {
		respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid review submission.",
			"errors":  vErrs.Errors,
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
			return
		case apperrors.ErrorTypeForbidden:
			respondWithError(w, http.StatusForbidden, appErr.Message)
			return
		}
	}

	observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("Request failed")
	respondWithError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

func respondUnauthenticated(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusUnauthorized, map[string]interface{}{
		"success":       false,
		"authenticated": false,
		"message":       "Authentication required.",
	})
}

// clientIP resolves the caller's address, preferring the first entry of
// X-Forwarded-For when a proxy added one.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
