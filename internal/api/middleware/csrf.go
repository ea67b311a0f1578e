package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// CSRFMiddleware rejects state-changing /api requests whose X-CSRF-Token
// header does not match the token bound to the caller's session. Reads and
// non-API paths (the auth redirects) pass through.
func CSRFMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isStateChanging(r.Method) || !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		sess, ok := SessionFrom(r.Context())
		if !ok || !tokenMatches(r.Header.Get("X-CSRF-Token"), sess.CSRFToken) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"success":false,"message":"Invalid or missing CSRF token."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func tokenMatches(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
