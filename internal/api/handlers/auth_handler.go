package handlers

import (
	"net/http"
	"strings"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/auth"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/session"
)

// AuthHandler drives the OAuth login flow: redirect out to the provider,
// handle the callback, and expose the resulting session to the frontend.
type AuthHandler struct {
	providers     map[entities.AuthProvider]*auth.Provider
	states        *auth.StateStore
	authService   *services.AuthService
	sessions      *session.Manager
	clientBaseURL string
}

func NewAuthHandler(
	providers map[entities.AuthProvider]*auth.Provider,
	states *auth.StateStore,
	authService *services.AuthService,
	sessions *session.Manager,
	clientBaseURL string,
) *AuthHandler {
	return &AuthHandler{
		providers:     providers,
		states:        states,
		authService:   authService,
		sessions:      sessions,
		clientBaseURL: strings.TrimSuffix(clientBaseURL, "/"),
	}
}

// Login starts the OAuth dance for the provider named in the path.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown authentication provider.")
		return
	}

	returnTo := auth.CaptureReturnTo(r)
	state, err := h.states.Issue(r.Context(), returnTo)
	if err != nil {
		observability.GetLogger().Error().Err(err).Msg("Failed to issue OAuth state")
		h.redirectWithFlag(w, r, "/", "auth=failed")
		return
	}

	http.Redirect(w, r, provider.AuthURL(state), http.StatusFound)
}

// Callback finishes the OAuth dance: verify state, exchange the code,
// fetch the profile, upsert the user and open a session.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown authentication provider.")
		return
	}

	returnTo, ok := h.states.Redeem(r.Context(), r.URL.Query().Get("state"))
	if !ok {
		observability.GetLogger().Warn().
			Str("provider", string(provider.Name)).
			Msg("OAuth callback with invalid or expired state")
		h.redirectWithFlag(w, r, "/", "auth=failed")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		observability.GetLogger().Warn().
			Str("provider", string(provider.Name)).
			Str("error", errParam).
			Msg("OAuth provider returned an error")
		h.redirectWithFlag(w, r, returnTo, "auth=failed")
		return
	}

	token, err := provider.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		observability.GetLogger().Error().Err(err).
			Str("provider", string(provider.Name)).
			Msg("OAuth code exchange failed")
		h.redirectWithFlag(w, r, returnTo, "auth=failed")
		return
	}

	profile, err := provider.FetchProfile(r.Context(), token)
	if err != nil {
		observability.GetLogger().Error().Err(err).
			Str("provider", string(provider.Name)).
			Msg("Failed to fetch OAuth profile")
		h.redirectWithFlag(w, r, returnTo, "auth=failed")
		return
	}

	user, err := h.authService.FindOrCreate(r.Context(), profile)
	if err != nil {
		observability.GetLogger().Error().Err(err).
			Str("provider", string(provider.Name)).
			Msg("Failed to find or create user")
		h.redirectWithFlag(w, r, returnTo, "auth=failed")
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, user.ID); err != nil {
		observability.GetLogger().Error().Err(err).Msg("Failed to create session")
		h.redirectWithFlag(w, r, returnTo, "auth=failed")
		return
	}

	h.redirectWithFlag(w, r, returnTo, "auth=success")
}

// Logout destroys the session and sends the user back to the frontend.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	returnTo := auth.CaptureReturnTo(r)
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		observability.GetLogger().Warn().Err(err).Msg("Failed to destroy session")
	}
	h.redirectWithFlag(w, r, returnTo, "auth=loggedout")
}

// Status reports whether the caller is authenticated, with a trimmed-down
// user object the frontend can render directly.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
			"user":          nil,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          publicUser(user),
	})
}

// User returns the authenticated user's profile, or 401.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondUnauthenticated(w)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    publicUser(user),
	})
}

func (h *AuthHandler) provider(r *http.Request) (*auth.Provider, bool) {
	name := entities.AuthProvider(r.PathValue("provider"))
	provider, ok := h.providers[name]
	return provider, ok
}

// redirectWithFlag sends the browser back to the frontend, appending an
// auth outcome flag to whatever returnTo path the flow started from.
func (h *AuthHandler) redirectWithFlag(w http.ResponseWriter, r *http.Request, returnTo, flag string) {
	if returnTo == "" {
		returnTo = "/"
	}
	sep := "?"
	if strings.Contains(returnTo, "?") {
		sep = "&"
	}
	http.Redirect(w, r, h.clientBaseURL+returnTo+sep+flag, http.StatusFound)
}

func publicUser(user *entities.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             user.ID,
		"firstName":      user.FirstName,
		"email":          user.Email,
		"profilePicture": user.ProfilePicture,
		"authProvider":   string(user.AuthProvider),
	}
}
