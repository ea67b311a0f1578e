package middleware

import (
	"context"
	"net/http"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/session"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	userContextKey    contextKey = "user"
)

// SessionMiddleware resolves the request's session cookie and, when valid,
// attaches the session and its user to the request context. Requests without
// a session pass through untouched; authorization happens downstream.
func SessionMiddleware(sessions *session.Manager, authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			if err != nil {
				observability.GetLogger().Warn().Err(err).Msg("Failed to load session")
			}
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)

			user, err := authService.GetUser(ctx, sess.UserID)
			if err == nil {
				ctx = context.WithValue(ctx, userContextKey, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession returns a context carrying the given session.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// WithUser returns a context carrying the given authenticated user.
func WithUser(ctx context.Context, user *entities.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// SessionFrom returns the session attached to the context, if any.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	return sess, ok
}

// UserFrom returns the authenticated user attached to the context, if any.
func UserFrom(ctx context.Context) (*entities.User, bool) {
	user, ok := ctx.Value(userContextKey).(*entities.User)
	return user, ok
}
