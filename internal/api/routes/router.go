package routes

import (
	"net/http"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/handlers"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/session"
)

// Router holds all route handlers

type Router struct {
	mux *http.ServeMux

	authHandler         *handlers.AuthHandler
	stateReviewHandler  *handlers.StateReviewHandler
	agencyReviewHandler *handlers.AgencyReviewHandler
	reportHandler       *handlers.ReportHandler
	csrfHandler         *handlers.CSRFHandler
	healthHandler       *handlers.HealthHandler

	rateLimiter *middleware.RateLimiter
	sessions    *session.Manager
	authService *services.AuthService
	metrics     *observability.Metrics

	allowedOrigins    []string
	allowInsecureHTTP bool
}

// NewRouter creates a new router

func NewRouter(
	authHandler *handlers.AuthHandler,
	stateReviewHandler *handlers.StateReviewHandler,
	agencyReviewHandler *handlers.AgencyReviewHandler,
	reportHandler *handlers.ReportHandler,
	csrfHandler *handlers.CSRFHandler,
	healthHandler *handlers.HealthHandler,
	rateLimiter *middleware.RateLimiter,
	sessions *session.Manager,
	authService *services.AuthService,
	metrics *observability.Metrics,
	allowedOrigins []string,
	allowInsecureHTTP bool,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:         authHandler,
		stateReviewHandler:  stateReviewHandler,
		agencyReviewHandler: agencyReviewHandler,
		reportHandler:       reportHandler,
		csrfHandler:         csrfHandler,
		healthHandler:       healthHandler,

		rateLimiter: rateLimiter,
		sessions:    sessions,
		authService: authService,
		metrics:     metrics,

		allowedOrigins:    allowedOrigins,
		allowInsecureHTTP: allowInsecureHTTP,
	}
}

// SetupRoutes configures all application routes

func (r *Router) SetupRoutes() http.Handler {
	// Only failed logins count against the login limiter; successful
	// redirects through the OAuth dance are free.
	loginLimit := r.rateLimiter.LimitFailures(middleware.RateLimitLogin, middleware.LoginLimit)
	statusLimit := r.rateLimiter.Limit(middleware.RateLimitStatus, middleware.StatusLimit)
	apiLimit := r.rateLimiter.Limit(middleware.RateLimitAPI, middleware.APILimit)

	// Health check endpoint
	r.mux.Handle("GET /api/health", apiLimit(http.HandlerFunc(r.healthHandler.Health)))

	// CSRF token endpoint
	r.mux.Handle("GET /api/csrf-token", apiLimit(http.HandlerFunc(r.csrfHandler.Token)))

	// OAuth endpoints
	r.mux.Handle("GET /auth/{provider}", loginLimit(http.HandlerFunc(r.authHandler.Login)))
	r.mux.Handle("GET /auth/{provider}/callback", loginLimit(http.HandlerFunc(r.authHandler.Callback)))
	r.mux.Handle("GET /auth/logout", statusLimit(http.HandlerFunc(r.authHandler.Logout)))
	r.mux.Handle("GET /auth/status", statusLimit(http.HandlerFunc(r.authHandler.Status)))
	r.mux.Handle("GET /auth/user", statusLimit(http.HandlerFunc(r.authHandler.User)))

	// State review endpoints
	r.mux.Handle("POST /api/reviews", apiLimit(http.HandlerFunc(r.stateReviewHandler.Submit)))
	r.mux.Handle("GET /api/reviews", apiLimit(http.HandlerFunc(r.stateReviewHandler.List)))
	r.mux.Handle("GET /api/reviews/stats", apiLimit(http.HandlerFunc(r.stateReviewHandler.Stats)))
	r.mux.Handle("GET /api/reviews/analytics", apiLimit(http.HandlerFunc(r.stateReviewHandler.Analytics)))

	// Agency review endpoints
	r.mux.Handle("POST /api/agency-reviews", apiLimit(http.HandlerFunc(r.agencyReviewHandler.Submit)))
	r.mux.Handle("GET /api/agency-reviews/rankings", apiLimit(http.HandlerFunc(r.agencyReviewHandler.Rankings)))
	r.mux.Handle("GET /api/agency-reviews/{agencyId}", apiLimit(http.HandlerFunc(r.agencyReviewHandler.List)))

	// Admin report endpoints
	r.mux.Handle("GET /api/reports/users", apiLimit(http.HandlerFunc(r.reportHandler.Users)))
	r.mux.Handle("GET /api/reports/traffic", apiLimit(http.HandlerFunc(r.reportHandler.Traffic)))
	r.mux.Handle("GET /api/reports/ads", apiLimit(http.HandlerFunc(r.reportHandler.Ads)))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so even rejected requests carry its headers.

	var handler http.Handler = r.mux
	handler = middleware.CSRFMiddleware(handler)
	handler = middleware.SessionMiddleware(r.sessions, r.authService)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.SecurityHeadersMiddleware(r.allowInsecureHTTP)(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
