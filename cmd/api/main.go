package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/cache"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/database"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/events"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/adapters/reportlog"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/handlers"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/middleware"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/api/routes"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/application/services"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/auth"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/providers"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/postgres"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/clients/redis"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/infrastructure/observability"
	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/session"
	"github.com/DewyHRite/test.jamwathq.test-sub000/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client; sessions, rate limits and OAuth state fall
	// back to in-process storage when it is unavailable.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		memoryCache := cache.NewMemoryAdapter()
		defer memoryCache.Close()
		cacheProvider = memoryCache
		log.Println("Falling back to in-memory session and rate-limit storage")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Initialize adapters

	userAdapter := database.NewUserAdapter(pgClient)
	stateReviewAdapter := database.NewStateReviewAdapter(pgClient)
	agencyReviewAdapter := database.NewAgencyReviewAdapter(pgClient)

	reportLog, err := reportlog.New(cfg.Server.ReportsDir, 0)
	if err != nil {
		log.Fatalf("Failed to initialize report logger: %v", err)
	}
	defer reportLog.Close()

	// Sessions and OAuth state

	sessions := session.NewManager(cacheProvider, &cfg.Session)
	stateStore := auth.NewStateStore(cacheProvider)

	authProviders := make(map[entities.AuthProvider]*auth.Provider)
	if cfg.OAuth.Google.Configured() {
		authProviders[entities.AuthProviderGoogle] = auth.NewGoogleProvider(&cfg.OAuth.Google)
		log.Println("Google OAuth provider configured")
	} else {
		log.Println("Warning: Google OAuth credentials are not set; Google login disabled")
	}
	if cfg.OAuth.Facebook.Configured() {
		authProviders[entities.AuthProviderFacebook] = auth.NewFacebookProvider(&cfg.OAuth.Facebook)
		log.Println("Facebook OAuth provider configured")
	} else {
		log.Println("Warning: Facebook OAuth credentials are not set; Facebook login disabled")
	}

	// Initialize services

	authService := services.NewAuthService(userAdapter, metrics)
	reviewService := services.NewReviewService(stateReviewAdapter, eventBus, metrics)
	agencyReviewService := services.NewAgencyReviewService(agencyReviewAdapter, cacheProvider, eventBus, metrics)
	reportService := services.NewReportService(userAdapter, stateReviewAdapter, sessions, reportLog)

	// Keep cached rankings in step with new submissions. Without Redis there
	// is no event bus, and the rankings cache falls back to its TTL.
	if eventBus != nil {
		cacheInvalidation := services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidation.Start(); err != nil {
			log.Printf("Warning: Failed to start cache invalidation service: %v", err)
		} else {
			defer cacheInvalidation.Stop()
		}
	}

	// Initialize handlers

	authHandler := handlers.NewAuthHandler(authProviders, stateStore, authService, sessions, cfg.Client.ClientBaseURL())
	stateReviewHandler := handlers.NewStateReviewHandler(reviewService)
	agencyReviewHandler := handlers.NewAgencyReviewHandler(agencyReviewService)
	reportHandler := handlers.NewReportHandler(reportService, &cfg.Admin)
	csrfHandler := handlers.NewCSRFHandler(sessions)
	healthHandler := handlers.NewHealthHandler(pgClient, &cfg.OAuth)

	rateLimiter := middleware.NewRateLimiter(cacheProvider)
	defer rateLimiter.Close()

	// Set up router

	router := routes.NewRouter(
		authHandler,
		stateReviewHandler,
		agencyReviewHandler,
		reportHandler,
		csrfHandler,
		healthHandler,
		rateLimiter,
		sessions,
		authService,
		metrics,
		cfg.Client.AllowedOrigins,
		cfg.Session.AllowInsecureHTTP,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
