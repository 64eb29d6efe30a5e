// Package api provides the HTTP API for turfloop.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/api/handler"
	"github.com/turfloop/turfloop/internal/api/middleware"
	"github.com/turfloop/turfloop/internal/auth"
	"github.com/turfloop/turfloop/internal/claim"
	"github.com/turfloop/turfloop/internal/territory"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	JWTService       *auth.JWTService
	ClaimService     *claim.Service
	TerritoryService *territory.Service
	DB               handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "turfloop-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	var snapshotSource handler.SnapshotSource
	if cfg.TerritoryService != nil {
		snapshotSource = cfg.TerritoryService
	}
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB, snapshotSource)
	sessionHandler := handler.NewSessionHandler(cfg.ClaimService)
	territoryHandler := handler.NewTerritoryHandler(cfg.TerritoryService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.JWTService)

	// Rate limit tiers
	ingestRateLimit := middleware.RateLimitByPlayer(middleware.IngestRateLimit)       // 120 req/min
	submitRateLimit := middleware.RateLimitByPlayer(middleware.ExpensiveRateLimit)    // 30 req/min
	standardRateLimit := middleware.RateLimitByPlayer(middleware.StandardRateLimit)   // 100 req/min
	publicRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)         // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.StatusCheck)
		})

		// Territory read endpoints (public) - standard rate limiting
		r.With(publicRateLimit).Get("/territories", territoryHandler.ListTerritories)

		// Claim session endpoints (authenticated)
		r.Route("/sessions", func(r chi.Router) {
			r.Use(authMiddleware)

			r.With(standardRateLimit).Post("/", sessionHandler.StartSession)

			r.Route("/{sessionId}", func(r chi.Router) {
				r.With(standardRateLimit).Get("/", sessionHandler.GetSession)
				r.With(standardRateLimit).Delete("/", sessionHandler.CancelSession)

				// Fix ingest runs at walking cadence, its own tier
				r.With(ingestRateLimit).Post("/fixes", sessionHandler.IngestFix)

				r.With(submitRateLimit).Post("/submit", sessionHandler.SubmitSession)
			})
		})
	})

	return r
}
