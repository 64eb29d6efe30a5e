// Package main provides the entrypoint for the turfloop API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/api"
	"github.com/turfloop/turfloop/internal/api/middleware"
	"github.com/turfloop/turfloop/internal/auth"
	"github.com/turfloop/turfloop/internal/claim"
	"github.com/turfloop/turfloop/internal/collision"
	"github.com/turfloop/turfloop/internal/database"
	"github.com/turfloop/turfloop/internal/events"
	"github.com/turfloop/turfloop/internal/telemetry"
	"github.com/turfloop/turfloop/internal/territory"
	"github.com/turfloop/turfloop/internal/territory/gameserver"
	"github.com/turfloop/turfloop/internal/track"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "turfloop-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting turfloop API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	// Initialize the game-server client. Territories read through it;
	// accepted claims upload through it.
	gameClient := gameserver.NewClient(gameserver.ClientConfig{
		BaseURL: os.Getenv("GAMESERVER_BASE_URL"),
		APIKey:  os.Getenv("GAMESERVER_API_KEY"),
	})
	log.Info().Msg("game-server client initialized")

	// Territory snapshot service backed by the game server.
	territoryService := territory.NewService(territory.ServiceConfig{
		Source: gameClient,
		Logger: log,
	})
	log.Info().Msg("territory service initialized")

	// Optional claim-recorded event publisher.
	var publisher claim.EventPublisher
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	pubsubTopic := os.Getenv("PUBSUB_TOPIC")
	if pubsubProject != "" && pubsubTopic != "" {
		eventPublisher, pubErr := events.NewPublisher(ctx, events.Config{
			ProjectID: pubsubProject,
			TopicName: pubsubTopic,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to initialize event publisher")
		}
		defer func() {
			if closeErr := eventPublisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close event publisher")
			}
		}()
		publisher = eventPublisher
		log.Info().Str("topic", pubsubTopic).Msg("event publisher initialized")
	} else {
		log.Warn().Msg("Pub/Sub not configured - claim events disabled")
	}

	// Claim session service: GPS filtering, closure detection, validation,
	// collision checks and claim recording.
	claimService := claim.NewService(claim.ServiceConfig{
		Territories: territoryService,
		Engine:      collision.NewEngine(collision.DefaultConfig()),
		Repo:        claim.NewPostgresRepository(pool),
		Uploader:    gameClient,
		Publisher:   publisher,
		Track:       track.DefaultConfig(),
		Logger:      log,
	})
	log.Info().Msg("claim service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		JWTService:       jwtService,
		ClaimService:     claimService,
		TerritoryService: territoryService,
		DB:               pool,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
