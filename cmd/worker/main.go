// Package main provides the entrypoint for the turfloop background worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/territory"
	"github.com/turfloop/turfloop/internal/territory/gameserver"
	"github.com/turfloop/turfloop/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "turfloop-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting turfloop worker")

	// Worker also exposes health endpoints for Cloud Run.
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Game-server client and territory snapshot service; the warm job
	// keeps the snapshot fresh so API pods start against a warm cache.
	gameClient := gameserver.NewClient(gameserver.ClientConfig{
		BaseURL: os.Getenv("GAMESERVER_BASE_URL"),
		APIKey:  os.Getenv("GAMESERVER_API_KEY"),
	})

	territoryService := territory.NewService(territory.ServiceConfig{
		Source: gameClient,
		Logger: log,
	})

	warmJob := worker.NewWarmJob(worker.WarmJobConfig{
		Config: worker.DefaultWarmConfig(),
		Logger: log,
		Source: territoryService,
	})

	// Pub/Sub handler is optional; without it the worker runs on the
	// interval ticker alone.
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	pubsubSubscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if pubsubProject != "" && pubsubSubscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        pubsubProject,
			SubscriptionName: pubsubSubscription,
			WarmJob:          warmJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub handler")
		}
		defer func() {
			if closeErr := handler.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub handler")
			}
		}()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler failed")
			}
		}()
	} else {
		log.Warn().Msg("Pub/Sub not configured - running on interval only")
	}

	// Interval warm loop as a backstop for missed messages.
	warmInterval := 5 * time.Minute
	if raw := os.Getenv("WARM_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			warmInterval = parsed
		} else {
			log.Warn().Str("warm_interval", raw).Msg("invalid WARM_INTERVAL, using default")
		}
	}

	go func() {
		ticker := time.NewTicker(warmInterval)
		defer ticker.Stop()

		// Warm once at startup.
		_ = warmJob.Run(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = warmJob.Run(ctx)
			}
		}
	}()

	// Health check server.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"version": Version,
		})
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(warmJob.MetricsSnapshot())
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
