package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	warmJob          *WarmJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	WarmJob          *WarmJob
	Logger           zerolog.Logger
}

// JobMessage represents a worker job message. Scheduled warms carry only
// job_type; claim_recorded messages also carry the claim fields published
// by the API.
type JobMessage struct {
	JobType     string  `json:"job_type"`
	ClaimID     string  `json:"claim_id,omitempty"`
	OwnerID     string  `json:"owner_id,omitempty"`
	TerritoryID string  `json:"territory_id,omitempty"`
	AreaM2      float64 `json:"area_m2,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		warmJob:          cfg.WarmJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Data, &jobMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	var err error
	switch jobMsg.JobType {
	case "territory_warm":
		err = h.handleTerritoryWarm(ctx)
	case "claim_recorded":
		err = h.handleClaimRecorded(ctx, jobMsg)
	case "health_check":
		err = h.handleHealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", jobMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", jobMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleTerritoryWarm(ctx context.Context) error {
	result := h.warmJob.Run(ctx)
	if result.Err != nil {
		return fmt.Errorf("territory warm: %w", result.Err)
	}

	for _, stats := range result.Regions {
		h.logger.Info().
			Str("region", stats.Region).
			Int("territories", stats.Territories).
			Float64("area_m2", stats.AreaSquareMeters).
			Msg("region coverage")
	}

	return nil
}

// handleClaimRecorded reacts to a freshly recorded claim. The snapshot the
// API serves is stale the moment a territory lands, so re-warm immediately
// instead of waiting for the next scheduled run.
func (h *PubSubHandler) handleClaimRecorded(ctx context.Context, msg JobMessage) error {
	h.logger.Info().
		Str("claim_id", msg.ClaimID).
		Str("territory_id", msg.TerritoryID).
		Str("owner_id", msg.OwnerID).
		Float64("area_m2", msg.AreaM2).
		Msg("claim recorded, re-warming snapshot")

	result := h.warmJob.Run(ctx)
	if result.Err != nil {
		return fmt.Errorf("re-warm after claim: %w", result.Err)
	}
	return nil
}

func (h *PubSubHandler) handleHealthCheck(ctx context.Context) error {
	h.logger.Debug().Msg("running health check")

	// A single snapshot fetch verifies game-server connectivity.
	healthCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := h.warmJob.source.ActiveSnapshot(healthCtx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	h.logger.Debug().Msg("health check passed")
	return nil
}
