// Package events publishes claim lifecycle events to Pub/Sub for the
// background worker and downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/claim"
)

// Publisher publishes claim events to a Pub/Sub topic.
type Publisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// Config holds configuration for the event publisher.
type Config struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// claimRecordedEvent is the wire form of a recorded claim. The job_type
// field routes the message inside the worker.
type claimRecordedEvent struct {
	JobType     string  `json:"job_type"`
	ClaimID     string  `json:"claim_id"`
	OwnerID     string  `json:"owner_id"`
	TerritoryID string  `json:"territory_id"`
	AreaM2      float64 `json:"area_m2"`
	PointCount  int     `json:"point_count"`
	RecordedAt  string  `json:"recorded_at"`
}

// NewPublisher creates a new event publisher.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &Publisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// ClaimRecorded publishes a claim_recorded event. Blocks until the message
// is accepted by the server or the context is cancelled.
func (p *Publisher) ClaimRecorded(ctx context.Context, c *claim.Claim) error {
	event := claimRecordedEvent{
		JobType:     "claim_recorded",
		ClaimID:     c.ID,
		OwnerID:     c.OwnerID,
		TerritoryID: c.TerritoryID,
		AreaM2:      c.AreaSquareMeters,
		PointCount:  c.PointCount,
		RecordedAt:  c.RecordedAt.UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal claim event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"job_type": "claim_recorded",
			"owner_id": c.OwnerID,
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish claim event: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("claim_id", c.ID).
		Msg("published claim_recorded event")

	return nil
}

// Close stops the publisher and releases the client.
func (p *Publisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

var _ claim.EventPublisher = (*Publisher)(nil)
