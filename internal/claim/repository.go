package claim

import (
	"context"
	"errors"
)

// ErrClaimNotFound is returned when a claim record does not exist.
var ErrClaimNotFound = errors.New("claim not found")

// Repository defines the interface for claim record storage.
type Repository interface {
	// Get retrieves a claim by ID.
	Get(ctx context.Context, id string) (*Claim, error)

	// ListByOwner retrieves all claims recorded by an owner, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]Claim, error)

	// Create persists a new claim record.
	Create(ctx context.Context, c *Claim) error
}
