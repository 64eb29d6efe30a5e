package territory

import "context"

// Repository defines the interface for territory persistence.
type Repository interface {
	// Get retrieves a territory by ID.
	// Returns ErrTerritoryNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Territory, error)

	// ListActive retrieves all currently-active territories.
	ListActive(ctx context.Context) ([]Territory, error)

	// ListActiveExcluding retrieves active territories not owned by ownerID.
	ListActiveExcluding(ctx context.Context, ownerID string) ([]Territory, error)

	// Create persists a new territory.
	Create(ctx context.Context, t *Territory) error
}
