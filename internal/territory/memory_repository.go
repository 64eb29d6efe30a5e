package territory

import (
	"context"
	"strings"
	"sync"

	"github.com/turfloop/turfloop/internal/geo"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu          sync.RWMutex
	territories map[string]*Territory
}

// NewInMemoryRepository creates a new in-memory territory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		territories: make(map[string]*Territory),
	}
}

// Get retrieves a territory by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.territories[id]
	if !ok {
		return nil, ErrTerritoryNotFound
	}

	cpy := r.copyOf(t)
	return &cpy, nil
}

// ListActive retrieves all territories.
func (r *InMemoryRepository) ListActive(_ context.Context) ([]Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Territory, 0, len(r.territories))
	for _, t := range r.territories {
		out = append(out, r.copyOf(t))
	}
	return out, nil
}

// ListActiveExcluding retrieves territories not owned by ownerID.
func (r *InMemoryRepository) ListActiveExcluding(_ context.Context, ownerID string) ([]Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Territory
	for _, t := range r.territories {
		if strings.EqualFold(t.OwnerID, ownerID) {
			continue
		}
		out = append(out, r.copyOf(t))
	}
	return out, nil
}

// Create persists a new territory.
func (r *InMemoryRepository) Create(_ context.Context, t *Territory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := r.copyOf(t)
	r.territories[t.ID] = &cpy
	return nil
}

// copyOf deep-copies a territory, including its vertex ring.
func (r *InMemoryRepository) copyOf(t *Territory) Territory {
	cpy := *t
	cpy.Vertices = append([]geo.Point(nil), t.Vertices...)
	return cpy
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
