package claim

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	claims map[string]*Claim
}

// NewInMemoryRepository creates a new in-memory claim repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		claims: make(map[string]*Claim),
	}
}

// Get retrieves a claim by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, ErrClaimNotFound
	}

	cpy := *c
	return &cpy, nil
}

// ListByOwner retrieves all claims recorded by an owner, newest first.
func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Claim
	for _, c := range r.claims {
		if strings.EqualFold(c.OwnerID, ownerID) {
			out = append(out, *c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	return out, nil
}

// Create persists a new claim record.
func (r *InMemoryRepository) Create(_ context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *c
	r.claims[c.ID] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
