package territory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Lister is the read side of the territory store.
type Lister interface {
	ListActive(ctx context.Context) ([]Territory, error)
}

// ServiceConfig holds configuration for the territory snapshot service.
type ServiceConfig struct {
	// Source is the territory store (game-server client or repository).
	Source Lister

	// Logger for service operations.
	Logger zerolog.Logger

	// SnapshotTTL is how long a fetched snapshot stays fresh. Matches the
	// collision polling cadence. Default: 10s.
	SnapshotTTL time.Duration

	// StaleIfErrorTTL allows serving a stale snapshot when the store is
	// unreachable. Default: 2 minutes.
	StaleIfErrorTTL time.Duration
}

// Service caches point-in-time snapshots of active territories. Collision
// checks run every few seconds while a claim is in progress; the cache
// keeps that from hammering the store.
type Service struct {
	source          Lister
	logger          zerolog.Logger
	snapshotTTL     time.Duration
	staleIfErrorTTL time.Duration

	mu        sync.RWMutex
	snapshot  []Territory
	fetchedAt time.Time
}

// NewService creates a new territory snapshot service.
func NewService(cfg ServiceConfig) *Service {
	snapshotTTL := cfg.SnapshotTTL
	if snapshotTTL == 0 {
		snapshotTTL = 10 * time.Second
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 2 * time.Minute
	}

	return &Service{
		source:          cfg.Source,
		logger:          cfg.Logger,
		snapshotTTL:     snapshotTTL,
		staleIfErrorTTL: staleIfErrorTTL,
	}
}

// ActiveSnapshot returns the active territories, from cache when fresh.
// On a store error a stale snapshot is served for up to StaleIfErrorTTL.
func (s *Service) ActiveSnapshot(ctx context.Context) ([]Territory, error) {
	s.mu.RLock()
	age := time.Since(s.fetchedAt)
	cached := s.snapshot
	hasCache := !s.fetchedAt.IsZero()
	s.mu.RUnlock()

	if hasCache && age < s.snapshotTTL {
		return cached, nil
	}

	fresh, err := s.source.ListActive(ctx)
	if err != nil {
		if hasCache && age < s.staleIfErrorTTL {
			s.logger.Warn().
				Err(err).
				Dur("age", age).
				Msg("territory fetch failed, serving stale snapshot")
			return cached, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = fresh
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return fresh, nil
}

// ForeignSnapshot returns the active territories not owned by ownerID.
// The comparison is case-insensitive.
func (s *Service) ForeignSnapshot(ctx context.Context, ownerID string) ([]Territory, error) {
	all, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	foreign := make([]Territory, 0, len(all))
	for _, t := range all {
		if strings.EqualFold(t.OwnerID, ownerID) {
			continue
		}
		foreign = append(foreign, t)
	}
	return foreign, nil
}

// Refresh forces a snapshot fetch regardless of freshness, for cache
// warming by the worker.
func (s *Service) Refresh(ctx context.Context) error {
	fresh, err := s.source.ListActive(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = fresh
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}
