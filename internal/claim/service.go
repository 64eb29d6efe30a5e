package claim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/collision"
	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/territory"
	"github.com/turfloop/turfloop/internal/territory/gameserver"
	"github.com/turfloop/turfloop/internal/track"
)

// TerritorySource supplies the foreign-territory snapshot for collision
// checks.
type TerritorySource interface {
	ForeignSnapshot(ctx context.Context, ownerID string) ([]territory.Territory, error)
}

// Uploader records a validated claim with the game-server store.
type Uploader interface {
	SubmitClaim(ctx context.Context, upload gameserver.ClaimUpload) (string, error)
}

// EventPublisher announces recorded claims, typically onto Pub/Sub.
type EventPublisher interface {
	ClaimRecorded(ctx context.Context, c *Claim) error
}

// ServiceConfig holds the claim service dependencies.
type ServiceConfig struct {
	Territories TerritorySource
	Engine      *collision.Engine
	Repo        Repository
	Uploader    Uploader

	// Publisher is optional; nil disables claim-recorded events.
	Publisher EventPublisher

	// Track configures the per-session filter and validator.
	Track track.Config

	Logger zerolog.Logger
}

type activeSession struct {
	session       *track.Session
	lastCollision *collision.Verdict
}

// Service owns the active claim sessions and drives a claim from first fix
// to recorded territory.
type Service struct {
	territories TerritorySource
	engine      *collision.Engine
	repo        Repository
	uploader    Uploader
	publisher   EventPublisher
	trackCfg    track.Config
	logger      zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*activeSession
}

// NewService creates a new claim service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		territories: cfg.Territories,
		engine:      cfg.Engine,
		repo:        cfg.Repo,
		uploader:    cfg.Uploader,
		publisher:   cfg.Publisher,
		trackCfg:    cfg.Track,
		logger:      cfg.Logger,
		sessions:    make(map[string]*activeSession),
	}
}

// StartSession begins a claim attempt at the given fix. It fails closed:
// if the start point lies inside foreign territory, or the territory
// snapshot cannot be fetched at all, no session is created.
func (s *Service) StartSession(ctx context.Context, ownerID string, first track.TimedPoint) (*Status, error) {
	foreign, err := s.territories.ForeignSnapshot(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetching territory snapshot: %w", err)
	}

	verdict := s.engine.CheckStartPoint(first.Point, foreign, ownerID)
	if verdict.HasCollision {
		s.logger.Info().
			Str("owner_id", ownerID).
			Str("kind", string(verdict.Kind)).
			Msg("session start refused")
		return nil, ErrStartInsideTerritory
	}

	id := "ses_" + uuid.New().String()[:22]
	session := track.NewSession(id, ownerID, s.trackCfg, s.logger)
	session.Start(first.Timestamp)

	if _, err := session.IngestFix(first); err != nil {
		return nil, err
	}

	active := &activeSession{session: session, lastCollision: &verdict}

	s.mu.Lock()
	s.sessions[id] = active
	s.mu.Unlock()

	s.logger.Info().
		Str("session_id", id).
		Str("owner_id", ownerID).
		Msg("session started")

	return s.status(active), nil
}

// IngestFix feeds one fix into the session.
func (s *Service) IngestFix(_ context.Context, sessionID string, fix track.TimedPoint) (track.FixResult, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return track.FixResult{}, err
	}
	return active.session.IngestFix(fix)
}

// CollisionTick checks the session path against the current foreign
// snapshot. A hard violation force-stops the session: the path is cleared
// and the session removed.
func (s *Service) CollisionTick(ctx context.Context, sessionID string) (collision.Verdict, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return collision.Verdict{}, err
	}

	session := active.session
	foreign, err := s.territories.ForeignSnapshot(ctx, session.OwnerID)
	if err != nil {
		return collision.Verdict{}, fmt.Errorf("fetching territory snapshot: %w", err)
	}

	verdict := s.engine.CheckPath(session.Snapshot(), foreign, session.OwnerID)

	s.mu.Lock()
	active.lastCollision = &verdict
	if verdict.HasCollision {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if verdict.HasCollision {
		session.Reset()
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("kind", string(verdict.Kind)).
			Str("detail", verdict.Message).
			Msg("session force-stopped on collision")
	}

	return verdict, nil
}

// Status returns a point-in-time view of the session.
func (s *Service) Status(_ context.Context, sessionID string) (*Status, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.status(active), nil
}

// Cancel discards the session and its path.
func (s *Service) Cancel(_ context.Context, sessionID string) error {
	s.mu.Lock()
	active, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	active.session.Reset()
	s.logger.Info().Str("session_id", sessionID).Msg("session cancelled")
	return nil
}

// Submit records a closed, valid claim with the game-server store,
// persists the claim record, publishes a claim-recorded event and retires
// the session.
func (s *Service) Submit(ctx context.Context, sessionID string) (*Claim, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	session := active.session

	verdict, ok := session.Verdict()
	if !ok || !verdict.Valid {
		return nil, ErrClaimNotReady
	}

	points := session.Snapshot()
	upload := gameserver.NewClaimUpload(session.OwnerID, points, verdict.AreaSquareMeters, session.StartedAt)

	territoryID, err := s.uploader.SubmitClaim(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("recording claim: %w", err)
	}

	record := &Claim{
		ID:               "clm_" + uuid.New().String()[:22],
		SessionID:        sessionID,
		OwnerID:          session.OwnerID,
		TerritoryID:      territoryID,
		AreaSquareMeters: verdict.AreaSquareMeters,
		PointCount:       len(points),
		StartedAt:        session.StartedAt,
		RecordedAt:       time.Now(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persisting claim: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.ClaimRecorded(ctx, record); err != nil {
			// The claim is recorded either way; the event is best effort.
			s.logger.Error().Err(err).
				Str("claim_id", record.ID).
				Msg("publishing claim-recorded event failed")
		}
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	session.Reset()

	s.logger.Info().
		Str("session_id", sessionID).
		Str("claim_id", record.ID).
		Str("territory_id", territoryID).
		Float64("area_m2", record.AreaSquareMeters).
		Msg("claim recorded")

	return record, nil
}

func (s *Service) lookup(sessionID string) (*activeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return active, nil
}

func (s *Service) status(active *activeSession) *Status {
	session := active.session
	points := session.Snapshot()

	st := &Status{
		SessionID:    session.ID,
		OwnerID:      session.OwnerID,
		State:        session.State(),
		StartedAt:    session.StartedAt,
		Points:       points,
		PathMeters:   geo.PathLength(points),
		SpeedWarning: session.Warning(time.Now()),
	}

	if verdict, ok := session.Verdict(); ok {
		st.Verdict = &verdict
	}

	s.mu.RLock()
	st.Collision = active.lastCollision
	s.mu.RUnlock()

	return st
}
