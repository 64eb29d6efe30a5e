package track

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/turfloop/turfloop/internal/geo"
)

// Session errors.
var (
	// ErrSessionNotAccumulating is returned when a fix arrives for a
	// session that is idle or already closed.
	ErrSessionNotAccumulating = errors.New("session is not accumulating")
)

// State is the lifecycle state of a tracking session.
type State string

// Session states. The only transitions are Idle -> Accumulating on Start,
// Accumulating -> Closed on loop closure, and any -> Idle on Reset.
const (
	StateIdle         State = "idle"
	StateAccumulating State = "accumulating"
	StateClosed       State = "closed"
)

// FixResult is the outcome of ingesting one fix.
type FixResult struct {
	Decision Decision

	// Closed is set on the single fix that closed the loop.
	Closed bool

	// Verdict is set together with Closed: validation runs exactly once
	// per closure event.
	Verdict *Verdict
}

// Session owns one claim attempt: the path, the derived closure state, the
// transient speed warning and the validation verdict. It is the single
// mutator of its path; every derived computation runs over a snapshot.
type Session struct {
	ID        string
	OwnerID   string
	StartedAt time.Time

	cfg       Config
	filter    *Filter
	validator *Validator
	log       zerolog.Logger

	mu           sync.Mutex
	state        State
	path         *Path
	lastAccepted time.Time
	warning      *SpeedWarning
	verdict      *Verdict
}

// NewSession creates an idle session for one claim attempt.
func NewSession(id, ownerID string, cfg Config, log zerolog.Logger) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		ID:        id,
		OwnerID:   ownerID,
		cfg:       cfg,
		filter:    NewFilter(cfg),
		validator: NewValidator(cfg),
		log:       log.With().Str("session_id", id).Logger(),
		state:     StateIdle,
		path:      NewPath(),
	}
}

// Start moves the session into the accumulating state.
func (s *Session) Start(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAccumulating
	s.StartedAt = now
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IngestFix feeds one raw fix through the filter and, when accepted,
// appends it and re-evaluates closure. Validation runs exactly once, on the
// fix that closes the loop; while closed, further fixes are refused.
func (s *Session) IngestFix(fix TimedPoint) (FixResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAccumulating {
		return FixResult{}, ErrSessionNotAccumulating
	}

	decision := s.filter.Consider(fix, s.path, s.lastAccepted)
	result := FixResult{Decision: decision}

	if decision.RaiseWarning {
		s.warning = &SpeedWarning{
			SpeedKmh:  decision.SpeedKmh,
			RaisedAt:  fix.Timestamp,
			ExpiresAt: fix.Timestamp.Add(s.cfg.SpeedWarningTTL),
		}
		s.log.Warn().
			Float64("speed_kmh", decision.SpeedKmh).
			Msg("moving fast")
	} else if decision.ClearWarning {
		s.warning = nil
	}

	if !decision.Accepted {
		s.log.Debug().
			Str("reason", string(decision.Reason)).
			Msg("fix rejected")
		return result, nil
	}

	s.path.Append(fix.Point)
	s.lastAccepted = fix.Timestamp

	points := s.path.Snapshot()
	if IsClosed(points, s.cfg) {
		s.state = StateClosed
		verdict := s.validator.Validate(points)
		s.verdict = &verdict
		result.Closed = true
		result.Verdict = &verdict

		s.log.Info().
			Bool("valid", verdict.Valid).
			Str("reason", string(verdict.Reason)).
			Float64("area_m2", verdict.AreaSquareMeters).
			Int("points", len(points)).
			Msg("loop closed")
	}

	return result, nil
}

// Snapshot returns a stable copy of the path points.
func (s *Session) Snapshot() []geo.Point {
	return s.path.Snapshot()
}

// LatestPoint returns the most recently accepted point, if any.
func (s *Session) LatestPoint() (geo.Point, bool) {
	return s.path.Last()
}

// Warning returns the active speed warning, or nil once it has expired.
func (s *Session) Warning(now time.Time) *SpeedWarning {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.warning.Active(now) {
		return nil
	}
	w := *s.warning
	return &w
}

// Verdict returns the validation verdict. It is only available from the
// closed state.
func (s *Session) Verdict() (Verdict, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateClosed || s.verdict == nil {
		return Verdict{}, false
	}
	return *s.verdict, true
}

// Reset atomically clears the path and every piece of derived state: the
// closure state, the speed warning and the verdict. Partial resets leave a
// stale verdict alive past a path clear, so everything goes together.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path.Clear()
	s.state = StateIdle
	s.lastAccepted = time.Time{}
	s.warning = nil
	s.verdict = nil
}
