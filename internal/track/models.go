// Package track implements the path tracking core of the claim engine:
// GPS sample filtering with an anti-cheat speed guard, loop-closure
// detection, self-intersection detection and claim validation, tied
// together by a per-session state machine.
package track

import (
	"sync"
	"time"

	"github.com/turfloop/turfloop/internal/geo"
)

// TimedPoint is a raw location fix: a coordinate plus capture timestamp and
// an optional horizontal accuracy estimate in meters. A negative accuracy
// means the estimate is missing or invalid.
type TimedPoint struct {
	geo.Point

	Timestamp time.Time
	Accuracy  float64
}

// Config holds the tuning thresholds for filtering, closure and validation.
// Zero fields are replaced with defaults by NewFilter/NewValidator.
type Config struct {
	// MaxAccuracyMeters is the horizontal accuracy ceiling. Fixes with a
	// worse (larger) accuracy are dropped. Default: 100.
	MaxAccuracyMeters float64

	// SpeedCheckMinSeconds is the minimum elapsed time between accepted
	// fixes for the speed gate to be meaningful. Fixes arriving closer
	// together in time bypass the speed check. Default: 0.5.
	SpeedCheckMinSeconds float64

	// RejectSpeedKmh is the hard speed ceiling. A fix implying a higher
	// speed is dropped as GPS noise; tracking continues. Default: 100.
	RejectSpeedKmh float64

	// WarnSpeedKmh is the soft speed ceiling. A fix implying a speed above
	// this (but at most RejectSpeedKmh) is accepted with a transient
	// warning. Default: 50.
	WarnSpeedKmh float64

	// SpeedWarningTTL is how long a raised speed warning stays visible
	// before it expires on its own. Default: 3s.
	SpeedWarningTTL time.Duration

	// MinSpacingMeters is the minimum distance from the last accepted
	// point. Profile range 3-10. Default: 5.
	MinSpacingMeters float64

	// SpacingGraceSeconds force-accepts a fix regardless of spacing when
	// nothing has been accepted for this long, so a very slow walker still
	// grows the path. Default: 10.
	SpacingGraceSeconds float64

	// MinClosurePoints is the point count below which closure is not
	// evaluated. Lower than MinValidationPoints so closure fires first.
	// Default: 8.
	MinClosurePoints int

	// ClosureRadiusMeters is how close the last point must return to the
	// first point for the loop to close. Default: 30.
	ClosureRadiusMeters float64

	// MinValidationPoints is the validator's point-count gate. Default: 15.
	MinValidationPoints int

	// MinTotalDistanceMeters is the validator's walked-distance gate.
	// Default: 100.
	MinTotalDistanceMeters float64

	// MinAreaSquareMeters is the validator's enclosed-area gate.
	// Default: 300.
	MinAreaSquareMeters float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MaxAccuracyMeters:      100,
		SpeedCheckMinSeconds:   0.5,
		RejectSpeedKmh:         100,
		WarnSpeedKmh:           50,
		SpeedWarningTTL:        3 * time.Second,
		MinSpacingMeters:       5,
		SpacingGraceSeconds:    10,
		MinClosurePoints:       8,
		ClosureRadiusMeters:    30,
		MinValidationPoints:    15,
		MinTotalDistanceMeters: 100,
		MinAreaSquareMeters:    300,
	}
}

// withDefaults fills zero fields with the default thresholds.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxAccuracyMeters <= 0 {
		c.MaxAccuracyMeters = def.MaxAccuracyMeters
	}
	if c.SpeedCheckMinSeconds <= 0 {
		c.SpeedCheckMinSeconds = def.SpeedCheckMinSeconds
	}
	if c.RejectSpeedKmh <= 0 {
		c.RejectSpeedKmh = def.RejectSpeedKmh
	}
	if c.WarnSpeedKmh <= 0 {
		c.WarnSpeedKmh = def.WarnSpeedKmh
	}
	if c.SpeedWarningTTL <= 0 {
		c.SpeedWarningTTL = def.SpeedWarningTTL
	}
	if c.MinSpacingMeters <= 0 {
		c.MinSpacingMeters = def.MinSpacingMeters
	}
	if c.SpacingGraceSeconds <= 0 {
		c.SpacingGraceSeconds = def.SpacingGraceSeconds
	}
	if c.MinClosurePoints <= 0 {
		c.MinClosurePoints = def.MinClosurePoints
	}
	if c.ClosureRadiusMeters <= 0 {
		c.ClosureRadiusMeters = def.ClosureRadiusMeters
	}
	if c.MinValidationPoints <= 0 {
		c.MinValidationPoints = def.MinValidationPoints
	}
	if c.MinTotalDistanceMeters <= 0 {
		c.MinTotalDistanceMeters = def.MinTotalDistanceMeters
	}
	if c.MinAreaSquareMeters <= 0 {
		c.MinAreaSquareMeters = def.MinAreaSquareMeters
	}
	return c
}

// Path is the ordered sequence of accepted points for one tracking session.
// The owning session is the only writer; readers iterate over Snapshot
// copies so a half-appended sequence is never observed.
type Path struct {
	mu     sync.RWMutex
	points []geo.Point
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// Append adds a point in walking order.
func (p *Path) Append(pt geo.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points = append(p.points, pt)
}

// Len returns the number of points.
func (p *Path) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.points)
}

// First returns the first point, if any.
func (p *Path) First() (geo.Point, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.points) == 0 {
		return geo.Point{}, false
	}
	return p.points[0], true
}

// Last returns the most recently accepted point, if any.
func (p *Path) Last() (geo.Point, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.points) == 0 {
		return geo.Point{}, false
	}
	return p.points[len(p.points)-1], true
}

// Snapshot returns a defensive copy of the points.
func (p *Path) Snapshot() []geo.Point {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]geo.Point, len(p.points))
	copy(out, p.points)
	return out
}

// Clear empties the path.
func (p *Path) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points = p.points[:0]
}
