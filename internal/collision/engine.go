// Package collision compares claim paths and points against territories
// owned by other players: hard containment/crossing violations plus a
// tiered proximity advisory.
package collision

import (
	"fmt"
	"math"
	"strings"

	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/territory"
)

// Kind enumerates hard collision kinds.
type Kind string

// Collision kinds.
const (
	KindPointInTerritory    Kind = "point_in_territory"
	KindPathCrossesBoundary Kind = "path_crosses_boundary"
)

// Level is the proximity warning tier, ordered by severity.
type Level string

// Warning tiers. Violation is reserved for hard containment/crossing hits;
// the other tiers map from distance to the nearest foreign vertex.
const (
	LevelSafe      Level = "safe"      // > 100m
	LevelCaution   Level = "caution"   // 50-100m
	LevelWarning   Level = "warning"   // 25-50m
	LevelDanger    Level = "danger"    // < 25m
	LevelViolation Level = "violation"
)

// Verdict is the outcome of one collision check. Pure output over a
// point-in-time territory snapshot; never persisted.
type Verdict struct {
	HasCollision          bool    `json:"has_collision"`
	Kind                  Kind    `json:"kind,omitempty"`
	Message               string  `json:"message,omitempty"`
	NearestDistanceMeters float64 `json:"nearest_distance_meters"`
	Level                 Level   `json:"level"`
}

// Config holds the proximity tier thresholds in meters.
type Config struct {
	SafeDistance    float64 // default 100
	CautionDistance float64 // default 50
	WarningDistance float64 // default 25
}

// DefaultConfig returns the production tier thresholds.
func DefaultConfig() Config {
	return Config{
		SafeDistance:    100,
		CautionDistance: 50,
		WarningDistance: 25,
	}
}

// Engine runs collision checks against foreign territories.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine; zero thresholds use defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.SafeDistance <= 0 {
		cfg.SafeDistance = def.SafeDistance
	}
	if cfg.CautionDistance <= 0 {
		cfg.CautionDistance = def.CautionDistance
	}
	if cfg.WarningDistance <= 0 {
		cfg.WarningDistance = def.WarningDistance
	}
	return &Engine{cfg: cfg}
}

// foreign reports whether the territory belongs to someone other than
// ownerID. Persisted UUIDs and in-memory ones may differ in letter case.
func foreign(t territory.Territory, ownerID string) bool {
	return !strings.EqualFold(t.OwnerID, ownerID)
}

// CheckStartPoint reports a violation when the given point lies inside any
// territory not owned by ownerID. It fails closed: a claim must not begin
// inside foreign ground.
func (e *Engine) CheckStartPoint(p geo.Point, territories []territory.Territory, ownerID string) Verdict {
	for _, t := range territories {
		if !foreign(t, ownerID) {
			continue
		}
		if geo.Polygon(t.Vertices).Contains(p) {
			return Verdict{
				HasCollision: true,
				Kind:         KindPointInTerritory,
				Message:      fmt.Sprintf("start point is inside territory %s", t.ID),
				Level:        LevelViolation,
			}
		}
	}

	return e.advisory(p, territories, ownerID)
}

// CheckPath reports a violation when any path segment crosses a foreign
// territory edge, or when the path's latest point has entered a foreign
// territory. Either condition is fatal to the in-progress claim.
func (e *Engine) CheckPath(points []geo.Point, territories []territory.Territory, ownerID string) Verdict {
	if len(points) == 0 {
		return Verdict{NearestDistanceMeters: math.Inf(1), Level: LevelSafe}
	}

	for _, t := range territories {
		if !foreign(t, ownerID) || len(t.Vertices) < 3 {
			continue
		}

		ring := t.Vertices
		for i := 1; i < len(points); i++ {
			for j := range ring {
				e1 := ring[j]
				e2 := ring[(j+1)%len(ring)]
				if geo.SegmentsIntersect(points[i-1], points[i], e1, e2) {
					return Verdict{
						HasCollision: true,
						Kind:         KindPathCrossesBoundary,
						Message:      fmt.Sprintf("path crosses the boundary of territory %s", t.ID),
						Level:        LevelViolation,
					}
				}
			}
		}

		if geo.Polygon(ring).Contains(points[len(points)-1]) {
			return Verdict{
				HasCollision: true,
				Kind:         KindPointInTerritory,
				Message:      fmt.Sprintf("path entered territory %s", t.ID),
				Level:        LevelViolation,
			}
		}
	}

	return e.advisory(points[len(points)-1], territories, ownerID)
}

// MinDistance returns the minimum great-circle distance from p to every
// vertex of every foreign territory. This is a vertex approximation, not a
// point-to-edge distance; the tier thresholds were tuned against it.
// Returns +Inf when there is no foreign territory.
func (e *Engine) MinDistance(p geo.Point, territories []territory.Territory, ownerID string) float64 {
	min := math.Inf(1)
	for _, t := range territories {
		if !foreign(t, ownerID) {
			continue
		}
		for _, v := range t.Vertices {
			if d := geo.Distance(p, v); d < min {
				min = d
			}
		}
	}
	return min
}

// LevelForDistance maps a proximity distance to a warning tier.
func (e *Engine) LevelForDistance(meters float64) Level {
	switch {
	case meters > e.cfg.SafeDistance:
		return LevelSafe
	case meters > e.cfg.CautionDistance:
		return LevelCaution
	case meters > e.cfg.WarningDistance:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// advisory builds the non-fatal proximity verdict for a point.
func (e *Engine) advisory(p geo.Point, territories []territory.Territory, ownerID string) Verdict {
	dist := e.MinDistance(p, territories, ownerID)
	return Verdict{
		NearestDistanceMeters: dist,
		Level:                 e.LevelForDistance(dist),
	}
}
