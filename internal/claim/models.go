// Package claim orchestrates claim attempts: it owns the active tracking
// sessions, runs collision checks against foreign territories, and turns a
// validated loop into a recorded territory.
package claim

import (
	"errors"
	"time"

	"github.com/turfloop/turfloop/internal/collision"
	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/track"
)

// Service errors.
var (
	// ErrSessionNotFound is returned when no active session has the ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStartInsideTerritory is returned when a session would start
	// inside territory owned by another player.
	ErrStartInsideTerritory = errors.New("start point is inside foreign territory")

	// ErrClaimNotReady is returned when Submit is called before the loop
	// has closed and validated.
	ErrClaimNotReady = errors.New("claim is not ready to submit")
)

// Claim is a recorded territory claim.
type Claim struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	OwnerID          string    `json:"owner_id"`
	TerritoryID      string    `json:"territory_id"`
	AreaSquareMeters float64   `json:"area_m2"`
	PointCount       int       `json:"point_count"`
	StartedAt        time.Time `json:"started_at"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// Status is a point-in-time view of an active session.
type Status struct {
	SessionID    string
	OwnerID      string
	State        track.State
	StartedAt    time.Time
	Points       []geo.Point
	PathMeters   float64
	SpeedWarning *track.SpeedWarning
	Verdict      *track.Verdict
	Collision    *collision.Verdict
}
