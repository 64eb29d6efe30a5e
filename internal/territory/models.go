// Package territory provides read access to claimed territories: the local
// store, the remote game-server client and a snapshot cache sized to the
// collision polling cadence.
package territory

import (
	"errors"
	"time"

	"github.com/turfloop/turfloop/internal/geo"
)

// Repository errors.
var (
	ErrTerritoryNotFound = errors.New("territory not found")
)

// Territory is a persisted, closed polygon claimed by a player. The engine
// only reads snapshots of territories; it never mutates them. The vertex
// ring is logically closed (the last vertex connects back to the first).
type Territory struct {
	ID               string
	OwnerID          string
	Vertices         []geo.Point
	AreaSquareMeters float64
	ClaimedAt        time.Time
}

// Polygon returns the vertex ring as a geo.Polygon.
func (t Territory) Polygon() geo.Polygon {
	return geo.Polygon(t.Vertices)
}
