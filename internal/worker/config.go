// Package worker provides background job processing for turfloop.
package worker

import (
	"time"

	"github.com/turfloop/turfloop/internal/geo"
)

// Region is a named play area the warm job reports coverage for.
type Region struct {
	// Name is the human-readable name of the region.
	Name string

	// Bounds is the bounding box territories are counted against.
	Bounds geo.Bounds

	// Priority determines reporting order (lower = higher priority).
	Priority int
}

// WarmConfig holds configuration for the territory warm job.
type WarmConfig struct {
	// Regions are the play areas to report coverage for.
	// If empty, uses DefaultRegions.
	Regions []Region

	// Concurrency is the number of concurrent region scans.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for the snapshot fetch.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultWarmConfig returns the default warm configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Regions:     DefaultRegions(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// DefaultRegions returns the default regions for the Netherlands launch
// market. Focuses on the Randstad metropolitan area.
func DefaultRegions() []Region {
	return []Region{
		{
			Name:     "Amsterdam",
			Priority: 1,
			Bounds:   geo.Bounds{MinLat: 52.28, MinLon: 4.76, MaxLat: 52.43, MaxLon: 5.03},
		},
		{
			Name:     "Rotterdam",
			Priority: 1,
			Bounds:   geo.Bounds{MinLat: 51.85, MinLon: 4.37, MaxLat: 51.99, MaxLon: 4.60},
		},
		{
			Name:     "Den Haag",
			Priority: 1,
			Bounds:   geo.Bounds{MinLat: 52.01, MinLon: 4.22, MaxLat: 52.12, MaxLon: 4.41},
		},
		{
			Name:     "Utrecht",
			Priority: 1,
			Bounds:   geo.Bounds{MinLat: 52.03, MinLon: 5.04, MaxLat: 52.14, MaxLon: 5.19},
		},
		{
			Name:     "Eindhoven",
			Priority: 2,
			Bounds:   geo.Bounds{MinLat: 51.40, MinLon: 5.40, MaxLat: 51.50, MaxLon: 5.53},
		},
		{
			Name:     "Groningen",
			Priority: 3,
			Bounds:   geo.Bounds{MinLat: 53.18, MinLon: 6.51, MaxLat: 53.26, MaxLon: 6.63},
		},
	}
}

// Contains reports whether the point falls inside the region's bounds.
func (r Region) Contains(p geo.Point) bool {
	return p.Lat >= r.Bounds.MinLat && p.Lat <= r.Bounds.MaxLat &&
		p.Lon >= r.Bounds.MinLon && p.Lon <= r.Bounds.MaxLon
}
