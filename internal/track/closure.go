package track

import "github.com/turfloop/turfloop/internal/geo"

// IsClosed reports whether the path has returned to its own starting point:
// at least cfg.MinClosurePoints points, with the last point within
// cfg.ClosureRadiusMeters of the first.
//
// Callers must only evaluate this while the session is still open; once a
// loop closes, re-evaluation is skipped until the path is cleared so the
// closure event fires exactly once.
func IsClosed(points []geo.Point, cfg Config) bool {
	cfg = cfg.withDefaults()

	if len(points) < cfg.MinClosurePoints {
		return false
	}
	return geo.Distance(points[0], points[len(points)-1]) <= cfg.ClosureRadiusMeters
}
