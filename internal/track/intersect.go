package track

import "github.com/turfloop/turfloop/internal/geo"

// seamWindow is the number of segments at the head and tail of the path
// that are exempt from mutual intersection checks. The loop-closing segment
// naturally comes back to the starting segment; without this window every
// properly closed loop would read as self-intersecting.
const seamWindow = 2

// HasSelfIntersection reports whether any two non-adjacent segments of the
// path cross, using the planar CCW test. Paths with fewer than 4 points
// cannot self-intersect.
//
// Pass a stable snapshot (Path.Snapshot), not a live slice.
func HasSelfIntersection(points []geo.Point) bool {
	if len(points) < 4 {
		return false
	}

	segments := len(points) - 1
	for i := 0; i < segments; i++ {
		for j := i + 2; j < segments; j++ {
			if i < seamWindow && j >= segments-seamWindow {
				continue
			}
			if geo.SegmentsIntersect(points[i], points[i+1], points[j], points[j+1]) {
				return true
			}
		}
	}
	return false
}
