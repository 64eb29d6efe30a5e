// Package geo provides geographic primitives for the claim engine:
// great-circle distance, planar segment intersection, polygon containment
// and spherical polygon area.
//
// Distances and areas are computed on a sphere with the mean Earth radius.
// Orientation tests (CCW, segment intersection, ray casting) use a planar
// approximation with longitude as x and latitude as y, which is accurate at
// the sub-kilometer scale of a walked loop. Validation thresholds elsewhere
// in the engine were tuned against this mix; keep it.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for all spherical math.
const EarthRadiusMeters = 6371000.0

// Point is a geographic coordinate in degrees (WGS-84).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Distance returns the great-circle distance between a and b in meters
// using the haversine formula.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// PathLength returns the sum of consecutive great-circle distances along
// the given points. Fewer than two points have zero length.
func PathLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// CCW reports whether the turn a -> b -> c is counter-clockwise in the
// planar lon/lat approximation.
func CCW(a, b, c Point) bool {
	return (c.Lat-a.Lat)*(b.Lon-a.Lon) > (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// SegmentsIntersect reports whether segment (p1,p2) crosses segment (p3,p4).
// Collinear touching endpoints are not reported as intersections, which is
// the desired behavior for consecutive path segments sharing a vertex.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	return CCW(p1, p3, p4) != CCW(p2, p3, p4) && CCW(p1, p2, p3) != CCW(p1, p2, p4)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
