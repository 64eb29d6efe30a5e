package geo

import (
	"fmt"
	"math"
	"strings"
)

// Polygon is an ordered ring of vertices. The ring is logically closed: the
// last vertex connects back to the first, whether or not the first vertex is
// repeated at the end.
type Polygon []Point

// Contains reports whether p lies inside the polygon using horizontal
// ray casting. Polygons with fewer than 3 vertices contain nothing.
func (poly Polygon) Contains(p Point) bool {
	if len(poly) < 3 {
		return false
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		yi, xi := poly[i].Lat, poly[i].Lon
		yj, xj := poly[j].Lat, poly[j].Lon

		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lon < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Area returns the enclosed area in square meters using a spherical
// shoelace approximation. Only valid for rings small relative to the Earth
// radius; returns 0 for fewer than 3 vertices.
func (poly Polygon) Area() float64 {
	if len(poly) < 3 {
		return 0
	}

	var sum float64
	for i := range poly {
		p1 := poly[i]
		p2 := poly[(i+1)%len(poly)]
		sum += radians(p2.Lon-p1.Lon) * (2 + math.Sin(radians(p1.Lat)) + math.Sin(radians(p2.Lat)))
	}

	return math.Abs(sum * EarthRadiusMeters * EarthRadiusMeters / 2)
}

// Bounds returns the bounding box of the polygon's vertices.
func (poly Polygon) Bounds() Bounds {
	if len(poly) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinLat: poly[0].Lat, MaxLat: poly[0].Lat,
		MinLon: poly[0].Lon, MaxLon: poly[0].Lon,
	}
	for _, p := range poly[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b
}

// Centroid returns the arithmetic mean of the vertices. Adequate for the
// small convex-ish rings the game produces; not an exact polygon centroid.
func (poly Polygon) Centroid() Point {
	if len(poly) == 0 {
		return Point{}
	}

	var lat, lon float64
	for _, p := range poly {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(poly))
	return Point{Lat: lat / n, Lon: lon / n}
}

// WKT serializes the polygon as a well-known-text POLYGON with vertices in
// lon-lat order and the first vertex repeated at the end to close the ring.
// This exact shape is what the game-server store expects.
func (poly Polygon) WKT() string {
	if len(poly) < 3 {
		return "POLYGON EMPTY"
	}

	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for _, p := range poly {
		fmt.Fprintf(&sb, "%f %f, ", p.Lon, p.Lat)
	}
	fmt.Fprintf(&sb, "%f %f))", poly[0].Lon, poly[0].Lat)
	return sb.String()
}
