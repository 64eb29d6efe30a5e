package track_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/track"
)

// circleLoop returns n points on a circle of the given radius in meters,
// starting and ending near the same point (the ring is left open by one
// step, the way a walked loop arrives back at its start).
func circleLoop(center geo.Point, radiusMeters float64, n int) []geo.Point {
	points := make([]geo.Point, 0, n)
	for k := 0; k < n; k++ {
		angle := 2 * math.Pi * float64(k) / float64(n)
		north := radiusMeters * math.Sin(angle)
		east := radiusMeters * math.Cos(angle)
		points = append(points, geo.Point{
			Lat: center.Lat + north/111195.0,
			Lon: center.Lon + east/(111195.0*math.Cos(center.Lat*math.Pi/180)),
		})
	}
	return points
}

// squareLoop returns points every stepMeters along the perimeter of a
// square with the given side length, starting at the south-west corner.
func squareLoop(origin geo.Point, sideMeters, stepMeters float64) []geo.Point {
	perimeter := 4 * sideMeters
	var points []geo.Point
	for d := 0.0; d < perimeter; d += stepMeters {
		var east, north float64
		switch {
		case d < sideMeters:
			east, north = d, 0
		case d < 2*sideMeters:
			east, north = sideMeters, d-sideMeters
		case d < 3*sideMeters:
			east, north = sideMeters-(d-2*sideMeters), sideMeters
		default:
			east, north = 0, sideMeters-(d-3*sideMeters)
		}
		points = append(points, geo.Point{
			Lat: origin.Lat + north/111195.0,
			Lon: origin.Lon + east/(111195.0*math.Cos(origin.Lat*math.Pi/180)),
		})
	}
	return points
}

func TestIsClosed(t *testing.T) {
	cfg := track.Config{}
	center := geo.Point{Lat: 52.37, Lon: 4.89}

	loop := circleLoop(center, 50, 16)
	assert.True(t, track.IsClosed(loop, cfg), "full loop should be closed")

	assert.False(t, track.IsClosed(loop[:10], cfg), "half-walked loop is open")
	assert.False(t, track.IsClosed(loop[:4], cfg), "too few points is open regardless of distance")
}

func TestHasSelfIntersection_ConvexLoop(t *testing.T) {
	loop := circleLoop(geo.Point{Lat: 52.37, Lon: 4.89}, 50, 16)
	assert.False(t, track.HasSelfIntersection(loop))
}

func TestHasSelfIntersection_FigureEight(t *testing.T) {
	// Two lobes crossing once in the middle. The crossing segments sit
	// mid-path, away from the head/tail seam window.
	o := geo.Point{Lat: 52.0, Lon: 5.0}
	step := 1.0 / 111195.0 // ~1m in degrees latitude
	figureEight := []geo.Point{
		{Lat: o.Lat, Lon: o.Lon},
		{Lat: o.Lat + 20*step, Lon: o.Lon + 10*step},
		{Lat: o.Lat + 40*step, Lon: o.Lon + 20*step},
		{Lat: o.Lat + 60*step, Lon: o.Lon},
		{Lat: o.Lat + 40*step, Lon: o.Lon - 20*step},
		{Lat: o.Lat + 20*step, Lon: o.Lon + 30*step},
		{Lat: o.Lat, Lon: o.Lon + 20*step},
		{Lat: o.Lat - 20*step, Lon: o.Lon + 10*step},
		{Lat: o.Lat - 40*step, Lon: o.Lon},
	}
	assert.True(t, track.HasSelfIntersection(figureEight))
}

func TestHasSelfIntersection_TooFewPoints(t *testing.T) {
	triangle := []geo.Point{
		{Lat: 52.0, Lon: 5.0},
		{Lat: 52.001, Lon: 5.0},
		{Lat: 52.0, Lon: 5.001},
	}
	assert.False(t, track.HasSelfIntersection(triangle))
}

func TestHasSelfIntersection_ClosingSeamNotFlagged(t *testing.T) {
	// A properly closed loop's final segment comes back next to the first
	// segment; the seam window keeps that from reading as a crossing.
	loop := circleLoop(geo.Point{Lat: 52.37, Lon: 4.89}, 40, 24)
	assert.False(t, track.HasSelfIntersection(loop))
}

func TestValidator_Gates(t *testing.T) {
	v := track.NewValidator(track.Config{})
	center := geo.Point{Lat: 52.37, Lon: 4.89}

	t.Run("too few points", func(t *testing.T) {
		verdict := v.Validate(circleLoop(center, 50, 10))
		assert.False(t, verdict.Valid)
		assert.Equal(t, track.FailInsufficientPoints, verdict.Reason)
		assert.Contains(t, verdict.Detail, "15 required")
	})

	t.Run("too short", func(t *testing.T) {
		// 16 points bunched within a few meters.
		verdict := v.Validate(circleLoop(center, 4, 16))
		assert.False(t, verdict.Valid)
		assert.Equal(t, track.FailInsufficientDistance, verdict.Reason)
	})

	t.Run("self-intersecting", func(t *testing.T) {
		// A long loop with a deliberate crossing spliced into the middle.
		loop := circleLoop(center, 50, 16)
		loop[7], loop[9] = loop[9], loop[7]
		verdict := v.Validate(loop)
		assert.False(t, verdict.Valid)
		assert.Equal(t, track.FailSelfIntersection, verdict.Reason)
	})

	t.Run("too small an area", func(t *testing.T) {
		// A thin out-and-back corridor: plenty of distance, almost no
		// enclosed area.
		verdict := v.Validate(corridorLoop(center, 120, 0.5, 16))
		assert.False(t, verdict.Valid)
		assert.Equal(t, track.FailInsufficientArea, verdict.Reason)
	})

	t.Run("valid loop", func(t *testing.T) {
		verdict := v.Validate(circleLoop(center, 50, 16))
		require.True(t, verdict.Valid)
		assert.Empty(t, verdict.Reason)
		assert.InDelta(t, math.Pi*50*50, verdict.AreaSquareMeters, 800)
	})
}

// corridorLoop builds a hairpin: out along a line and back, offset by
// widthMeters.
func corridorLoop(origin geo.Point, lengthMeters, widthMeters float64, n int) []geo.Point {
	half := n / 2
	points := make([]geo.Point, 0, n)
	for k := 0; k < half; k++ {
		north := lengthMeters * float64(k) / float64(half-1)
		points = append(points, geo.Point{Lat: origin.Lat + north/111195.0, Lon: origin.Lon})
	}
	dLon := widthMeters / (111195.0 * math.Cos(origin.Lat*math.Pi/180))
	for k := half - 1; k >= 0; k-- {
		north := lengthMeters * float64(k) / float64(half-1)
		points = append(points, geo.Point{Lat: origin.Lat + north/111195.0, Lon: origin.Lon + dLon})
	}
	return points
}

func TestValidator_SquareScenario(t *testing.T) {
	// 16 points spaced 10m apart around a 40m square: closure fires, no
	// self-intersection, area ~1,600 m² passes the default 300 m² gate.
	loop := squareLoop(geo.Point{Lat: 52.0, Lon: 5.0}, 40, 10)
	require.Len(t, loop, 16)

	assert.False(t, track.HasSelfIntersection(loop))

	v := track.NewValidator(track.Config{})
	verdict := v.Validate(loop)
	require.True(t, verdict.Valid, "verdict: %+v", verdict)
	assert.InDelta(t, 1600, verdict.AreaSquareMeters, 60)
}

func TestValidator_Idempotent(t *testing.T) {
	v := track.NewValidator(track.Config{})
	loop := circleLoop(geo.Point{Lat: 52.37, Lon: 4.89}, 50, 16)

	first := v.Validate(loop)
	second := v.Validate(loop)
	assert.Equal(t, first, second)
}
