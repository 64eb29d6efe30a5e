package collision_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turfloop/turfloop/internal/collision"
	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/territory"
)

// claimedSquare is a ~220m x 220m territory north-east of (52.0, 5.0).
func claimedSquare(id, owner string) territory.Territory {
	return territory.Territory{
		ID:      id,
		OwnerID: owner,
		Vertices: []geo.Point{
			{Lat: 52.0, Lon: 5.0},
			{Lat: 52.0, Lon: 5.003},
			{Lat: 52.002, Lon: 5.003},
			{Lat: 52.002, Lon: 5.0},
		},
		AreaSquareMeters: 45000,
	}
}

// pointMetersFrom offsets a point north by the given meters.
func pointMetersFrom(p geo.Point, northMeters float64) geo.Point {
	return geo.Point{Lat: p.Lat + northMeters/111195.0, Lon: p.Lon}
}

func TestEngine_CheckStartPoint_InsideForeignTerritory(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	foreign := claimedSquare("ter_1", "rival")

	// The centroid of a foreign territory is the canonical inside point.
	verdict := engine.CheckStartPoint(foreign.Polygon().Centroid(), []territory.Territory{foreign}, "player-1")

	require.True(t, verdict.HasCollision)
	assert.Equal(t, collision.KindPointInTerritory, verdict.Kind)
	assert.Equal(t, collision.LevelViolation, verdict.Level)
	assert.Contains(t, verdict.Message, "ter_1")
}

func TestEngine_CheckStartPoint_OwnTerritoryIgnored(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	own := claimedSquare("ter_1", "player-1")

	verdict := engine.CheckStartPoint(own.Polygon().Centroid(), []territory.Territory{own}, "player-1")
	assert.False(t, verdict.HasCollision)
}

func TestEngine_OwnerComparisonIsCaseInsensitive(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	own := claimedSquare("ter_1", "A7F3C9D1-0000-0000-0000-000000000001")

	verdict := engine.CheckStartPoint(
		own.Polygon().Centroid(),
		[]territory.Territory{own},
		"a7f3c9d1-0000-0000-0000-000000000001",
	)
	assert.False(t, verdict.HasCollision, "same owner in different letter case is not foreign")
}

func TestEngine_CheckPath_CrossingBoundary(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	foreign := claimedSquare("ter_1", "rival")

	// A path walking straight through the territory's western edge.
	path := []geo.Point{
		{Lat: 52.001, Lon: 4.998},
		{Lat: 52.001, Lon: 4.999},
		{Lat: 52.001, Lon: 5.001}, // across the edge at lon 5.0
	}

	verdict := engine.CheckPath(path, []territory.Territory{foreign}, "player-1")
	require.True(t, verdict.HasCollision)
	assert.Equal(t, collision.KindPathCrossesBoundary, verdict.Kind)
	assert.Equal(t, collision.LevelViolation, verdict.Level)
}

func TestEngine_CheckPath_LatestPointContained(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	foreign := claimedSquare("ter_1", "rival")

	// A single-segment path that starts and ends inside without a recorded
	// crossing still violates via containment of the latest point.
	path := []geo.Point{
		{Lat: 52.0005, Lon: 5.001},
		{Lat: 52.001, Lon: 5.0015},
	}

	verdict := engine.CheckPath(path, []territory.Territory{foreign}, "player-1")
	require.True(t, verdict.HasCollision)
	assert.Equal(t, collision.KindPointInTerritory, verdict.Kind)
}

func TestEngine_CheckPath_ClearOfTerritories(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	foreign := claimedSquare("ter_1", "rival")

	path := []geo.Point{
		{Lat: 52.01, Lon: 5.0},
		{Lat: 52.011, Lon: 5.0},
	}

	verdict := engine.CheckPath(path, []territory.Territory{foreign}, "player-1")
	assert.False(t, verdict.HasCollision)
	assert.Equal(t, collision.LevelSafe, verdict.Level)
}

func TestEngine_ProximityTiers(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	foreign := claimedSquare("ter_1", "rival")
	corner := geo.Point{Lat: 52.002, Lon: 5.0} // a territory vertex

	tests := []struct {
		name   string
		meters float64
		want   collision.Level
	}{
		{"well clear", 150, collision.LevelSafe},
		{"caution band", 60, collision.LevelCaution},
		{"warning band", 40, collision.LevelWarning},
		{"danger band", 10, collision.LevelDanger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pointMetersFrom(corner, tt.meters)
			verdict := engine.CheckStartPoint(p, []territory.Territory{foreign}, "player-1")

			assert.False(t, verdict.HasCollision)
			assert.Equal(t, tt.want, verdict.Level)
			assert.InDelta(t, tt.meters, verdict.NearestDistanceMeters, 1)
		})
	}
}

func TestEngine_Caution60mScenario(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	foreign := claimedSquare("ter_1", "rival")

	p := pointMetersFrom(geo.Point{Lat: 52.002, Lon: 5.0}, 60)
	verdict := engine.CheckPath([]geo.Point{p}, []territory.Territory{foreign}, "player-1")

	assert.False(t, verdict.HasCollision)
	assert.Equal(t, collision.LevelCaution, verdict.Level)
}

func TestEngine_MinDistance_NoForeignTerritories(t *testing.T) {
	engine := collision.NewEngine(collision.Config{})
	own := claimedSquare("ter_1", "player-1")

	d := engine.MinDistance(geo.Point{Lat: 52, Lon: 5}, []territory.Territory{own}, "player-1")
	assert.True(t, math.IsInf(d, 1))
}
