package polyline

import (
	"math"
	"testing"

	"github.com/turfloop/turfloop/internal/geo"
)

func TestDecodePoints_ValidPolyline(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []geo.Point
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "two points",
			encoded: "_p~iF~ps|U_ulLnnqC",
			expected: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DecodePoints(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d points, got %d", len(tt.expected), len(result))
			}

			for i, p := range result {
				if !pointsEqual(p, tt.expected[i], 0.001) {
					t.Errorf("point %d: expected %+v, got %+v", i, tt.expected[i], p)
				}
			}
		})
	}
}

func TestDecodePoints_EmptyString(t *testing.T) {
	result := DecodePoints("")
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestEncodePoints_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		points []geo.Point
	}{
		{
			name: "single point",
			points: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name: "two points",
			points: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
			},
		},
		{
			name: "three points",
			points: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
		{
			name: "small claim loop",
			points: []geo.Point{
				{Lat: 52.3676, Lon: 4.9041},
				{Lat: 52.3680, Lon: 4.9046},
				{Lat: 52.3684, Lon: 4.9041},
				{Lat: 52.3680, Lon: 4.9036},
				{Lat: 52.3676, Lon: 4.9041},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodePoints(tt.points)
			if encoded == "" {
				t.Fatal("expected non-empty encoded string")
			}

			// Verify round-trip
			decoded := DecodePoints(encoded)
			if len(decoded) != len(tt.points) {
				t.Fatalf("round-trip: expected %d points, got %d", len(tt.points), len(decoded))
			}

			for i, p := range decoded {
				if !pointsEqual(p, tt.points[i], 0.00001) {
					t.Errorf("round-trip point %d: expected %+v, got %+v", i, tt.points[i], p)
				}
			}
		})
	}
}

func TestEncodePoints_Empty(t *testing.T) {
	result := EncodePoints(nil)
	if result != "" {
		t.Errorf("expected empty string for nil points, got %q", result)
	}

	result = EncodePoints([]geo.Point{})
	if result != "" {
		t.Errorf("expected empty string for empty points, got %q", result)
	}
}

func TestRoundTrip_HighPrecision(t *testing.T) {
	// Test that encode->decode preserves points to 5 decimal places
	points := []geo.Point{
		{Lat: 52.37403, Lon: 4.88969},
		{Lat: 52.37234, Lon: 4.89231},
		{Lat: 52.37001, Lon: 4.89534},
	}

	encoded := EncodePoints(points)
	decoded := DecodePoints(encoded)

	for i, p := range decoded {
		// Precision of 5 decimal places = 0.00001
		if !pointsEqual(p, points[i], 0.00001) {
			t.Errorf("point %d lost precision: expected %+v, got %+v", i, points[i], p)
		}
	}
}

// pointsEqual checks if two points are equal within a tolerance.
func pointsEqual(a, b geo.Point, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}

func BenchmarkDecodePoints(b *testing.B) {
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DecodePoints(encoded)
	}
}

func BenchmarkEncodePoints(b *testing.B) {
	points := []geo.Point{
		{Lat: 38.5, Lon: -120.2},
		{Lat: 40.7, Lon: -120.95},
		{Lat: 43.252, Lon: -126.453},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EncodePoints(points)
	}
}
