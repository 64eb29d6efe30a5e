package track

import (
	"fmt"

	"github.com/turfloop/turfloop/internal/geo"
)

// FailureReason enumerates why a closed path failed validation.
type FailureReason string

// Validation failure reasons, in gate order.
const (
	FailInsufficientPoints   FailureReason = "insufficient_points"
	FailInsufficientDistance FailureReason = "insufficient_distance"
	FailSelfIntersection     FailureReason = "self_intersecting_path"
	FailInsufficientArea     FailureReason = "insufficient_area"
)

// Verdict is the outcome of validating a closed path. Immutable once
// produced; Detail carries the actual-vs-required values for rendering a
// user-facing message.
type Verdict struct {
	Valid            bool          `json:"valid"`
	Reason           FailureReason `json:"reason,omitempty"`
	Detail           string        `json:"detail,omitempty"`
	AreaSquareMeters float64       `json:"area_square_meters"`
}

// Validator runs the claim validation pipeline over a closed path.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator with the given thresholds; zero fields
// use defaults.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg.withDefaults()}
}

// Validate runs the ordered gates over a path snapshot, short-circuiting on
// the first failure: point count, total walked distance, self-intersection,
// enclosed area. It is a pure function of the points; repeating it on an
// unchanged path yields the same verdict.
func (v *Validator) Validate(points []geo.Point) Verdict {
	if len(points) < v.cfg.MinValidationPoints {
		return Verdict{
			Reason: FailInsufficientPoints,
			Detail: fmt.Sprintf("%d points walked, %d required", len(points), v.cfg.MinValidationPoints),
		}
	}

	if dist := geo.PathLength(points); dist < v.cfg.MinTotalDistanceMeters {
		return Verdict{
			Reason: FailInsufficientDistance,
			Detail: fmt.Sprintf("%.0fm walked, %.0fm required", dist, v.cfg.MinTotalDistanceMeters),
		}
	}

	if HasSelfIntersection(points) {
		return Verdict{
			Reason: FailSelfIntersection,
			Detail: "path crosses itself",
		}
	}

	area := geo.Polygon(points).Area()
	if area < v.cfg.MinAreaSquareMeters {
		return Verdict{
			Reason:           FailInsufficientArea,
			Detail:           fmt.Sprintf("%.0fm² enclosed, %.0fm² required", area, v.cfg.MinAreaSquareMeters),
			AreaSquareMeters: area,
		}
	}

	return Verdict{Valid: true, AreaSquareMeters: area}
}
