package track

import (
	"time"

	"github.com/turfloop/turfloop/internal/geo"
)

// RejectReason enumerates why a fix was dropped. Rejections are never
// fatal; tracking continues and the next fix is evaluated fresh.
type RejectReason string

// Reject reasons, in the order the rules are applied.
const (
	RejectInvalidAccuracy RejectReason = "invalid_accuracy"
	RejectLowAccuracy     RejectReason = "low_accuracy"
	RejectOverSpeed       RejectReason = "over_speed"
	RejectTooClose        RejectReason = "too_close"
)

// Decision is the outcome of filtering one fix.
type Decision struct {
	// Accepted reports whether the fix should be appended to the path.
	Accepted bool

	// Reason is set when the fix was rejected.
	Reason RejectReason

	// SpeedKmh is the implied speed since the last accepted fix, when the
	// speed gate ran. Zero otherwise.
	SpeedKmh float64

	// RaiseWarning is set when the fix was accepted at a moderate
	// over-speed and the caller should surface a transient warning.
	RaiseWarning bool

	// ClearWarning is set when a normal-speed fix should clear any active
	// warning early.
	ClearWarning bool
}

// SpeedWarning is the transient "moving fast" advisory raised on moderate
// over-speed. It expires on its own after the configured TTL whether or not
// further fixes arrive.
type SpeedWarning struct {
	SpeedKmh  float64   `json:"speed_kmh"`
	RaisedAt  time.Time `json:"raised_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the warning is still visible at the given time.
func (w *SpeedWarning) Active(now time.Time) bool {
	return w != nil && now.Before(w.ExpiresAt)
}

// Filter decides whether raw fixes should extend the active path. It is
// pure: appending accepted fixes is the owning session's job.
type Filter struct {
	cfg Config
}

// NewFilter creates a filter with the given thresholds; zero fields use
// defaults.
func NewFilter(cfg Config) *Filter {
	return &Filter{cfg: cfg.withDefaults()}
}

// Consider evaluates one fix against the path's last accepted point.
// lastAccepted is the zero time when no fix has been accepted yet.
//
// Rules, in order: accuracy ceiling, speed gate (bypassed when the fix
// arrived within SpeedCheckMinSeconds of the previous accept), minimum
// spacing with a grace period, and unconditional accept for the very first
// fix of a session.
func (f *Filter) Consider(fix TimedPoint, path *Path, lastAccepted time.Time) Decision {
	if fix.Accuracy < 0 {
		return Decision{Reason: RejectInvalidAccuracy}
	}
	if fix.Accuracy > f.cfg.MaxAccuracyMeters {
		return Decision{Reason: RejectLowAccuracy}
	}

	prev, hasPrev := path.Last()
	if !hasPrev {
		// First fix of the session.
		return Decision{Accepted: true}
	}

	dist := geo.Distance(prev, fix.Point)
	elapsed := fix.Timestamp.Sub(lastAccepted).Seconds()

	var d Decision
	if !lastAccepted.IsZero() && elapsed > f.cfg.SpeedCheckMinSeconds {
		speed := dist / elapsed * 3.6
		d.SpeedKmh = speed

		switch {
		case speed > f.cfg.RejectSpeedKmh:
			// Teleport or GPS noise. Drop this fix only.
			d.Reason = RejectOverSpeed
			return d
		case speed > f.cfg.WarnSpeedKmh:
			d.RaiseWarning = true
		default:
			d.ClearWarning = true
		}
	}

	if dist < f.cfg.MinSpacingMeters {
		// Force-accept when the path has been starved past the grace
		// period, so slow movement still makes progress.
		if lastAccepted.IsZero() || elapsed <= f.cfg.SpacingGraceSeconds {
			d.Accepted = false
			d.Reason = RejectTooClose
			d.RaiseWarning = false
			return d
		}
	}

	d.Accepted = true
	return d
}
