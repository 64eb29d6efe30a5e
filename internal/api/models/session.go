package models

// Fix is a raw GPS sample sent by the client.
type Fix struct {
	Point          Point     `json:"point"`
	Timestamp      Timestamp `json:"timestamp" validate:"required"`
	AccuracyMeters float64   `json:"accuracyMeters"`
}

// StartSessionRequest starts a claim session at the given fix.
type StartSessionRequest struct {
	Fix Fix `json:"fix"`
}

// FixDecision reports what the sample filter did with a fix.
type FixDecision struct {
	Accepted bool    `json:"accepted"`
	Reason   string  `json:"reason,omitempty"`
	SpeedKmh float64 `json:"speedKmh,omitempty"`
}

// SpeedWarning is the transient moving-fast advisory.
type SpeedWarning struct {
	SpeedKmh  float64   `json:"speedKmh"`
	ExpiresAt Timestamp `json:"expiresAt"`
}

// CollisionStatus is the latest collision check result for a session.
// NearestDistanceMeters is omitted when there is no foreign territory.
type CollisionStatus struct {
	HasCollision          bool     `json:"hasCollision"`
	Kind                  string   `json:"kind,omitempty"`
	Message               string   `json:"message,omitempty"`
	NearestDistanceMeters *float64 `json:"nearestDistanceMeters,omitempty"`
	Level                 string   `json:"level"`
}

// Verdict is the loop validation outcome.
type Verdict struct {
	Valid            bool    `json:"valid"`
	Reason           string  `json:"reason,omitempty"`
	Detail           string  `json:"detail,omitempty"`
	AreaSquareMeters float64 `json:"areaSquareMeters"`
}

// Session is the API view of a claim session.
type Session struct {
	ID           string           `json:"id"`
	State        string           `json:"state"`
	StartedAt    Timestamp        `json:"startedAt"`
	PointCount   int              `json:"pointCount"`
	PathMeters   float64          `json:"pathMeters"`
	Polyline     string           `json:"polyline,omitempty"`
	SpeedWarning *SpeedWarning    `json:"speedWarning,omitempty"`
	Collision    *CollisionStatus `json:"collision,omitempty"`
	Verdict      *Verdict         `json:"verdict,omitempty"`
}

// FixResponse is the outcome of ingesting one fix.
type FixResponse struct {
	Decision FixDecision `json:"decision"`
	Closed   bool        `json:"closed"`
	Verdict  *Verdict    `json:"verdict,omitempty"`
}

// ClaimReceipt is returned when a claim has been recorded.
type ClaimReceipt struct {
	ClaimID          string    `json:"claimId"`
	TerritoryID      string    `json:"territoryId"`
	AreaSquareMeters float64   `json:"areaSquareMeters"`
	PointCount       int       `json:"pointCount"`
	RecordedAt       Timestamp `json:"recordedAt"`
}
