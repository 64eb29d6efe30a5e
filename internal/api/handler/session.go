package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/turfloop/turfloop/internal/api/models"
	"github.com/turfloop/turfloop/internal/api/response"
	"github.com/turfloop/turfloop/internal/claim"
	"github.com/turfloop/turfloop/internal/collision"
	"github.com/turfloop/turfloop/internal/track"
	"github.com/turfloop/turfloop/pkg/polyline"
)

// SessionHandler handles claim session endpoints.
type SessionHandler struct {
	claims *claim.Service
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(claims *claim.Service) *SessionHandler {
	return &SessionHandler{claims: claims}
}

// StartSession handles POST /v1/sessions.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	playerID := GetPlayerID(r.Context())

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if fieldErrors := validateFix(&req.Fix); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid fix", fieldErrors)
		return
	}

	status, err := h.claims.StartSession(r.Context(), playerID, toTimedPoint(&req.Fix))
	if err != nil {
		if errors.Is(err, claim.ErrStartInsideTerritory) {
			response.Conflict(w, r, "start point is inside territory owned by another player")
			return
		}
		response.ServiceUnavailable(w, r, "could not verify territory ownership")
		return
	}

	response.Created(w, r, "/v1/sessions/"+status.SessionID, toSessionModel(status))
}

// IngestFix handles POST /v1/sessions/{sessionId}/fixes.
func (h *SessionHandler) IngestFix(w http.ResponseWriter, r *http.Request) {
	status, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var fix models.Fix
	if err := json.NewDecoder(r.Body).Decode(&fix); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if fieldErrors := validateFix(&fix); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid fix", fieldErrors)
		return
	}

	result, err := h.claims.IngestFix(r.Context(), status.SessionID, toTimedPoint(&fix))
	if err != nil {
		if errors.Is(err, claim.ErrSessionNotFound) {
			response.NotFound(w, r, "session not found")
			return
		}
		if errors.Is(err, track.ErrSessionNotAccumulating) {
			response.Conflict(w, r, "session is no longer accepting fixes")
			return
		}
		response.InternalError(w, r, "could not process fix")
		return
	}

	resp := models.FixResponse{
		Decision: models.FixDecision{
			Accepted: result.Decision.Accepted,
			Reason:   string(result.Decision.Reason),
			SpeedKmh: result.Decision.SpeedKmh,
		},
		Closed: result.Closed,
	}
	if result.Verdict != nil {
		resp.Verdict = toVerdictModel(result.Verdict)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// GetSession handles GET /v1/sessions/{sessionId}. Each poll also runs a
// collision check against the current territory snapshot; a hard hit
// stops the session and the response says so.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	status, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	if status.State == track.StateAccumulating {
		verdict, err := h.claims.CollisionTick(r.Context(), status.SessionID)
		if err == nil {
			status.Collision = &verdict
			if verdict.HasCollision {
				m := toSessionModel(status)
				m.State = "stopped"
				response.JSON(w, r, http.StatusOK, m)
				return
			}
		}
		// Snapshot fetch failures leave the last known collision state.
	}

	response.JSON(w, r, http.StatusOK, toSessionModel(status))
}

// SubmitSession handles POST /v1/sessions/{sessionId}/submit.
func (h *SessionHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	status, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	record, err := h.claims.Submit(r.Context(), status.SessionID)
	if err != nil {
		if errors.Is(err, claim.ErrSessionNotFound) {
			response.NotFound(w, r, "session not found")
			return
		}
		if errors.Is(err, claim.ErrClaimNotReady) {
			response.Conflict(w, r, "loop has not closed with a valid verdict")
			return
		}
		response.ServiceUnavailable(w, r, "could not record claim")
		return
	}

	receipt := models.ClaimReceipt{
		ClaimID:          record.ID,
		TerritoryID:      record.TerritoryID,
		AreaSquareMeters: record.AreaSquareMeters,
		PointCount:       record.PointCount,
		RecordedAt:       models.Timestamp(record.RecordedAt),
	}
	response.Created(w, r, "/v1/territories/"+record.TerritoryID, receipt)
}

// CancelSession handles DELETE /v1/sessions/{sessionId}.
func (h *SessionHandler) CancelSession(w http.ResponseWriter, r *http.Request) {
	status, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	if err := h.claims.Cancel(r.Context(), status.SessionID); err != nil {
		response.NotFound(w, r, "session not found")
		return
	}

	response.NoContent(w, r)
}

// ownedSession loads the session from the URL and verifies it belongs to
// the authenticated player. Foreign sessions read as not found.
func (h *SessionHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*claim.Status, bool) {
	sessionID := chi.URLParam(r, "sessionId")

	status, err := h.claims.Status(r.Context(), sessionID)
	if err != nil {
		response.NotFound(w, r, "session not found")
		return nil, false
	}

	if !strings.EqualFold(status.OwnerID, GetPlayerID(r.Context())) {
		response.NotFound(w, r, "session not found")
		return nil, false
	}

	return status, true
}

func validateFix(fix *models.Fix) []models.FieldError {
	var errs []models.FieldError

	if fix.Point.Lat < -90 || fix.Point.Lat > 90 {
		errs = append(errs, models.FieldError{Field: "point.lat", Message: "must be between -90 and 90"})
	}
	if fix.Point.Lon < -180 || fix.Point.Lon > 180 {
		errs = append(errs, models.FieldError{Field: "point.lon", Message: "must be between -180 and 180"})
	}
	if fix.Timestamp.Time().IsZero() {
		errs = append(errs, models.FieldError{Field: "timestamp", Message: "is required"})
	}
	if fix.AccuracyMeters < 0 {
		errs = append(errs, models.FieldError{Field: "accuracyMeters", Message: "must not be negative"})
	}

	return errs
}

func toTimedPoint(fix *models.Fix) track.TimedPoint {
	return track.TimedPoint{
		Point:     geoPoint(fix.Point),
		Timestamp: fix.Timestamp.Time(),
		Accuracy:  fix.AccuracyMeters,
	}
}

func toSessionModel(status *claim.Status) models.Session {
	m := models.Session{
		ID:         status.SessionID,
		State:      string(status.State),
		StartedAt:  models.Timestamp(status.StartedAt),
		PointCount: len(status.Points),
		PathMeters: status.PathMeters,
		Polyline:   polyline.EncodePoints(status.Points),
	}

	if status.SpeedWarning != nil {
		m.SpeedWarning = &models.SpeedWarning{
			SpeedKmh:  status.SpeedWarning.SpeedKmh,
			ExpiresAt: models.Timestamp(status.SpeedWarning.ExpiresAt),
		}
	}
	if status.Collision != nil {
		m.Collision = toCollisionModel(status.Collision)
	}
	if status.Verdict != nil {
		m.Verdict = toVerdictModel(status.Verdict)
	}

	return m
}

func toCollisionModel(v *collision.Verdict) *models.CollisionStatus {
	m := &models.CollisionStatus{
		HasCollision: v.HasCollision,
		Kind:         string(v.Kind),
		Message:      v.Message,
		Level:        string(v.Level),
	}
	// With no foreign territory the nearest distance is +Inf, which JSON
	// cannot carry.
	if !math.IsInf(v.NearestDistanceMeters, 1) {
		d := v.NearestDistanceMeters
		m.NearestDistanceMeters = &d
	}
	return m
}

func toVerdictModel(v *track.Verdict) *models.Verdict {
	return &models.Verdict{
		Valid:            v.Valid,
		Reason:           string(v.Reason),
		Detail:           v.Detail,
		AreaSquareMeters: v.AreaSquareMeters,
	}
}
