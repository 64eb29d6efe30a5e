// Package handler provides HTTP handlers for the turfloop API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/turfloop/turfloop/internal/api/models"
	"github.com/turfloop/turfloop/internal/api/response"
	"github.com/turfloop/turfloop/internal/territory"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotSource is the territory snapshot the status endpoint probes.
type SnapshotSource interface {
	ActiveSnapshot(ctx context.Context) ([]territory.Territory, error)
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version     string
	buildTime   string
	db          Pinger
	territories SnapshotSource
}

// NewOpsHandler creates a new OpsHandler. db and territories may be nil
// when the service runs without them.
func NewOpsHandler(version, buildTime string, db Pinger, territories SnapshotSource) *OpsHandler {
	return &OpsHandler{
		version:     version,
		buildTime:   buildTime,
		db:          db,
		territories: territories,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			status = models.HealthStatusFail
			code = http.StatusServiceUnavailable
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, code, health)
}

// StatusCheck handles GET /v1/ops/status - per-subsystem status.
func (h *OpsHandler) StatusCheck(w http.ResponseWriter, r *http.Request) {
	overall := models.HealthStatusOK
	var subsystems []models.SubsystemStatus
	var providers []models.ProviderStatus

	if h.db != nil {
		dbStatus := models.HealthStatusOK
		var detail *string
		if err := h.db.Ping(r.Context()); err != nil {
			dbStatus = models.HealthStatusFail
			overall = models.HealthStatusDegraded
			msg := err.Error()
			detail = &msg
		}
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "database",
			Status: dbStatus,
			Detail: detail,
		})
	}

	if h.territories != nil {
		providerStatus := models.HealthStatusOK
		var message *string
		if _, err := h.territories.ActiveSnapshot(r.Context()); err != nil {
			providerStatus = models.HealthStatusFail
			overall = models.HealthStatusDegraded
			msg := err.Error()
			message = &msg
		}
		providers = append(providers, models.ProviderStatus{
			Provider: "gameserver",
			Status:   providerStatus,
			Message:  message,
		})
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(time.Now()),
		Subsystems: subsystems,
		Providers:  providers,
	})
}
