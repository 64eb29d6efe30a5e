package handler

import (
	"net/http"

	"github.com/turfloop/turfloop/internal/api/models"
	"github.com/turfloop/turfloop/internal/api/response"
	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/territory"
)

// TerritoryHandler handles territory read endpoints.
type TerritoryHandler struct {
	territories *territory.Service
}

// NewTerritoryHandler creates a new TerritoryHandler.
func NewTerritoryHandler(territories *territory.Service) *TerritoryHandler {
	return &TerritoryHandler{territories: territories}
}

// ListTerritories handles GET /v1/territories.
func (h *TerritoryHandler) ListTerritories(w http.ResponseWriter, r *http.Request) {
	territories, err := h.territories.ActiveSnapshot(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "could not fetch territories")
		return
	}

	items := make([]models.Territory, 0, len(territories))
	for i := range territories {
		items = append(items, toTerritoryModel(&territories[i]))
	}

	response.JSON(w, r, http.StatusOK, models.TerritoryList{
		Items: items,
		Count: len(items),
	})
}

func toTerritoryModel(t *territory.Territory) models.Territory {
	vertices := make([]models.Point, 0, len(t.Vertices))
	for _, v := range t.Vertices {
		vertices = append(vertices, models.Point{Lat: v.Lat, Lon: v.Lon})
	}
	return models.Territory{
		ID:               t.ID,
		OwnerID:          t.OwnerID,
		Vertices:         vertices,
		AreaSquareMeters: t.AreaSquareMeters,
		ClaimedAt:        models.Timestamp(t.ClaimedAt),
	}
}

func geoPoint(p models.Point) geo.Point {
	return geo.Point{Lat: p.Lat, Lon: p.Lon}
}
