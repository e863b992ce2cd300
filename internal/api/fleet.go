package api

import (
	"net/http"

	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
	"github.com/binhauler/binhauler/internal/tracking"
)

// Default map viewport when the client does not say how big it is.
const (
	defaultMapWidth  = 1024
	defaultMapHeight = 768
)

// FleetHandler serves the dashboard summaries.
type FleetHandler struct {
	Locations *store.LocationStore
}

type mapViewResponse struct {
	Empty  bool              `json:"empty"`
	Bounds *tracking.Bounds  `json:"bounds,omitempty"`
	Center model.Coordinates `json:"center"`
	Zoom   int               `json:"zoom"`
}

// Stats handles GET /api/fleet/stats.
func (h *FleetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Locations.ListAssets(r.Context(), model.AssetFilter{})
	if err != nil {
		storeError(w, err, "list assets")
		return
	}
	jsonResponse(w, http.StatusOK, tracking.ComputeFleetStats(assets))
}

// Map handles GET /api/fleet/map?width=&height=: the viewport that shows
// every placed asset and every yard.
func (h *FleetHandler) Map(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Locations.ListAssets(r.Context(), model.AssetFilter{})
	if err != nil {
		storeError(w, err, "list assets")
		return
	}
	yards, err := store.ListYards(r.Context(), h.Locations.DB())
	if err != nil {
		storeError(w, err, "list yards")
		return
	}

	bounds := tracking.ComputeMapBounds(assets, yards)
	if bounds.Empty() {
		jsonResponse(w, http.StatusOK, mapViewResponse{
			Empty:  true,
			Center: tracking.DefaultCenter,
			Zoom:   tracking.DefaultZoom,
		})
		return
	}

	width := queryInt(r, "width", defaultMapWidth)
	height := queryInt(r, "height", defaultMapHeight)
	jsonResponse(w, http.StatusOK, mapViewResponse{
		Bounds: &bounds,
		Center: bounds.Center(),
		Zoom:   tracking.FitZoom(bounds, width, height, tracking.MaxZoom),
	})
}
