package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
	"github.com/binhauler/binhauler/internal/tracking"
)

// YardsHandler handles yard reference data.
type YardsHandler struct {
	DB *sql.DB
}

type createYardRequest struct {
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	Coordinates *model.Coordinates `json:"coordinates"`
}

type nearestYardResponse struct {
	Yard           model.Yard `json:"yard"`
	DistanceMeters float64    `json:"distance_meters"`
}

// List handles GET /api/yards.
func (h *YardsHandler) List(w http.ResponseWriter, r *http.Request) {
	yards, err := store.ListYards(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "list yards")
		return
	}
	if yards == nil {
		yards = []model.Yard{}
	}
	jsonResponse(w, http.StatusOK, yards)
}

// Create handles POST /api/yards.
func (h *YardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createYardRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	yard, err := store.CreateYard(r.Context(), h.DB, req.Name, req.Address, req.Coordinates)
	if err != nil {
		storeError(w, err, "create yard")
		return
	}

	slog.Info("yard created", "user", actor(r), "yard", yard.Name)
	jsonResponse(w, http.StatusCreated, yard)
}

// Get handles GET /api/yards/{id}.
func (h *YardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid yard id")
		return
	}

	yard, err := store.GetYard(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get yard")
		return
	}
	jsonResponse(w, http.StatusOK, yard)
}

// Nearest handles GET /api/yards/nearest?lat=&lng=.
func (h *YardsHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, okLat := queryFloat(r, "lat")
	lng, okLng := queryFloat(r, "lng")
	if !okLat || !okLng {
		jsonError(w, http.StatusBadRequest, "lat and lng required")
		return
	}
	point := model.Coordinates{Latitude: lat, Longitude: lng}
	if err := point.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	yards, err := store.ListYards(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "list yards")
		return
	}

	yard, meters, ok := tracking.NearestYard(point, yards)
	if !ok {
		jsonError(w, http.StatusNotFound, "no yard has coordinates")
		return
	}
	jsonResponse(w, http.StatusOK, nearestYardResponse{Yard: *yard, DistanceMeters: meters})
}
