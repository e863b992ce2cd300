package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/binhauler/binhauler/internal/geo"
	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
	"github.com/binhauler/binhauler/internal/tracking"
)

// AssetsHandler handles the asset registry and location tracking endpoints.
type AssetsHandler struct {
	Locations *store.LocationStore
	Tracker   *geo.Tracker
	Jobs      tracking.JobLookup
}

type createAssetRequest struct {
	AssetNumber   string  `json:"asset_number"`
	Type          string  `json:"type"`
	ContainerSize float64 `json:"container_size"`
	ContainerUnit string  `json:"container_unit"`
	Status        string  `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type locationUpdateRequest struct {
	Kind        string             `json:"kind"`
	Address     string             `json:"address"`
	Coordinates *model.Coordinates `json:"coordinates"`
	JobID       *string            `json:"job_id"`
	Timestamp   time.Time          `json:"timestamp"`
}

// List handles GET /api/assets?status=&kind=.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.AssetFilter{
		Status: r.URL.Query().Get("status"),
		Kind:   r.URL.Query().Get("kind"),
	}
	if filter.Status != "" && !model.ValidAssetStatus(filter.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}
	if filter.Kind != "" && !model.ValidLocationKind(filter.Kind) {
		jsonError(w, http.StatusBadRequest, "invalid kind filter")
		return
	}

	assets, err := h.Locations.ListAssets(r.Context(), filter)
	if err != nil {
		storeError(w, err, "list assets")
		return
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := store.CreateAsset(r.Context(), h.Locations.DB(), model.Asset{
		AssetNumber:   req.AssetNumber,
		Type:          req.Type,
		ContainerSize: req.ContainerSize,
		ContainerUnit: req.ContainerUnit,
		Status:        req.Status,
	})
	if err != nil {
		storeError(w, err, "create asset")
		return
	}

	slog.Info("asset created", "user", actor(r), "asset", asset.AssetNumber, "id", asset.ID)
	jsonResponse(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Locations.GetAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get asset")
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// UpdateStatus handles PUT /api/assets/{id}/status.
func (h *AssetsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateAssetStatus(r.Context(), h.Locations.DB(), id, req.Status); err != nil {
		storeError(w, err, "update asset status")
		return
	}

	asset, err := h.Locations.GetAsset(r.Context(), id)
	if err != nil {
		storeError(w, err, "get asset")
		return
	}

	slog.Info("asset status updated", "user", actor(r), "asset", asset.AssetNumber, "status", asset.Status)
	jsonResponse(w, http.StatusOK, asset)
}

// Delete handles DELETE /api/assets/{id}.
func (h *AssetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := store.DeleteAsset(r.Context(), h.Locations.DB(), id); err != nil {
		storeError(w, err, "delete asset")
		return
	}

	slog.Info("asset deleted", "user", actor(r), "id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset deleted"})
}

// RecordLocation handles POST /api/assets/{id}/location. The change is
// attributed to the authenticated user.
func (h *AssetsHandler) RecordLocation(w http.ResponseWriter, r *http.Request) {
	var req locationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := h.Locations.RecordLocationUpdate(r.Context(), r.PathValue("id"), model.LocationInput{
		Kind:        req.Kind,
		Address:     req.Address,
		Coordinates: req.Coordinates,
		UpdatedBy:   actor(r),
		JobID:       req.JobID,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		storeError(w, err, "record location")
		return
	}

	slog.Info("location recorded", "user", actor(r), "asset", asset.AssetNumber,
		"kind", asset.Location.Kind, "address", asset.Location.Address)
	jsonResponse(w, http.StatusOK, asset)
}

// RecordSample handles POST /api/assets/{id}/samples, a raw position fix
// from a driver's device.
func (h *AssetsHandler) RecordSample(w http.ResponseWriter, r *http.Request) {
	var sample geo.Sample
	if err := decodeJSON(r, &sample); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := h.Tracker.Apply(r.Context(), r.PathValue("id"), actor(r), sample)
	if err != nil {
		storeError(w, err, "record sample")
		return
	}

	slog.Info("sample recorded", "user", actor(r), "asset", asset.AssetNumber,
		"kind", asset.Location.Kind, "accuracy", sample.Accuracy)
	jsonResponse(w, http.StatusOK, asset)
}

// Timeline handles GET /api/assets/{id}/timeline: the location history,
// newest first, with each entry's job attached when it can be found.
func (h *AssetsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Locations.GetAsset(r.Context(), r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get timeline")
		return
	}

	records := tracking.ReconstructTimeline(*asset)
	jobs := make(map[string]*model.Job)
	entries := make([]tracking.TimelineEntry, len(records))
	for i, rec := range records {
		entries[i].LocationRecord = rec
		if rec.JobID == nil {
			continue
		}
		jobID := *rec.JobID
		job, seen := jobs[jobID]
		if !seen {
			job, err = tracking.ResolveJobReference(r.Context(), jobID, h.Jobs)
			if err != nil {
				slog.Warn("failed to resolve job", "asset", asset.ID, "job", jobID, "error", err)
				job = nil
			}
			jobs[jobID] = job
		}
		entries[i].Job = job
	}

	jsonResponse(w, http.StatusOK, entries)
}
