package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/binhauler/binhauler/internal/imaging"
	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
)

// PhotosHandler handles asset photo documentation.
type PhotosHandler struct {
	DB        *sql.DB
	Processor *imaging.Processor
}

// Upload handles PUT /api/assets/{id}/photos. The multipart form carries the
// image in "image" and optional "job_id" and "caption" fields.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the form fields around the image itself.
	limit := h.Processor.MaxBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := h.Processor.Process(file)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		jsonError(w, http.StatusBadRequest, "image must be JPEG, PNG, or WebP")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image: "+err.Error())
		return
	}

	meta := model.AssetPhoto{
		AssetID: r.PathValue("id"),
		MIME:    photo.MIME,
		Caption: strings.TrimSpace(r.FormValue("caption")),
		TakenBy: actor(r),
	}
	if jobID := strings.TrimSpace(r.FormValue("job_id")); jobID != "" {
		meta.JobID = &jobID
	}

	saved, err := store.AddAssetPhoto(r.Context(), h.DB, meta, photo.Data)
	if err != nil {
		storeError(w, err, "save photo")
		return
	}

	slog.Info("asset photo uploaded", "user", actor(r), "asset", saved.AssetID,
		"photo", saved.ID, "width", photo.Width, "height", photo.Height)
	jsonResponse(w, http.StatusCreated, saved)
}

// List handles GET /api/assets/{id}/photos?job_id=.
func (h *PhotosHandler) List(w http.ResponseWriter, r *http.Request) {
	photos, err := store.ListAssetPhotos(r.Context(), h.DB, r.PathValue("id"), r.URL.Query().Get("job_id"))
	if err != nil {
		storeError(w, err, "list photos")
		return
	}
	if photos == nil {
		photos = []model.AssetPhoto{}
	}
	jsonResponse(w, http.StatusOK, photos)
}

// Get handles GET /api/photos/{id} and serves the image bytes.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetPhotoData(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Write(data)
}
