package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
)

// JobsHandler handles the haul job endpoints.
type JobsHandler struct {
	DB *sql.DB
}

type createJobRequest struct {
	Customer     string    `json:"customer"`
	Address      string    `json:"address"`
	ScheduledFor time.Time `json:"scheduled_for"`
}

// List handles GET /api/jobs?status=.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidJobStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	jobs, err := store.ListJobs(r.Context(), h.DB, status)
	if err != nil {
		storeError(w, err, "list jobs")
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	jsonResponse(w, http.StatusOK, jobs)
}

// Create handles POST /api/jobs.
func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	job, err := store.CreateJob(r.Context(), h.DB, req.Customer, req.Address, req.ScheduledFor)
	if err != nil {
		storeError(w, err, "create job")
		return
	}

	slog.Info("job created", "user", actor(r), "job", job.ID, "customer", job.Customer)
	jsonResponse(w, http.StatusCreated, job)
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := store.GetJob(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		storeError(w, err, "get job")
		return
	}
	jsonResponse(w, http.StatusOK, job)
}

// UpdateStatus handles PUT /api/jobs/{id}/status.
func (h *JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateJobStatus(r.Context(), h.DB, id, req.Status); err != nil {
		storeError(w, err, "update job status")
		return
	}

	job, err := store.GetJob(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get job")
		return
	}

	slog.Info("job status updated", "user", actor(r), "job", job.ID, "status", job.Status)
	jsonResponse(w, http.StatusOK, job)
}
