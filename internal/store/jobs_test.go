package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/binhauler/binhauler/internal/db"
	"github.com/binhauler/binhauler/internal/model"
)

func TestCreateAndGetJob(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	when := time.Date(2026, 6, 2, 7, 0, 0, 0, time.UTC)
	job, err := CreateJob(ctx, database, "Acme Roofing", "12 Elm St", when)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.Status != model.JobStatusScheduled {
		t.Errorf("expected scheduled, got %q", job.Status)
	}
	if !job.ScheduledFor.Equal(when) {
		t.Errorf("expected %v, got %v", when, job.ScheduledFor)
	}

	if err := UpdateJobStatus(ctx, database, job.ID, model.JobStatusCompleted); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}
	completed, _ := ListJobs(ctx, database, model.JobStatusCompleted)
	if len(completed) != 1 || completed[0].ID != job.ID {
		t.Errorf("expected job in completed list, got %v", completed)
	}
}

func TestJobValidationAndLookup(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateJob(ctx, database, "", "addr", time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := CreateJob(ctx, database, "Acme", "addr", time.Time{}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for missing schedule, got %v", err)
	}
	if _, err := GetJob(ctx, database, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	dir := JobDirectory{DB: database}
	got, err := dir.LookupJob(ctx, "missing")
	if err != nil || got != nil {
		t.Errorf("expected (nil, nil) for missing job, got (%v, %v)", got, err)
	}

	job, _ := CreateJob(ctx, database, "Acme", "addr", time.Now())
	got, err = dir.LookupJob(ctx, job.ID)
	if err != nil || got == nil || got.Customer != "Acme" {
		t.Errorf("expected job lookup to succeed, got (%v, %v)", got, err)
	}
}
