package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/binhauler/binhauler/internal/model"
)

// CreateJob schedules a job for a customer site.
func CreateJob(ctx context.Context, db *sql.DB, customer, address string, scheduledFor time.Time) (*model.Job, error) {
	customer = strings.TrimSpace(customer)
	address = strings.TrimSpace(address)
	if customer == "" {
		return nil, invalid("customer", "required")
	}
	if address == "" {
		return nil, invalid("address", "required")
	}
	if scheduledFor.IsZero() {
		return nil, invalid("scheduled_for", "required")
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO jobs (id, customer, address, scheduled_for) VALUES (?, ?, ?, ?)`,
		id, customer, address, scheduledFor.UTC().UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	return GetJob(ctx, db, id)
}

// GetJob returns a job by ID.
func GetJob(ctx context.Context, db *sql.DB, id string) (*model.Job, error) {
	j := &model.Job{}
	var scheduledFor int64
	err := db.QueryRowContext(ctx,
		`SELECT id, customer, address, scheduled_for, status, created_at FROM jobs WHERE id = ?`, id,
	).Scan(&j.ID, &j.Customer, &j.Address, &scheduledFor, &j.Status, &j.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, notFound("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting job: %w", err)
	}
	j.ScheduledFor = time.Unix(0, scheduledFor).UTC()
	return j, nil
}

// ListJobs returns jobs ordered by scheduled time, optionally filtered by status.
func ListJobs(ctx context.Context, db *sql.DB, status string) ([]model.Job, error) {
	query := `SELECT id, customer, address, scheduled_for, status, created_at FROM jobs`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY scheduled_for, id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var scheduledFor int64
		if err := rows.Scan(&j.ID, &j.Customer, &j.Address, &scheduledFor, &j.Status, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		j.ScheduledFor = time.Unix(0, scheduledFor).UTC()
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// UpdateJobStatus moves a job to a new status.
func UpdateJobStatus(ctx context.Context, db *sql.DB, id, status string) error {
	if !model.ValidJobStatus(status) {
		return invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	result, err := db.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound("job", id)
	}
	return nil
}

// JobDirectory looks jobs up by ID for timeline annotation.
type JobDirectory struct {
	DB *sql.DB
}

// LookupJob returns the job, or nil when it does not exist.
func (d JobDirectory) LookupJob(ctx context.Context, id string) (*model.Job, error) {
	j, err := GetJob(ctx, d.DB, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return j, err
}
