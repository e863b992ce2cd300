package model

import "time"

// Job is the summary of a haul job used to annotate location history.
type Job struct {
	ID           string    `json:"id"`
	Customer     string    `json:"customer"`
	Address      string    `json:"address"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Job statuses.
const (
	JobStatusScheduled = "scheduled"
	JobStatusCompleted = "completed"
	JobStatusCancelled = "cancelled"
)

// ValidJobStatus reports whether status is a known job status.
func ValidJobStatus(status string) bool {
	return status == JobStatusScheduled || status == JobStatusCompleted || status == JobStatusCancelled
}
