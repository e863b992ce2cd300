package tracking

import (
	"context"
	"slices"

	"github.com/binhauler/binhauler/internal/model"
)

// ReconstructTimeline returns the asset's location history newest first.
// Records with equal timestamps appear in reverse insertion order. The
// asset is not modified.
func ReconstructTimeline(a model.Asset) []model.LocationRecord {
	out := make([]model.LocationRecord, len(a.LocationHistory))
	copy(out, a.LocationHistory)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(x, y model.LocationRecord) int {
		return y.Timestamp.Compare(x.Timestamp)
	})
	return out
}

// JobLookup finds jobs by ID. A missing job is reported as (nil, nil).
type JobLookup interface {
	LookupJob(ctx context.Context, id string) (*model.Job, error)
}

// ResolveJobReference returns the job a timeline entry refers to, or nil when
// the ID is empty or the job does not exist.
func ResolveJobReference(ctx context.Context, jobID string, jobs JobLookup) (*model.Job, error) {
	if jobID == "" || jobs == nil {
		return nil, nil
	}
	return jobs.LookupJob(ctx, jobID)
}

// TimelineEntry is a location record annotated with its job, if any.
type TimelineEntry struct {
	model.LocationRecord
	Job *model.Job `json:"job,omitempty"`
}
