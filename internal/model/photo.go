package model

import "time"

// AssetPhoto documents the state of an asset, typically at drop-off or pickup.
// The image bytes are served separately.
type AssetPhoto struct {
	ID      string    `json:"id"`
	AssetID string    `json:"asset_id"`
	JobID   *string   `json:"job_id,omitempty"`
	MIME    string    `json:"mime"`
	Caption string    `json:"caption,omitempty"`
	TakenBy string    `json:"taken_by"`
	TakenAt time.Time `json:"taken_at"`
}
