package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/binhauler/binhauler/internal/model"
)

// AddAssetPhoto stores a processed photo for an asset.
func AddAssetPhoto(ctx context.Context, db *sql.DB, p model.AssetPhoto, data []byte) (*model.AssetPhoto, error) {
	if len(data) == 0 {
		return nil, invalid("image", "required")
	}
	if strings.TrimSpace(p.TakenBy) == "" {
		return nil, invalid("taken_by", "required")
	}
	if p.TakenAt.IsZero() {
		p.TakenAt = time.Now()
	}
	p.TakenAt = p.TakenAt.UTC()
	p.ID = uuid.NewString()

	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM assets WHERE id = ?`, p.AssetID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, notFound("asset", p.AssetID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking asset: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO asset_photos (id, asset_id, job_id, mime, caption, taken_by, taken_at, data)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AssetID, nullString(p.JobID), p.MIME, p.Caption, p.TakenBy, p.TakenAt.UnixNano(), data,
	)
	if err != nil {
		return nil, fmt.Errorf("storing asset photo: %w", err)
	}
	return &p, nil
}

// ListAssetPhotos returns photo metadata for an asset, newest first.
// A non-empty jobID narrows the list to photos taken for that job.
func ListAssetPhotos(ctx context.Context, db *sql.DB, assetID, jobID string) ([]model.AssetPhoto, error) {
	query := `SELECT id, asset_id, job_id, mime, caption, taken_by, taken_at
	          FROM asset_photos WHERE asset_id = ?`
	args := []any{assetID}
	if jobID != "" {
		query += ` AND job_id = ?`
		args = append(args, jobID)
	}
	query += ` ORDER BY taken_at DESC, rowid DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing asset photos: %w", err)
	}
	defer rows.Close()

	var photos []model.AssetPhoto
	for rows.Next() {
		var p model.AssetPhoto
		var jobID, caption sql.NullString
		var takenAt int64
		if err := rows.Scan(&p.ID, &p.AssetID, &jobID, &p.MIME, &caption, &p.TakenBy, &takenAt); err != nil {
			return nil, fmt.Errorf("scanning asset photo: %w", err)
		}
		p.JobID = stringPtr(jobID)
		p.Caption = caption.String
		p.TakenAt = time.Unix(0, takenAt).UTC()
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// GetPhotoData returns the image bytes and MIME type of a photo.
func GetPhotoData(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM asset_photos WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", notFound("photo", id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting photo: %w", err)
	}
	return data, mime, nil
}
