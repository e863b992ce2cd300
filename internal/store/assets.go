package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/binhauler/binhauler/internal/model"
)

// CreateAsset registers a new asset with an empty location history.
// ID is generated when blank; Status defaults to available.
func CreateAsset(ctx context.Context, db *sql.DB, a model.Asset) (*model.Asset, error) {
	a.AssetNumber = strings.TrimSpace(a.AssetNumber)
	if a.AssetNumber == "" {
		return nil, invalid("asset_number", "required")
	}
	if a.Status == "" {
		a.Status = model.AssetStatusAvailable
	}
	if !model.ValidAssetStatus(a.Status) {
		return nil, invalid("status", fmt.Sprintf("unknown status %q", a.Status))
	}
	if a.ContainerSize < 0 {
		return nil, invalid("container_size", "must not be negative")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var taken int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assets WHERE id = ? OR asset_number = ?`, a.ID, a.AssetNumber,
	).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("checking asset number: %w", err)
	}
	if taken > 0 {
		return nil, invalid("asset_number", fmt.Sprintf("%q already in use", a.AssetNumber))
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assets (id, asset_number, type, container_size, container_unit, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.AssetNumber, a.Type, a.ContainerSize, a.ContainerUnit, a.Status,
	)
	if isUniqueViolation(err) {
		return nil, invalid("asset_number", fmt.Sprintf("%q already in use", a.AssetNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	created, err := getAsset(ctx, tx, a.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing asset: %w", err)
	}
	return created, nil
}

// UpdateAssetStatus sets the operational status of an asset. Location
// history is not affected.
func UpdateAssetStatus(ctx context.Context, db *sql.DB, id, status string) error {
	if !model.ValidAssetStatus(status) {
		return invalid("status", fmt.Sprintf("unknown status %q", status))
	}

	result, err := db.ExecContext(ctx,
		`UPDATE assets SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating asset status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating asset status: %w", err)
	}
	if n == 0 {
		return notFound("asset", id)
	}
	return nil
}

// DeleteAsset removes an asset. Its location history and photos go with it.
func DeleteAsset(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	if n == 0 {
		return notFound("asset", id)
	}
	return nil
}
