package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/binhauler/binhauler/internal/model"
)

// CreateYard adds a storage yard to the reference set.
func CreateYard(ctx context.Context, db *sql.DB, name, address string, coords *model.Coordinates) (*model.Yard, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return nil, invalid("name", "required")
	}
	if address == "" {
		return nil, invalid("address", "required")
	}

	var lat, lng sql.NullFloat64
	if coords != nil {
		if err := coords.Validate(); err != nil {
			return nil, invalid("coordinates", err.Error())
		}
		lat = sql.NullFloat64{Float64: coords.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: coords.Longitude, Valid: true}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO yards (name, address, latitude, longitude) VALUES (?, ?, ?, ?)`,
		name, address, lat, lng,
	)
	if err != nil {
		return nil, fmt.Errorf("creating yard: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting yard id: %w", err)
	}

	return GetYard(ctx, db, id)
}

// GetYard returns a yard by ID.
func GetYard(ctx context.Context, db *sql.DB, id int64) (*model.Yard, error) {
	y, err := scanYard(db.QueryRowContext(ctx,
		`SELECT id, name, address, latitude, longitude, created_at FROM yards WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, notFound("yard", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, fmt.Errorf("getting yard: %w", err)
	}
	return y, nil
}

// ListYards returns all yards.
func ListYards(ctx context.Context, db *sql.DB) ([]model.Yard, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, address, latitude, longitude, created_at FROM yards ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing yards: %w", err)
	}
	defer rows.Close()

	var yards []model.Yard
	for rows.Next() {
		y, err := scanYard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning yard: %w", err)
		}
		yards = append(yards, *y)
	}
	return yards, rows.Err()
}

func scanYard(sc scanner) (*model.Yard, error) {
	y := &model.Yard{}
	var lat, lng sql.NullFloat64
	if err := sc.Scan(&y.ID, &y.Name, &y.Address, &lat, &lng, &y.CreatedAt); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		y.Coordinates = &model.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return y, nil
}
