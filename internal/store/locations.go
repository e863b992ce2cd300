package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/binhauler/binhauler/internal/model"
)

// LocationStore owns the location history of every asset and applies
// location updates. Appends to the same asset are serialized; appends to
// different assets never wait on each other.
type LocationStore struct {
	db  *sql.DB
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*assetLock
}

type assetLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocationStore creates a store over an open database.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{
		db:    db,
		now:   time.Now,
		locks: make(map[string]*assetLock),
	}
}

// SetClock replaces the time source used to stamp updates.
func (s *LocationStore) SetClock(now func() time.Time) {
	s.now = now
}

// DB returns the underlying database handle.
func (s *LocationStore) DB() *sql.DB {
	return s.db
}

// lock acquires the exclusive section for one asset and returns its release.
// Entries are reference counted so the map only holds assets being written.
func (s *LocationStore) lock(assetID string) func() {
	s.mu.Lock()
	l, ok := s.locks[assetID]
	if !ok {
		l = &assetLock{}
		s.locks[assetID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, assetID)
		}
		s.mu.Unlock()
	}
}

// RecordLocationUpdate appends a new location record to the asset's history
// and returns the updated asset. The asset's status is not touched.
func (s *LocationStore) RecordLocationUpdate(ctx context.Context, assetID string, in model.LocationInput) (*model.Asset, error) {
	if err := validateLocationInput(&in); err != nil {
		return nil, err
	}

	unlock := s.lock(assetID)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM assets WHERE id = ?`, assetID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, notFound("asset", assetID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking asset: %w", err)
	}

	now := s.now()
	ts := in.Timestamp
	if ts.IsZero() {
		ts = now
	}
	ts = ts.UTC()
	if err := checkTimestamp(ts, now); err != nil {
		return nil, err
	}

	var latest int64
	err = tx.QueryRowContext(ctx,
		`SELECT recorded_at FROM location_records WHERE asset_id = ? ORDER BY id DESC LIMIT 1`,
		assetID,
	).Scan(&latest)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("checking latest location: %w", err)
	case ts.UnixNano() < latest:
		return nil, invalid("timestamp", fmt.Sprintf("out-of-order update: %s is before %s",
			ts.Format(time.RFC3339Nano), time.Unix(0, latest).UTC().Format(time.RFC3339Nano)))
	}

	var lat, lng sql.NullFloat64
	if in.Coordinates != nil {
		lat = sql.NullFloat64{Float64: in.Coordinates.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: in.Coordinates.Longitude, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO location_records (asset_id, kind, address, latitude, longitude, recorded_at, updated_by, job_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		assetID, in.Kind, in.Address, lat, lng, ts.UnixNano(), in.UpdatedBy, nullString(in.JobID),
	)
	if err != nil {
		return nil, fmt.Errorf("appending location record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing location update: %w", err)
	}

	return s.GetAsset(ctx, assetID)
}

// MaxClockSkew is how far ahead of the store's clock a caller-supplied
// timestamp may be.
const MaxClockSkew = 5 * time.Minute

// Timestamps are stored as Unix nanoseconds.
var (
	minRecordTime = time.Unix(0, 0).UTC()
	maxRecordTime = time.Unix(0, math.MaxInt64).UTC()
)

func checkTimestamp(ts, now time.Time) error {
	if ts.Before(minRecordTime) {
		return invalid("timestamp", fmt.Sprintf("%s is before %s",
			ts.Format(time.RFC3339), minRecordTime.Format(time.RFC3339)))
	}
	if ts.After(now.Add(MaxClockSkew)) || ts.After(maxRecordTime) {
		return invalid("timestamp", fmt.Sprintf("%s is in the future", ts.Format(time.RFC3339Nano)))
	}
	return nil
}

// validateLocationInput normalizes and checks the input. Nothing is written
// when it fails.
func validateLocationInput(in *model.LocationInput) error {
	in.Address = strings.TrimSpace(in.Address)
	in.UpdatedBy = strings.TrimSpace(in.UpdatedBy)

	if !model.ValidLocationKind(in.Kind) {
		return invalid("kind", fmt.Sprintf("must be %q or %q", model.LocationKindYard, model.LocationKindCustomer))
	}
	if in.Address == "" {
		return invalid("address", "required")
	}
	if in.UpdatedBy == "" {
		return invalid("updated_by", "required")
	}
	if in.Coordinates != nil {
		if err := in.Coordinates.Validate(); err != nil {
			return invalid("coordinates", err.Error())
		}
	}
	if in.JobID != nil && strings.TrimSpace(*in.JobID) == "" {
		in.JobID = nil
	}
	return nil
}

// GetAsset returns an asset with its full location history.
func (s *LocationStore) GetAsset(ctx context.Context, assetID string) (*model.Asset, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	return getAsset(ctx, tx, assetID)
}

// ListAssets returns every asset matching the filter, in registration order.
// The asset list and all histories are read from one snapshot.
func (s *LocationStore) ListAssets(ctx context.Context, filter model.AssetFilter) ([]model.Asset, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, asset_number, type, container_size, container_unit, status, created_at
		 FROM assets ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	var assets []model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		assets = append(assets, *a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}

	rows, err = tx.QueryContext(ctx,
		`SELECT id, asset_id, kind, address, latitude, longitude, recorded_at, updated_by, job_id
		 FROM location_records ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing location records: %w", err)
	}
	histories, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	byAsset := make(map[string][]model.LocationRecord)
	for _, rec := range histories {
		byAsset[rec.AssetID] = append(byAsset[rec.AssetID], rec)
	}

	matched := []model.Asset{}
	for i := range assets {
		attachHistory(&assets[i], byAsset[assets[i].ID])
		if filter.Match(&assets[i]) {
			matched = append(matched, assets[i])
		}
	}
	return matched, nil
}

func getAsset(ctx context.Context, q querier, assetID string) (*model.Asset, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, asset_number, type, container_size, container_unit, status, created_at
		 FROM assets WHERE id = ?`, assetID,
	)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, notFound("asset", assetID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, asset_id, kind, address, latitude, longitude, recorded_at, updated_by, job_id
		 FROM location_records WHERE asset_id = ? ORDER BY id`, assetID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting location history: %w", err)
	}
	history, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	attachHistory(a, history)
	return a, nil
}

// attachHistory sets the history and derives the current location from it.
func attachHistory(a *model.Asset, history []model.LocationRecord) {
	if history == nil {
		history = []model.LocationRecord{}
	}
	a.LocationHistory = history
	a.Location = nil
	if n := len(history); n > 0 {
		current := history[n-1]
		a.Location = &current
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(sc scanner) (*model.Asset, error) {
	a := &model.Asset{}
	err := sc.Scan(&a.ID, &a.AssetNumber, &a.Type, &a.ContainerSize, &a.ContainerUnit, &a.Status, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning asset: %w", err)
	}
	return a, nil
}

func scanRecords(rows *sql.Rows) ([]model.LocationRecord, error) {
	defer rows.Close()

	var records []model.LocationRecord
	for rows.Next() {
		var rec model.LocationRecord
		var lat, lng sql.NullFloat64
		var recordedAt int64
		var jobID sql.NullString
		if err := rows.Scan(&rec.ID, &rec.AssetID, &rec.Kind, &rec.Address, &lat, &lng,
			&recordedAt, &rec.UpdatedBy, &jobID); err != nil {
			return nil, fmt.Errorf("scanning location record: %w", err)
		}
		if lat.Valid && lng.Valid {
			rec.Coordinates = &model.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
		}
		rec.Timestamp = time.Unix(0, recordedAt).UTC()
		rec.JobID = stringPtr(jobID)
		records = append(records, rec)
	}
	return records, rows.Err()
}
