package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Location records carry recorded_at as Unix nanoseconds so that ordering
// and the monotonic check compare integers, not formatted strings.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'driver' CHECK (role IN ('admin', 'dispatcher', 'driver')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS yards (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    address    TEXT NOT NULL,
    latitude   REAL,
    longitude  REAL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assets (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    id             TEXT NOT NULL UNIQUE,
    asset_number   TEXT NOT NULL UNIQUE,
    type           TEXT NOT NULL DEFAULT '',
    container_size REAL NOT NULL DEFAULT 0,
    container_unit TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'available'
                   CHECK (status IN ('available', 'deployed', 'maintenance', 'in-transit')),
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS jobs (
    id            TEXT PRIMARY KEY,
    customer      TEXT NOT NULL,
    address       TEXT NOT NULL,
    scheduled_for INTEGER NOT NULL,
    status        TEXT NOT NULL DEFAULT 'scheduled'
                  CHECK (status IN ('scheduled', 'completed', 'cancelled')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS location_records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    asset_id    TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
    kind        TEXT NOT NULL CHECK (kind IN ('yard', 'customer')),
    address     TEXT NOT NULL CHECK (address <> ''),
    latitude    REAL,
    longitude   REAL,
    recorded_at INTEGER NOT NULL,
    updated_by  TEXT NOT NULL CHECK (updated_by <> ''),
    job_id      TEXT
);

CREATE INDEX IF NOT EXISTS idx_location_records_asset
    ON location_records(asset_id, id);

CREATE TABLE IF NOT EXISTS asset_photos (
    id       TEXT PRIMARY KEY,
    asset_id TEXT NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
    job_id   TEXT,
    mime     TEXT NOT NULL,
    caption  TEXT,
    taken_by TEXT NOT NULL,
    taken_at INTEGER NOT NULL,
    data     BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_asset_photos_asset
    ON asset_photos(asset_id, taken_at);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: location records are append-only; refuse edits at the
	// storage level as well.
	`CREATE TRIGGER IF NOT EXISTS location_records_no_update
	     BEFORE UPDATE ON location_records
	     BEGIN SELECT RAISE(ABORT, 'location records are append-only'); END`,
}

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
