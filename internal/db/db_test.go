package db

import (
	"strings"
	"testing"
)

func TestDSNAddsPragmas(t *testing.T) {
	got := dsn("fleet.sqlite3")
	if !strings.HasPrefix(got, "fleet.sqlite3?") {
		t.Fatalf("unexpected dsn %q", got)
	}
	if !strings.Contains(got, "foreign_keys%281%29") {
		t.Errorf("expected foreign_keys pragma in %q", got)
	}
	if !strings.Contains(got, "_txlock=immediate") {
		t.Errorf("expected immediate transactions in %q", got)
	}

	got = dsn("file:fleet.sqlite3?mode=rwc")
	if !strings.Contains(got, "mode=rwc&_pragma=") {
		t.Errorf("expected pragmas appended to existing query, got %q", got)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := Migrate(database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestLocationRecordsRejectUpdate(t *testing.T) {
	database := NewTestDB(t)

	if _, err := database.Exec(`INSERT INTO assets (id, asset_number) VALUES ('a1', 'D-1')`); err != nil {
		t.Fatalf("inserting asset: %v", err)
	}
	if _, err := database.Exec(
		`INSERT INTO location_records (asset_id, kind, address, recorded_at, updated_by)
		 VALUES ('a1', 'yard', 'Main Yard', 1, 'u1')`,
	); err != nil {
		t.Fatalf("inserting record: %v", err)
	}

	if _, err := database.Exec(`UPDATE location_records SET address = 'elsewhere'`); err == nil {
		t.Error("expected update of location record to fail")
	}
}

func TestFileDBUsesWAL(t *testing.T) {
	database := NewTestFileDB(t)

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("reading journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected wal journal mode, got %q", mode)
	}
}
