package store

import (
	"context"
	"errors"
	"testing"

	"github.com/binhauler/binhauler/internal/db"
	"github.com/binhauler/binhauler/internal/model"
)

func TestCreateAndListYards(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	north, err := CreateYard(ctx, database, "North Yard", "1 Depot Rd", &model.Coordinates{Latitude: 46.1, Longitude: 14.5})
	if err != nil {
		t.Fatalf("CreateYard: %v", err)
	}
	if north.Coordinates == nil || north.Coordinates.Longitude != 14.5 {
		t.Errorf("expected coordinates, got %+v", north.Coordinates)
	}

	if _, err := CreateYard(ctx, database, "Overflow", "Lot 7", nil); err != nil {
		t.Fatalf("CreateYard without coordinates: %v", err)
	}

	yards, err := ListYards(ctx, database)
	if err != nil {
		t.Fatalf("ListYards: %v", err)
	}
	if len(yards) != 2 {
		t.Fatalf("expected 2 yards, got %d", len(yards))
	}
	if yards[1].Coordinates != nil {
		t.Errorf("expected no coordinates for overflow lot, got %+v", yards[1].Coordinates)
	}
}

func TestYardValidationAndNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateYard(ctx, database, "", "addr", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for missing name, got %v", err)
	}
	if _, err := CreateYard(ctx, database, "Yard", "addr", &model.Coordinates{Latitude: -100}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for bad coordinates, got %v", err)
	}
	if _, err := GetYard(ctx, database, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
