package geo

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/binhauler/binhauler/internal/db"
	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
)

type failingGeocoder struct{}

func (failingGeocoder) ReverseGeocode(context.Context, model.Coordinates) (string, error) {
	return "", errors.New("quota exceeded")
}

type fixedGeocoder string

func (g fixedGeocoder) ReverseGeocode(context.Context, model.Coordinates) (string, error) {
	return string(g), nil
}

func newTestTracker(t *testing.T) (*Tracker, *store.LocationStore, *model.Asset) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := store.CreateYard(ctx, database, "North Yard", "1 Depot Rd",
		&model.Coordinates{Latitude: 46.0500, Longitude: 14.5000}); err != nil {
		t.Fatalf("CreateYard: %v", err)
	}
	asset, err := store.CreateAsset(ctx, database, model.Asset{AssetNumber: "D-1"})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	s := store.NewLocationStore(database)
	tr := &Tracker{
		Updater: s,
		Yards: func(ctx context.Context) ([]model.Yard, error) {
			return store.ListYards(ctx, database)
		},
		Geocoder:    fixedGeocoder("12 Elm St"),
		YardRadius:  200,
		MaxAccuracy: 100,
	}
	return tr, s, asset
}

func TestApplySnapsToYard(t *testing.T) {
	tr, _, asset := newTestTracker(t)

	got, err := tr.Apply(context.Background(), asset.ID, "driver1", Sample{
		Latitude: 46.0505, Longitude: 14.5001, Accuracy: 10,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Location.Kind != model.LocationKindYard || got.Location.Address != "1 Depot Rd" {
		t.Errorf("expected yard record at 1 Depot Rd, got %+v", got.Location)
	}
	if got.Location.UpdatedBy != "driver1" {
		t.Errorf("expected actor driver1, got %q", got.Location.UpdatedBy)
	}
}

func TestApplyCustomerSite(t *testing.T) {
	tr, _, asset := newTestTracker(t)
	ts := time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC)

	got, err := tr.Apply(context.Background(), asset.ID, "driver1", Sample{
		Latitude: 46.1, Longitude: 14.6, Accuracy: 5, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Location.Kind != model.LocationKindCustomer || got.Location.Address != "12 Elm St" {
		t.Errorf("expected customer record at 12 Elm St, got %+v", got.Location)
	}
	if !got.Location.Timestamp.Equal(ts) {
		t.Errorf("expected sample timestamp %v, got %v", ts, got.Location.Timestamp)
	}
	if got.Location.Coordinates == nil || got.Location.Coordinates.Latitude != 46.1 {
		t.Errorf("expected sample coordinates, got %+v", got.Location.Coordinates)
	}
}

func TestApplyGeocoderFailure(t *testing.T) {
	tr, s, asset := newTestTracker(t)
	tr.Geocoder = failingGeocoder{}

	_, err := tr.Apply(context.Background(), asset.ID, "driver1", Sample{Latitude: 46.1, Longitude: 14.6})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}

	got, _ := s.GetAsset(context.Background(), asset.ID)
	if len(got.LocationHistory) != 0 {
		t.Errorf("expected no update attempted, got %d records", len(got.LocationHistory))
	}
}

func TestApplyRejectsBadSamples(t *testing.T) {
	tr, _, asset := newTestTracker(t)
	ctx := context.Background()

	samples := []Sample{
		{Latitude: 95, Longitude: 0},
		{Latitude: 46, Longitude: 14, Accuracy: -1},
		{Latitude: 46, Longitude: 14, Accuracy: 500},
		{Latitude: math.NaN(), Longitude: 14},
		{Latitude: 46, Longitude: 14, Accuracy: math.NaN()},
		{Latitude: 46.1, Longitude: 14.6, Timestamp: time.Now().AddDate(50, 0, 0)},
	}
	for _, s := range samples {
		if _, err := tr.Apply(ctx, asset.ID, "driver1", s); !errors.Is(err, store.ErrValidation) {
			t.Errorf("sample %+v: expected validation error, got %v", s, err)
		}
	}
}

func TestApplyUnknownAsset(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	_, err := tr.Apply(context.Background(), "missing", "driver1", Sample{Latitude: 46.1, Longitude: 14.6})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCoordinateGeocoder(t *testing.T) {
	got, _ := CoordinateGeocoder{}.ReverseGeocode(context.Background(), model.Coordinates{Latitude: 46.05, Longitude: -14.5})
	if got != "46.05000, -14.50000" {
		t.Errorf("unexpected address %q", got)
	}
}
