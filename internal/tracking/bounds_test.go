package tracking

import (
	"testing"

	"github.com/binhauler/binhauler/internal/model"
)

func TestComputeMapBoundsEmpty(t *testing.T) {
	b := ComputeMapBounds(nil, nil)
	if !b.Empty() {
		t.Fatalf("expected empty bounds, got %+v", b)
	}
	if b.Center() != DefaultCenter {
		t.Errorf("expected default center, got %+v", b.Center())
	}
	if z := FitZoom(b, 800, 600, MaxZoom); z != DefaultZoom {
		t.Errorf("expected default zoom, got %d", z)
	}

	// Assets and yards without coordinates contribute nothing.
	b = ComputeMapBounds(
		[]model.Asset{{ID: "a1", Location: &model.LocationRecord{Kind: model.LocationKindYard}}, {ID: "a2"}},
		[]model.Yard{{Name: "Overflow"}},
	)
	if !b.Empty() {
		t.Errorf("expected empty bounds, got %+v", b)
	}
}

func TestComputeMapBoundsUnion(t *testing.T) {
	assets := []model.Asset{
		{ID: "a1", Location: &model.LocationRecord{Coordinates: &model.Coordinates{Latitude: 46.0, Longitude: 14.0}}},
		{ID: "a2", Location: &model.LocationRecord{Coordinates: &model.Coordinates{Latitude: 46.5, Longitude: 15.0}}},
		{ID: "a3"},
	}
	yards := []model.Yard{
		{Name: "South", Coordinates: &model.Coordinates{Latitude: 45.5, Longitude: 14.2}},
	}

	b := ComputeMapBounds(assets, yards)
	if b.Empty() {
		t.Fatal("expected non-empty bounds")
	}
	if b.MinLatitude != 45.5 || b.MaxLatitude != 46.5 || b.MinLongitude != 14.0 || b.MaxLongitude != 15.0 {
		t.Errorf("unexpected bounds %+v", b)
	}
	c := b.Center()
	if c.Latitude != 46.0 || c.Longitude != 14.5 {
		t.Errorf("unexpected center %+v", c)
	}
}

func TestComputeMapBoundsIgnoresHistory(t *testing.T) {
	old := model.LocationRecord{Coordinates: &model.Coordinates{Latitude: 10, Longitude: 10}}
	cur := model.LocationRecord{Coordinates: &model.Coordinates{Latitude: 20, Longitude: 20}}
	asset := model.Asset{LocationHistory: []model.LocationRecord{old, cur}, Location: &cur}

	b := ComputeMapBounds([]model.Asset{asset}, nil)
	if b.MinLatitude != 20 || b.MaxLatitude != 20 {
		t.Errorf("expected only current location in bounds, got %+v", b)
	}
}

func TestFitZoom(t *testing.T) {
	var single Bounds
	single.Extend(model.Coordinates{Latitude: 46, Longitude: 14})
	if z := FitZoom(single, 800, 600, MaxZoom); z != MaxZoom {
		t.Errorf("single point: expected clamp to %d, got %d", MaxZoom, z)
	}

	var world Bounds
	world.Extend(model.Coordinates{Latitude: -60, Longitude: -180})
	world.Extend(model.Coordinates{Latitude: 60, Longitude: 180})
	if z := FitZoom(world, 256, 256, MaxZoom); z != 0 {
		t.Errorf("world: expected zoom 0, got %d", z)
	}

	var degree Bounds
	degree.Extend(model.Coordinates{Latitude: 0, Longitude: 0})
	degree.Extend(model.Coordinates{Latitude: 0, Longitude: 1})
	if z := FitZoom(degree, 512, 512, MaxZoom); z != 9 {
		t.Errorf("one degree: expected zoom 9, got %d", z)
	}
	if z := FitZoom(degree, 512, 512, 5); z != 5 {
		t.Errorf("one degree with max 5: expected 5, got %d", z)
	}
}
