package tracking

import (
	"math"

	"github.com/binhauler/binhauler/internal/model"
)

// DefaultCenter is where the map opens when nothing has coordinates.
var DefaultCenter = model.Coordinates{Latitude: 39.8283, Longitude: -98.5795}

// DefaultZoom is the zoom used together with DefaultCenter.
const DefaultZoom = 4

// MaxZoom is the highest detail level a fitted map may use, so that a single
// point does not zoom all the way in.
const MaxZoom = 15

// Bounds is a latitude/longitude box. The zero value is empty.
type Bounds struct {
	MinLatitude  float64 `json:"min_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MaxLongitude float64 `json:"max_longitude"`
	points       int
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.points == 0
}

// Extend grows the box to include c.
func (b *Bounds) Extend(c model.Coordinates) {
	if b.points == 0 {
		b.MinLatitude, b.MaxLatitude = c.Latitude, c.Latitude
		b.MinLongitude, b.MaxLongitude = c.Longitude, c.Longitude
	} else {
		b.MinLatitude = math.Min(b.MinLatitude, c.Latitude)
		b.MaxLatitude = math.Max(b.MaxLatitude, c.Latitude)
		b.MinLongitude = math.Min(b.MinLongitude, c.Longitude)
		b.MaxLongitude = math.Max(b.MaxLongitude, c.Longitude)
	}
	b.points++
}

// Center returns the middle of the box, or DefaultCenter when empty.
func (b Bounds) Center() model.Coordinates {
	if b.Empty() {
		return DefaultCenter
	}
	return model.Coordinates{
		Latitude:  (b.MinLatitude + b.MaxLatitude) / 2,
		Longitude: (b.MinLongitude + b.MaxLongitude) / 2,
	}
}

// ComputeMapBounds returns the box around every asset's current location and
// every yard that has coordinates. The result is empty when there are none.
func ComputeMapBounds(assets []model.Asset, yards []model.Yard) Bounds {
	var b Bounds
	for i := range assets {
		if loc := assets[i].Location; loc != nil && loc.Coordinates != nil {
			b.Extend(*loc.Coordinates)
		}
	}
	for i := range yards {
		if yards[i].Coordinates != nil {
			b.Extend(*yards[i].Coordinates)
		}
	}
	return b
}

// tileSize is the edge length of a web map tile in pixels.
const tileSize = 256

// FitZoom returns the highest web-mercator zoom at which the bounds fit in a
// viewport of the given pixel size, clamped to maxZoom. Empty bounds yield
// DefaultZoom.
func FitZoom(b Bounds, widthPx, heightPx, maxZoom int) int {
	if b.Empty() || widthPx <= 0 || heightPx <= 0 {
		return DefaultZoom
	}

	lngFraction := (b.MaxLongitude - b.MinLongitude) / 360
	latFraction := (mercatorY(b.MaxLatitude) - mercatorY(b.MinLatitude)) / math.Pi

	lngZoom := zoomFor(float64(widthPx), lngFraction)
	latZoom := zoomFor(float64(heightPx), latFraction)

	z := math.Min(lngZoom, latZoom)
	if z >= float64(maxZoom) {
		return maxZoom
	}
	if z < 0 {
		return 0
	}
	return int(math.Floor(z))
}

func zoomFor(px, fraction float64) float64 {
	if fraction <= 0 {
		return math.Inf(1)
	}
	return math.Log2(px / tileSize / fraction)
}

// mercatorY is the half-height-normalized web mercator projection of lat.
func mercatorY(lat float64) float64 {
	s := math.Sin(lat * math.Pi / 180)
	s = math.Max(math.Min(s, 0.9999), -0.9999)
	return math.Log((1+s)/(1-s)) / 2
}
