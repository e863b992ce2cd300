package model

import (
	"fmt"
	"math"
	"time"
)

// Location kinds.
const (
	LocationKindYard     = "yard"
	LocationKindCustomer = "customer"
)

// ValidLocationKind reports whether kind is yard or customer.
func ValidLocationKind(kind string) bool {
	return kind == LocationKindYard || kind == LocationKindCustomer
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks that the point lies on the globe.
func (c Coordinates) Validate() error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return fmt.Errorf("coordinates must be finite numbers")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", c.Longitude)
	}
	return nil
}

// LocationRecord is one place-in-time for an asset. Records are never
// edited once appended to an asset's history.
type LocationRecord struct {
	ID          int64        `json:"id"`
	AssetID     string       `json:"asset_id"`
	Kind        string       `json:"kind"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	UpdatedBy   string       `json:"updated_by"`
	JobID       *string      `json:"job_id,omitempty"`
}

// LocationInput is the caller-supplied part of a location update.
// A zero Timestamp means "now" as seen by the store.
type LocationInput struct {
	Kind        string       `json:"kind"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	UpdatedBy   string       `json:"updated_by"`
	JobID       *string      `json:"job_id,omitempty"`
	Timestamp   time.Time    `json:"timestamp,omitzero"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
