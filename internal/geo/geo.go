// Package geo turns device position samples into asset location updates.
package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/binhauler/binhauler/internal/model"
	"github.com/binhauler/binhauler/internal/store"
	"github.com/binhauler/binhauler/internal/tracking"
)

// ErrUpstreamUnavailable reports that a geolocation or geocoding collaborator
// failed. No location update was attempted.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// Sample is one position fix reported by a device.
type Sample struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // metres
	Timestamp time.Time `json:"timestamp"`
}

// Coordinates returns the sample position.
func (s Sample) Coordinates() model.Coordinates {
	return model.Coordinates{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Geocoder turns a position into a display address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, c model.Coordinates) (string, error)
}

// CoordinateGeocoder formats the position itself as the address. It is used
// when no geocoding service is configured.
type CoordinateGeocoder struct{}

// ReverseGeocode implements Geocoder.
func (CoordinateGeocoder) ReverseGeocode(_ context.Context, c model.Coordinates) (string, error) {
	return fmt.Sprintf("%.5f, %.5f", c.Latitude, c.Longitude), nil
}

// Updater is the single write operation of the location store.
type Updater interface {
	RecordLocationUpdate(ctx context.Context, assetID string, in model.LocationInput) (*model.Asset, error)
}

// YardSource lists the yards a sample may be snapped to.
type YardSource func(ctx context.Context) ([]model.Yard, error)

// Tracker applies device samples to the location store.
type Tracker struct {
	Updater  Updater
	Yards    YardSource
	Geocoder Geocoder

	// YardRadius is how close to a yard, in metres, a sample must be to
	// count as being at that yard.
	YardRadius float64
	// MaxAccuracy rejects samples whose reported accuracy is worse than
	// this many metres. Zero accepts everything.
	MaxAccuracy float64
}

// Apply records one sample as a location update attributed to actor.
//
// A sample within YardRadius of the nearest yard becomes a yard record with
// that yard's address; anything else becomes a customer record addressed by
// the geocoder.
func (t *Tracker) Apply(ctx context.Context, assetID, actor string, s Sample) (*model.Asset, error) {
	c := s.Coordinates()
	if err := c.Validate(); err != nil {
		return nil, &store.ValidationError{Field: "coordinates", Reason: err.Error()}
	}
	if math.IsNaN(s.Accuracy) || s.Accuracy < 0 {
		return nil, &store.ValidationError{Field: "accuracy", Reason: "must be a non-negative number"}
	}
	if t.MaxAccuracy > 0 && s.Accuracy > t.MaxAccuracy {
		return nil, &store.ValidationError{Field: "accuracy",
			Reason: fmt.Sprintf("%.0f m exceeds limit of %.0f m", s.Accuracy, t.MaxAccuracy)}
	}

	in := model.LocationInput{
		Coordinates: &c,
		UpdatedBy:   actor,
		Timestamp:   s.Timestamp,
	}

	var yards []model.Yard
	if t.Yards != nil {
		var err error
		yards, err = t.Yards(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading yards: %w", err)
		}
	}

	if yard, meters, ok := tracking.NearestYard(c, yards); ok && meters <= t.YardRadius {
		in.Kind = model.LocationKindYard
		in.Address = yard.Address
	} else {
		geocoder := t.Geocoder
		if geocoder == nil {
			geocoder = CoordinateGeocoder{}
		}
		address, err := geocoder.ReverseGeocode(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("%w: reverse geocoding: %v", ErrUpstreamUnavailable, err)
		}
		in.Kind = model.LocationKindCustomer
		in.Address = address
	}

	return t.Updater.RecordLocationUpdate(ctx, assetID, in)
}
