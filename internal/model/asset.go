package model

import "time"

// Asset is a rentable container tracked by the fleet.
type Asset struct {
	ID            string    `json:"id"`
	AssetNumber   string    `json:"asset_number"`
	Type          string    `json:"type"`
	ContainerSize float64   `json:"container_size"`
	ContainerUnit string    `json:"container_unit"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`

	// Location is the last entry of LocationHistory, nil when the asset
	// has never been placed.
	Location        *LocationRecord  `json:"location"`
	LocationHistory []LocationRecord `json:"location_history"`
}

// Asset statuses.
const (
	AssetStatusAvailable   = "available"
	AssetStatusDeployed    = "deployed"
	AssetStatusMaintenance = "maintenance"
	AssetStatusInTransit   = "in-transit"
)

// ValidAssetStatus reports whether status is a known asset status.
func ValidAssetStatus(status string) bool {
	switch status {
	case AssetStatusAvailable, AssetStatusDeployed, AssetStatusMaintenance, AssetStatusInTransit:
		return true
	}
	return false
}

// LocationKind returns the kind of the current location, or "" if none.
func (a *Asset) LocationKind() string {
	if a.Location == nil {
		return ""
	}
	return a.Location.Kind
}

// AssetFilter selects assets by status and current location kind.
// Empty fields match everything.
type AssetFilter struct {
	Status string
	Kind   string
}

// Match reports whether the asset satisfies the filter. An asset without a
// current location never matches a kind filter.
func (f AssetFilter) Match(a *Asset) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Kind != "" && a.LocationKind() != f.Kind {
		return false
	}
	return true
}
