package tracking

import "github.com/binhauler/binhauler/internal/model"

// FleetStats summarizes where the fleet is.
type FleetStats struct {
	DeployedCount        int `json:"deployed_count"`
	AvailableAtYardCount int `json:"available_at_yard_count"`
	MaintenanceCount     int `json:"maintenance_count"`
	InTransitCount       int `json:"in_transit_count"`
}

// ComputeFleetStats counts assets with four independent predicates.
//
// The predicates may overlap: an asset in maintenance that sits at a
// customer site is counted both as deployed and as in maintenance. The
// counts are not deduplicated.
func ComputeFleetStats(assets []model.Asset) FleetStats {
	return FleetStats{
		DeployedCount: count(assets, func(a *model.Asset) bool {
			return a.LocationKind() == model.LocationKindCustomer
		}),
		AvailableAtYardCount: count(assets, func(a *model.Asset) bool {
			return a.Status == model.AssetStatusAvailable && a.LocationKind() == model.LocationKindYard
		}),
		MaintenanceCount: count(assets, func(a *model.Asset) bool {
			return a.Status == model.AssetStatusMaintenance
		}),
		InTransitCount: count(assets, func(a *model.Asset) bool {
			return a.Status == model.AssetStatusInTransit
		}),
	}
}

func count(assets []model.Asset, pred func(*model.Asset) bool) int {
	n := 0
	for i := range assets {
		if pred(&assets[i]) {
			n++
		}
	}
	return n
}
