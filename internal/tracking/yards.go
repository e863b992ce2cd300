package tracking

import (
	"math"

	"github.com/binhauler/binhauler/internal/model"
)

const earthRadiusMeters = 6371000

// Distance returns the great-circle distance between two points in metres.
func Distance(a, b model.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// NearestYard returns the yard closest to c and its distance in metres.
// Yards without coordinates are skipped; ok is false if none qualify.
func NearestYard(c model.Coordinates, yards []model.Yard) (yard *model.Yard, meters float64, ok bool) {
	for i := range yards {
		if yards[i].Coordinates == nil {
			continue
		}
		d := Distance(c, *yards[i].Coordinates)
		if !ok || d < meters {
			yard, meters, ok = &yards[i], d, true
		}
	}
	return yard, meters, ok
}
