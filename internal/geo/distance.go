// Package geo holds great-circle distance helpers used for "nearby" ranking.
package geo

import (
	"math"
	"sort"

	"github.com/ukydev/yatra-planner/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance in kilometres between two points.
// NaN inputs yield NaN.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	s := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(s), math.Sqrt(1-s))
	return EarthRadiusKm * c
}

// Between is DistanceKm for two Locations.
func Between(a, b models.Location) float64 {
	return DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// NearbyDestination pairs a destination with its distance from a reference point.
type NearbyDestination struct {
	Destination models.Destination `json:"destination"`
	DistanceKm  float64            `json:"distanceKm"`
}

// Nearby ranks destinations by distance from origin, closest first.
// Ties keep their input order. A limit <= 0 returns every destination.
func Nearby(origin models.Location, destinations []models.Destination, limit int) []NearbyDestination {
	out := make([]NearbyDestination, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, NearbyDestination{Destination: d, DistanceKm: Between(origin, d.Coordinates)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
