package services

import (
	"math"

	"github.com/aquaguard/backend/internal/models"
)

const (
	earthRadiusKm = 6371.0

	// Candidates closer than this are treated as duplicates of each other.
	duplicateRadiusKm = 0.5
)

// haversineKm returns the great-circle distance in kilometers between two
// coordinates given in decimal degrees.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// findDuplicate scans candidates in order and returns the id of the first
// report within the duplicate radius of (lat, lon). Candidates are expected
// most-recent-first; the scan short-circuits on the first hit rather than
// picking the closest match.
func findDuplicate(lat, lon float64, candidates []models.EnvironmentalReport) (string, bool) {
	for _, candidate := range candidates {
		if haversineKm(lat, lon, candidate.Latitude, candidate.Longitude) < duplicateRadiusKm {
			return candidate.ID, true
		}
	}
	return "", false
}
