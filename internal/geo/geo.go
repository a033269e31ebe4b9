// Package geo holds the spherical distance and elevation smoothing helpers
// used when reducing a raw track.
package geo

import (
	"math"

	"github.com/julianstephens/trailpace/internal/constants"
)

// HaversineMeters returns the great-circle distance between two points on a
// sphere of radius constants.EarthRadiusMeters. Identical points return
// exactly 0. Non-finite inputs propagate as NaN.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLatRad := (lat2 - lat1) * math.Pi / 180
	deltaLonRad := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLatRad/2)*math.Sin(deltaLatRad/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLonRad/2)*math.Sin(deltaLonRad/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return constants.EarthRadiusMeters * c
}

// HaversineKm is HaversineMeters in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	return HaversineMeters(lat1, lon1, lat2, lon2) / 1000
}

// SmoothElevation applies a centered moving average. The window for index i
// spans [max(i-w/2, 0), min(i+w/2, n-1)] and is truncated at the edges, so
// boundary points average over fewer samples. A window below 1 returns a copy.
func SmoothElevation(elevations []float64, window int) []float64 {
	smoothed := make([]float64, len(elevations))
	if window < 1 {
		window = 1
	}
	half := window / 2
	n := len(elevations)

	for i := range elevations {
		start := max(0, i-half)
		end := min(n-1, i+half)

		sum := 0.0
		for j := start; j <= end; j++ {
			sum += elevations[j]
		}
		smoothed[i] = sum / float64(end-start+1)
	}

	return smoothed
}
