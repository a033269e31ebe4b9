// Package track reduces raw GPS samples into distance- and gradient-annotated
// waypoints.
package track

import (
	"fmt"
	"math"

	"github.com/julianstephens/trailpace/internal/constants"
	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/geo"
	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
)

// Reduce converts ordered samples into waypoints. Elevation is smoothed with
// a centered moving average of the given window before gradients are taken.
// Missing elevation counts as 0 m. Coordinates are not validated, so a NaN
// coordinate yields NaN distances from that point on.
func Reduce(samples []models.TrackSample, window int) ([]models.Waypoint, error) {
	if len(samples) == 0 {
		return nil, &apperrors.EmptyTrackError{}
	}

	raw := make([]float64, len(samples))
	for i, s := range samples {
		if s.Elevation != nil && !math.IsNaN(*s.Elevation) {
			raw[i] = *s.Elevation
		}
	}
	smoothed := geo.SmoothElevation(raw, window)

	waypoints := make([]models.Waypoint, len(samples))
	cumulative := 0.0

	for i, s := range samples {
		section := 0.0
		gradient := 0.0
		if i > 0 {
			prev := samples[i-1]
			section = geo.HaversineKm(prev.Latitude, prev.Longitude, s.Latitude, s.Longitude)
			cumulative += section
			if section > 0 {
				gradient = (smoothed[i] - smoothed[i-1]) / (section * 1000) * 100
			}
		}

		wp := models.Waypoint{
			ID:                     i,
			Name:                   fmt.Sprintf(constants.DefaultPointName, i+1),
			CumulativeDistanceKm:   cumulative,
			SectionDistanceKm:      section,
			ElevationM:             smoothed[i],
			SectionGradientPercent: gradient,
			Latitude:               s.Latitude,
			Longitude:              s.Longitude,
		}
		if s.Timestamp != nil {
			ts := *s.Timestamp
			wp.Timestamp = &ts
		}
		waypoints[i] = wp
	}

	waypoints[0].CumulativeDistanceKm = 0
	waypoints[0].Category = constants.CategoryStart
	if last := len(waypoints) - 1; last > 0 {
		waypoints[last].Category = constants.CategoryFinish
	}

	logger.Debug("Reduced track", "samples", len(samples), "window", window, "distance_km", cumulative)
	return waypoints, nil
}

// TotalDistanceKm returns the cumulative distance of the last waypoint.
func TotalDistanceKm(waypoints []models.Waypoint) float64 {
	if len(waypoints) == 0 {
		return 0
	}
	return waypoints[len(waypoints)-1].CumulativeDistanceKm
}
