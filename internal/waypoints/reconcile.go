// Package waypoints places user-declared waypoints onto a reduced track and
// manages the draft and applied lists a user edits.
package waypoints

import (
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
)

// Reconcile returns a copy of track with each spec assigned to its nearest
// waypoint by cumulative distance. Specs whose distance is not a number are
// skipped. When several specs land on the same waypoint the last one wins.
// START and FINISH are re-imposed on the first and last waypoints afterwards,
// keeping any label, rest or gate time a spec put there.
func Reconcile(track []models.Waypoint, specs []models.ManualWaypointSpec) []models.Waypoint {
	result := models.CloneWaypoints(track)
	if len(result) == 0 {
		return result
	}

	for _, spec := range specs {
		target, ok := ParseDistance(spec.DistanceKm)
		if !ok {
			logger.Debug("Skipping manual waypoint with invalid distance", "id", spec.ID, "distance", spec.DistanceKm)
			continue
		}

		idx := NearestIndex(result, target)
		if idx < 0 {
			continue
		}

		wp := &result[idx]
		wp.Category = spec.Category
		wp.CategoryLabel = spec.CategoryLabel
		wp.IsManual = true
		wp.RestMinutes = ParseRestMinutes(spec.RestMinutes)
		wp.GateTime = spec.GateTime

		logger.Debug("Placed manual waypoint", "id", spec.ID, "target_km", target, "index", idx, "category", spec.Category)
	}

	result[0].Category = constants.CategoryStart
	if last := len(result) - 1; last > 0 {
		result[last].Category = constants.CategoryFinish
	}

	return result
}

// NearestIndex returns the index whose cumulative distance is closest to
// targetKm. On an exact tie a later waypoint replaces the current choice only
// if it lies beyond the target. Returns -1 when no distance is comparable.
func NearestIndex(track []models.Waypoint, targetKm float64) int {
	best := -1
	minDiff := math.Inf(1)

	for i, wp := range track {
		diff := math.Abs(wp.CumulativeDistanceKm - targetKm)
		if diff < minDiff {
			minDiff = diff
			best = i
		} else if diff == minDiff && wp.CumulativeDistanceKm > targetKm {
			best = i
		}
	}

	return best
}

// ParseDistance parses a kilometer value as typed by the user.
func ParseDistance(s string) (float64, bool) {
	return parseNumber(s)
}

// ParseRestMinutes returns nil for empty or non-numeric input.
func ParseRestMinutes(s string) *float64 {
	v, ok := parseNumber(s)
	if !ok {
		return nil
	}
	return &v
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
