package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/track"
	"github.com/julianstephens/trailpace/internal/waypoints"
)

// Conflict represents a problem with one or more manual waypoints
type Conflict struct {
	Type        constants.ConflictType
	Description string
	SpecIDs     []string // IDs of the manual waypoints involved
	TrackIndex  int      // resolved waypoint index, -1 when the spec is skipped
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// ByType returns the conflicts of the given type.
func (vr *ValidationResult) ByType(t constants.ConflictType) []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks manual waypoints against a reduced track
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateWaypoints reports specs that reconciliation would skip, move,
// merge or apply differently from what the runner probably meant. It never
// changes how Reconcile treats them.
func (v *Validator) ValidateWaypoints(course []models.Waypoint, specs []models.ManualWaypointSpec) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if len(course) == 0 {
		return result
	}

	total := track.TotalDistanceKm(course)
	last := len(course) - 1
	byIndex := map[int][]string{}

	for i, spec := range specs {
		name := specName(spec, i)

		if spec.GateTime != "" {
			if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(spec.GateTime)); err != nil {
				result.add(constants.ConflictInvalidGateTime, -1, spec,
					"%s has invalid gate time %q (expected HH:MM)", name, spec.GateTime)
			}
		}

		if spec.RestMinutes != "" {
			rest := waypoints.ParseRestMinutes(spec.RestMinutes)
			if rest == nil {
				result.add(constants.ConflictInvalidRest, -1, spec,
					"%s has non-numeric rest minutes %q and will rest 0 minutes", name, spec.RestMinutes)
			} else if *rest < 0 {
				result.add(constants.ConflictInvalidRest, -1, spec,
					"%s has negative rest minutes %s", name, spec.RestMinutes)
			}
		}

		dist, ok := waypoints.ParseDistance(spec.DistanceKm)
		if !ok {
			result.add(constants.ConflictInvalidDistance, -1, spec,
				"%s has invalid distance %q and will be skipped", name, spec.DistanceKm)
			continue
		}

		idx := waypoints.NearestIndex(course, dist)
		if idx < 0 {
			continue
		}
		byIndex[idx] = append(byIndex[idx], spec.ID)

		switch {
		case dist < 0:
			result.add(constants.ConflictNegativeDistance, idx, spec,
				"%s has negative distance %s km and snaps to the start", name, spec.DistanceKm)
		case dist > total:
			result.add(constants.ConflictBeyondCourse, idx, spec,
				"%s at %s km is beyond the course length of %.1f km and snaps to the finish", name, spec.DistanceKm, total)
		}

		if strings.TrimSpace(spec.Category) == "" {
			result.add(constants.ConflictMissingCategory, idx, spec,
				"%s has no category and will not appear in the itinerary", name)
		}

		if idx == 0 || (idx == last && last > 0) {
			boundary := constants.CategoryStart
			if idx != 0 {
				boundary = constants.CategoryFinish
			}
			result.add(constants.ConflictBoundaryOverride, idx, spec,
				"%s lands on %s; its category is replaced by %s", name, boundary, boundary)
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for idx, ids := range byIndex {
		if len(ids) > 1 {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		ids := byIndex[idx]
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: constants.ConflictSharedTrackPoint,
			Description: fmt.Sprintf("%d manual waypoints resolve to track point %d at %.1f km; only the last one (%s) is kept",
				len(ids), idx, course[idx].CumulativeDistanceKm, ids[len(ids)-1]),
			SpecIDs:    ids,
			TrackIndex: idx,
		})
	}

	return result
}

func (vr *ValidationResult) add(t constants.ConflictType, idx int, spec models.ManualWaypointSpec, format string, args ...any) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Description: fmt.Sprintf(format, args...),
		SpecIDs:     []string{spec.ID},
		TrackIndex:  idx,
	})
}

func specName(spec models.ManualWaypointSpec, position int) string {
	switch {
	case spec.CategoryLabel != "":
		return fmt.Sprintf("%q", spec.CategoryLabel)
	case spec.Category != "":
		return fmt.Sprintf("%s #%d", spec.Category, position+1)
	default:
		return fmt.Sprintf("waypoint #%d", position+1)
	}
}
