package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
)

// course is five points 0,5,10,15,20 km apart.
func course() []models.Waypoint {
	wps := make([]models.Waypoint, 5)
	for i := range wps {
		wps[i] = models.Waypoint{ID: i, CumulativeDistanceKm: float64(i) * 5}
	}
	return wps
}

func TestValidateWaypoints(t *testing.T) {
	tests := []struct {
		name      string
		specs     []models.ManualWaypointSpec
		wantTypes []constants.ConflictType
	}{
		{
			name:  "clean spec",
			specs: []models.ManualWaypointSpec{{ID: "a", DistanceKm: "10", Category: "Aid", RestMinutes: "5", GateTime: "12:30"}},
		},
		{
			name:      "non-numeric distance",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "ten", Category: "Aid"}},
			wantTypes: []constants.ConflictType{constants.ConflictInvalidDistance},
		},
		{
			name:      "negative distance snaps to start",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "-2", Category: "Aid"}},
			wantTypes: []constants.ConflictType{constants.ConflictNegativeDistance, constants.ConflictBoundaryOverride},
		},
		{
			name:      "beyond course snaps to finish",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "42", Category: "Aid"}},
			wantTypes: []constants.ConflictType{constants.ConflictBeyondCourse, constants.ConflictBoundaryOverride},
		},
		{
			name:      "bad gate time",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "10", Category: "Aid", GateTime: "25:00"}},
			wantTypes: []constants.ConflictType{constants.ConflictInvalidGateTime},
		},
		{
			name:      "non-numeric rest",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "10", Category: "Aid", RestMinutes: "five"}},
			wantTypes: []constants.ConflictType{constants.ConflictInvalidRest},
		},
		{
			name:      "negative rest",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "10", Category: "Aid", RestMinutes: "-3"}},
			wantTypes: []constants.ConflictType{constants.ConflictInvalidRest},
		},
		{
			name:      "missing category",
			specs:     []models.ManualWaypointSpec{{ID: "a", DistanceKm: "10"}},
			wantTypes: []constants.ConflictType{constants.ConflictMissingCategory},
		},
		{
			name: "two specs on one point",
			specs: []models.ManualWaypointSpec{
				{ID: "a", DistanceKm: "9.8", Category: "Aid"},
				{ID: "b", DistanceKm: "10.3", Category: "Water"},
			},
			wantTypes: []constants.ConflictType{constants.ConflictSharedTrackPoint},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateWaypoints(course(), tt.specs)
			var got []constants.ConflictType
			for _, c := range result.Conflicts {
				got = append(got, c.Type)
			}
			if len(got) != len(tt.wantTypes) {
				t.Fatalf("conflicts = %v, want %v\n%s", got, tt.wantTypes, result.FormatReport())
			}
			for i := range got {
				if got[i] != tt.wantTypes[i] {
					t.Errorf("conflict[%d] = %s, want %s", i, got[i], tt.wantTypes[i])
				}
			}
		})
	}
}

func TestSharedTrackPointKeepsLast(t *testing.T) {
	specs := []models.ManualWaypointSpec{
		{ID: "first", DistanceKm: "14", Category: "Aid"},
		{ID: "second", DistanceKm: "15", Category: "Aid"},
		{ID: "third", DistanceKm: "16", Category: "Aid"},
	}
	result := New().ValidateWaypoints(course(), specs)
	shared := result.ByType(constants.ConflictSharedTrackPoint)
	if len(shared) != 1 {
		t.Fatalf("got %d shared conflicts, want 1", len(shared))
	}
	c := shared[0]
	if c.TrackIndex != 3 {
		t.Errorf("TrackIndex = %d, want 3", c.TrackIndex)
	}
	if len(c.SpecIDs) != 3 || c.SpecIDs[2] != "third" {
		t.Errorf("SpecIDs = %v", c.SpecIDs)
	}
	if !strings.Contains(c.Description, "third") {
		t.Errorf("Description = %q, want the surviving id", c.Description)
	}
}

func TestEmptyInputs(t *testing.T) {
	v := New()
	if r := v.ValidateWaypoints(nil, []models.ManualWaypointSpec{{ID: "a", DistanceKm: "x"}}); r.HasConflicts() {
		t.Errorf("empty course should yield no conflicts, got %s", r.FormatReport())
	}
	r := v.ValidateWaypoints(course(), nil)
	if r.HasConflicts() {
		t.Errorf("no specs should yield no conflicts")
	}
	if r.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", r.FormatReport())
	}
}
