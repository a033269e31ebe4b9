package waypoints

import (
	"testing"

	"github.com/julianstephens/trailpace/internal/models"
)

func testTrack(cumulative ...float64) []models.Waypoint {
	wps := make([]models.Waypoint, len(cumulative))
	for i, c := range cumulative {
		wps[i] = models.Waypoint{ID: i, CumulativeDistanceKm: c}
	}
	wps[0].Category = "START"
	if len(wps) > 1 {
		wps[len(wps)-1].Category = "FINISH"
	}
	return wps
}

func TestNearestIndex(t *testing.T) {
	tests := []struct {
		name   string
		track  []float64
		target float64
		want   int
	}{
		{"exact match", []float64{0, 5, 10}, 5, 1},
		{"closest below", []float64{0, 5, 10}, 6, 1},
		{"closest above", []float64{0, 5, 10}, 9, 2},
		{"tie prefers point beyond target", []float64{0, 5, 10}, 7.5, 2},
		{"tie at start prefers point beyond target", []float64{0, 5, 10}, 2.5, 1},
		{"negative target snaps to start", []float64{0, 5, 10}, -3, 0},
		{"beyond course snaps to finish", []float64{0, 5, 10}, 42, 2},
		{"duplicate distances before target keep first", []float64{0, 5, 5, 10}, 6, 1},
		{"duplicate distances beyond target take last", []float64{0, 5, 5, 10}, 4.5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestIndex(testTrack(tt.track...), tt.target)
			if got != tt.want {
				t.Errorf("NearestIndex(%v, %v) = %d, want %d", tt.track, tt.target, got, tt.want)
			}
		})
	}
}

func TestReconcileAssignsFields(t *testing.T) {
	track := testTrack(0, 5, 10, 15)
	specs := []models.ManualWaypointSpec{
		{ID: "a", DistanceKm: " 5.2 ", Category: "AID", CategoryLabel: "Col de Voza", RestMinutes: "5", GateTime: "09:30"},
	}

	got := Reconcile(track, specs)

	wp := got[1]
	if wp.Category != "AID" || wp.CategoryLabel != "Col de Voza" || wp.GateTime != "09:30" {
		t.Errorf("waypoint = %+v", wp)
	}
	if !wp.IsManual {
		t.Error("IsManual = false, want true")
	}
	if wp.RestMinutes == nil || *wp.RestMinutes != 5 {
		t.Errorf("RestMinutes = %v, want 5", wp.RestMinutes)
	}
	if got[2].IsManual || got[2].Category != "" {
		t.Errorf("untouched waypoint modified: %+v", got[2])
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	track := testTrack(0, 5, 10)
	rest := 3.0
	track[1].RestMinutes = &rest

	got := Reconcile(track, []models.ManualWaypointSpec{{DistanceKm: "5", Category: "AID", RestMinutes: "12"}})

	if track[1].Category != "" || track[1].IsManual {
		t.Errorf("input waypoint mutated: %+v", track[1])
	}
	if *track[1].RestMinutes != 3 {
		t.Errorf("input RestMinutes mutated to %v", *track[1].RestMinutes)
	}
	if *got[1].RestMinutes != 12 {
		t.Errorf("result RestMinutes = %v, want 12", *got[1].RestMinutes)
	}
}

func TestReconcileSkipsInvalidDistance(t *testing.T) {
	track := testTrack(0, 5, 10)
	specs := []models.ManualWaypointSpec{
		{DistanceKm: "", Category: "AID"},
		{DistanceKm: "abc", Category: "AID"},
		{DistanceKm: "NaN", Category: "AID"},
		{DistanceKm: "5km", Category: "AID"},
	}

	got := Reconcile(track, specs)
	for i, wp := range got {
		if wp.IsManual {
			t.Errorf("waypoint %d marked manual: %+v", i, wp)
		}
	}
}

func TestReconcileInvalidRestIsNil(t *testing.T) {
	got := Reconcile(testTrack(0, 5, 10), []models.ManualWaypointSpec{{DistanceKm: "5", Category: "AID", RestMinutes: "soon"}})
	if got[1].RestMinutes != nil {
		t.Errorf("RestMinutes = %v, want nil", *got[1].RestMinutes)
	}
}

func TestReconcileLastSpecWins(t *testing.T) {
	specs := []models.ManualWaypointSpec{
		{DistanceKm: "4.9", Category: "AID", CategoryLabel: "first"},
		{DistanceKm: "5.1", Category: "WATER", CategoryLabel: "second"},
	}
	got := Reconcile(testTrack(0, 5, 10), specs)
	if got[1].Category != "WATER" || got[1].CategoryLabel != "second" {
		t.Errorf("waypoint = %+v, want WATER/second", got[1])
	}
}

func TestReconcileForcesBoundaries(t *testing.T) {
	specs := []models.ManualWaypointSpec{
		{DistanceKm: "0", Category: "AID", CategoryLabel: "Chamonix", GateTime: "06:00"},
		{DistanceKm: "99", Category: "AID", CategoryLabel: "Arrival", RestMinutes: "10", GateTime: "20:00"},
	}
	got := Reconcile(testTrack(0, 5, 10), specs)

	if got[0].Category != "START" {
		t.Errorf("first Category = %q, want START", got[0].Category)
	}
	if got[0].CategoryLabel != "Chamonix" || got[0].GateTime != "06:00" || !got[0].IsManual {
		t.Errorf("first waypoint lost manual fields: %+v", got[0])
	}
	if got[2].Category != "FINISH" {
		t.Errorf("last Category = %q, want FINISH", got[2].Category)
	}
	if got[2].RestMinutes == nil || *got[2].RestMinutes != 10 || got[2].GateTime != "20:00" {
		t.Errorf("last waypoint lost manual fields: %+v", got[2])
	}
}

func TestReconcileSingleWaypoint(t *testing.T) {
	got := Reconcile(testTrack(0), []models.ManualWaypointSpec{{DistanceKm: "3", Category: "AID"}})
	if len(got) != 1 || got[0].Category != "START" {
		t.Errorf("got %+v, want single START", got)
	}
}

func TestReconcileEmptyTrack(t *testing.T) {
	if got := Reconcile(nil, []models.ManualWaypointSpec{{DistanceKm: "3"}}); len(got) != 0 {
		t.Errorf("Reconcile(nil) = %v, want empty", got)
	}
}
