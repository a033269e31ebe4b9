package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/trailpace/internal/config"
	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/storage/sqlite"
)

const testGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Col Loop</name>
    <trkseg>
      <trkpt lat="45.0000" lon="6.0000"><ele>1000</ele></trkpt>
      <trkpt lat="45.0100" lon="6.0000"><ele>1080</ele></trkpt>
      <trkpt lat="45.0200" lon="6.0000"><ele>1160</ele></trkpt>
      <trkpt lat="45.0300" lon="6.0000"><ele>1240</ele></trkpt>
      <trkpt lat="45.0400" lon="6.0000"><ele>1160</ele></trkpt>
      <trkpt lat="45.0500" lon="6.0000"><ele>1080</ele></trkpt>
      <trkpt lat="45.0600" lon="6.0000"><ele>1000</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "trailpace.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &Context{
		Store: store,
		Config: config.Config{
			Timezone:        "UTC",
			SmoothingWindow: 1,
		},
		Out: out,
	}
	return ctx, out
}

func writeGPX(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "col.gpx")
	if err := os.WriteFile(path, []byte(testGPX), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func strPtr(s string) *string { return &s }

func setPace(t *testing.T, ctx *Context, pace string) {
	t.Helper()
	if err := (&ProfileSetCmd{Pace: strPtr(pace)}).Run(ctx); err != nil {
		t.Fatalf("ProfileSetCmd.Run() error = %v", err)
	}
}

func TestProfileSetAndShow(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &ProfileSetCmd{
		Start:    strPtr("05:30"),
		Marathon: strPtr("3:30"),
		Skill:    strPtr("600"),
		Date:     strPtr("2026-08-29"),
		Timezone: strPtr("Europe/Paris"),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ProfileSetCmd.Run() error = %v", err)
	}

	profile, err := ctx.Store.GetProfile()
	if err != nil {
		t.Fatal(err)
	}
	if profile.StartTime != "05:30" || profile.MarathonTime != "3:30" || profile.SkillIndex != "600" {
		t.Errorf("profile = %+v", profile)
	}

	out.Reset()
	if err := (&ProfileShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("ProfileShowCmd.Run() error = %v", err)
	}
	for _, want := range []string{"05:30", "Europe/Paris", "Base Pace:", "/km"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("profile show output missing %q:\n%s", want, out.String())
		}
	}
}

func TestProfileSetValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  ProfileSetCmd
	}{
		{name: "bad start", cmd: ProfileSetCmd{Start: strPtr("25:00")}},
		{name: "empty start", cmd: ProfileSetCmd{Start: strPtr("")}},
		{name: "bad finish", cmd: ProfileSetCmd{Finish: strPtr("7pm")}},
		{name: "bad pace", cmd: ProfileSetCmd{Pace: strPtr("5:75")}},
		{name: "bad marathon", cmd: ProfileSetCmd{Marathon: strPtr("fast")}},
		{name: "skill out of range", cmd: ProfileSetCmd{Skill: strPtr("1001")}},
		{name: "zero window", cmd: ProfileSetCmd{Window: new(int)}},
		{name: "bad date", cmd: ProfileSetCmd{Date: strPtr("29/08/2026")}},
		{name: "unknown timezone", cmd: ProfileSetCmd{Timezone: strPtr("Mars/Olympus")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestProfileSetNoChanges(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&ProfileSetCmd{}).Run(ctx); err != nil {
		t.Fatalf("ProfileSetCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRunFlagsOverrideProfile(t *testing.T) {
	ctx, _ := setupTestContext(t)
	setPace(t, ctx, "6:00")

	profile, err := ctx.runnerProfile(RunFlags{Marathon: "3:00", Window: 3})
	if err != nil {
		t.Fatal(err)
	}
	if profile.Pace != "" || profile.MarathonTime != "3:00" {
		t.Errorf("marathon flag should replace the stored pace, got pace %q marathon %q", profile.Pace, profile.MarathonTime)
	}
	if profile.SmoothingWindow != 3 {
		t.Errorf("SmoothingWindow = %d, want 3", profile.SmoothingWindow)
	}
	if profile.Timezone != "UTC" && profile.Timezone != constants.DefaultTimezone {
		t.Errorf("Timezone = %q", profile.Timezone)
	}
}

func TestWaypointWorkflow(t *testing.T) {
	ctx, out := setupTestContext(t)

	add := &WaypointAddCmd{Track: "col.gpx", Distance: "3", Category: "Summit", Label: "Col", Rest: "5"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("WaypointAddCmd.Run() error = %v", err)
	}
	front := 0
	if err := (&WaypointAddCmd{Track: "col.gpx", Distance: "1.5", Category: "Aid", After: &front}).Run(ctx); err != nil {
		t.Fatalf("WaypointAddCmd.Run() with --after error = %v", err)
	}

	plan, err := storage.LoadPlan(ctx.Store, "col.gpx")
	if err != nil {
		t.Fatal(err)
	}
	draft := plan.Draft()
	if len(draft) != 2 || draft[0].DistanceKm != "1.5" || draft[1].Category != "Summit" {
		t.Fatalf("draft = %+v", draft)
	}
	if len(plan.Applied()) != 0 {
		t.Error("adding should not touch the applied list")
	}

	out.Reset()
	if err := (&WaypointListCmd{Track: "col.gpx"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No manual waypoints for col.gpx") || !strings.Contains(out.String(), "--draft") {
		t.Errorf("list before apply:\n%s", out.String())
	}

	if err := (&WaypointEditCmd{Track: "col.gpx", ID: draft[1].ID, Field: "gate_time", Value: "10:30"}).Run(ctx); err != nil {
		t.Fatalf("WaypointEditCmd.Run() error = %v", err)
	}
	if err := (&WaypointApplyCmd{Track: "col.gpx"}).Run(ctx); err != nil {
		t.Fatalf("WaypointApplyCmd.Run() error = %v", err)
	}

	applied, err := ctx.Store.GetManualWaypoints(storage.ManualPointsKey("col.gpx"))
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 2 || applied[1].GateTime != "10:30" {
		t.Errorf("applied = %+v", applied)
	}

	out.Reset()
	if err := (&WaypointListCmd{Track: "col.gpx", ShowIDs: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), draft[1].ID) || !strings.Contains(out.String(), "Summit") {
		t.Errorf("list after apply:\n%s", out.String())
	}

	if err := (&WaypointRemoveCmd{Track: "col.gpx", ID: draft[0].ID}).Run(ctx); err != nil {
		t.Fatalf("WaypointRemoveCmd.Run() error = %v", err)
	}
	out.Reset()
	if err := (&WaypointDiscardCmd{Track: "col.gpx"}).Run(ctx); err != nil {
		t.Fatalf("WaypointDiscardCmd.Run() error = %v", err)
	}
	plan, _ = storage.LoadPlan(ctx.Store, "col.gpx")
	if plan.Dirty() || len(plan.Draft()) != 2 {
		t.Errorf("discard should restore the applied list, draft = %+v", plan.Draft())
	}

	out.Reset()
	if err := (&WaypointDiscardCmd{Track: "col.gpx"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No draft to discard") {
		t.Errorf("second discard output: %s", out.String())
	}
}

func TestWaypointEditUnknownID(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&WaypointEditCmd{Track: "col.gpx", ID: "missing", Field: "category", Value: "Aid"}).Run(ctx)
	if err == nil {
		t.Error("expected error for unknown waypoint ID")
	}
}

func TestSimulate(t *testing.T) {
	ctx, out := setupTestContext(t)
	gpxPath := writeGPX(t)
	setPace(t, ctx, "6:00")

	if err := (&WaypointAddCmd{Track: "col.gpx", Distance: "3.3", Category: "Summit", Apply: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&SimulateCmd{GPX: gpxPath}).Run(ctx); err != nil {
		t.Fatalf("SimulateCmd.Run() error = %v", err)
	}
	for _, want := range []string{"Col Loop", "START", "Summit", "FINISH", "Base pace:", "6:00 /km", "Finish time:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("simulate output missing %q:\n%s", want, out.String())
		}
	}
	if ctx.Session == nil || ctx.Session.Latest() == nil {
		t.Error("simulate should record the result in the session")
	}

	out.Reset()
	if err := (&SimulateCmd{GPX: gpxPath, NoWaypoints: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "Summit") {
		t.Error("--no-waypoints should ignore stored waypoints")
	}
}

func TestSimulateJSON(t *testing.T) {
	ctx, out := setupTestContext(t)
	gpxPath := writeGPX(t)

	cmd := &SimulateCmd{GPX: gpxPath, JSON: true, Flags: RunFlags{Pace: "5:00", Start: "07:00"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("SimulateCmd.Run() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if decoded["base_pace"] != "5:00" {
		t.Errorf("base_pace = %v, want 5:00", decoded["base_pace"])
	}
}

func TestSimulateWithoutPace(t *testing.T) {
	ctx, _ := setupTestContext(t)
	if err := (&SimulateCmd{GPX: writeGPX(t)}).Run(ctx); err == nil {
		t.Error("expected error when no pace or marathon time is set")
	}
}

func TestValidateStrict(t *testing.T) {
	ctx, out := setupTestContext(t)
	gpxPath := writeGPX(t)

	if err := (&WaypointAddCmd{Track: "col.gpx", Distance: "250", Category: "Aid", Apply: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&ValidateCmd{GPX: gpxPath}).Run(ctx); err != nil {
		t.Fatalf("non-strict validate should not fail: %v", err)
	}
	if !strings.Contains(out.String(), "Conflicts detected") {
		t.Errorf("validate output:\n%s", out.String())
	}

	err := (&ValidateCmd{GPX: gpxPath, Strict: true}).Run(ctx)
	if !errors.Is(err, ErrConflicts) {
		t.Errorf("strict validate error = %v, want ErrConflicts", err)
	}
}

func TestValidateDraftOnly(t *testing.T) {
	ctx, out := setupTestContext(t)
	gpxPath := writeGPX(t)

	if err := (&WaypointAddCmd{Track: "col.gpx", Distance: "abc", Category: "Aid"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&ValidateCmd{GPX: gpxPath, Strict: true}).Run(ctx); err != nil {
		t.Errorf("applied list is empty, validate error = %v", err)
	}
	if err := (&ValidateCmd{GPX: gpxPath, Draft: true, Strict: true}).Run(ctx); !errors.Is(err, ErrConflicts) {
		t.Errorf("draft validate error = %v, want ErrConflicts", err)
	}
}

func TestExportGeoJSONToFile(t *testing.T) {
	ctx, out := setupTestContext(t)
	gpxPath := writeGPX(t)
	setPace(t, ctx, "6:00")

	dest := filepath.Join(t.TempDir(), "col.geojson")
	if err := (&ExportGeoJSONCmd{GPX: gpxPath, Output: dest}).Run(ctx); err != nil {
		t.Fatalf("ExportGeoJSONCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Wrote "+dest) {
		t.Errorf("unexpected output: %s", out.String())
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []any  `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("invalid GeoJSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) < 3 {
		t.Errorf("feature collection = %s with %d features", fc.Type, len(fc.Features))
	}
}

func TestExportCourseOnlySkipsSimulation(t *testing.T) {
	ctx, out := setupTestContext(t)
	// No pace set: a course-only export must still succeed.
	if err := (&ExportGeoJSONCmd{GPX: writeGPX(t), Course: true}).Run(ctx); err != nil {
		t.Fatalf("ExportGeoJSONCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "LineString") {
		t.Errorf("course export missing the track line:\n%s", out.String())
	}
}

func TestExportJSON(t *testing.T) {
	ctx, out := setupTestContext(t)
	setPace(t, ctx, "6:00")
	out.Reset()

	if err := (&ExportJSONCmd{GPX: writeGPX(t)}).Run(ctx); err != nil {
		t.Fatalf("ExportJSONCmd.Run() error = %v", err)
	}
	if !json.Valid(out.Bytes()) {
		t.Errorf("output is not valid JSON:\n%s", out.String())
	}
}

func TestTracks(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&TracksCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No tracks have manual waypoints yet") {
		t.Errorf("empty tracks output: %s", out.String())
	}

	for _, d := range []string{"5", "10"} {
		if err := (&WaypointAddCmd{Track: "utmb.gpx", Distance: d, Category: "Aid", Apply: true}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	// A draft-only track is not listed.
	if err := (&WaypointAddCmd{Track: "ccc.gpx", Distance: "5", Category: "Aid"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&TracksCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "utmb.gpx (2 waypoint(s))") {
		t.Errorf("tracks output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "ccc.gpx") {
		t.Errorf("draft-only track listed:\n%s", out.String())
	}
}
