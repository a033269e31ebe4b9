// Package storagetest holds the behaviour every storage.Provider must share.
package storagetest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/storage"
)

// RunProviderTests exercises an initialised provider returned by newStore.
// Each subtest gets a fresh provider.
func RunProviderTests(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	t.Helper()

	t.Run("default profile after init", func(t *testing.T) {
		s := newStore(t)
		profile, err := s.GetProfile()
		if err != nil {
			t.Fatalf("GetProfile() error = %v", err)
		}
		if profile.StartTime != constants.DefaultStartTime {
			t.Errorf("StartTime = %q, want %q", profile.StartTime, constants.DefaultStartTime)
		}
		if profile.SmoothingWindow != constants.DefaultSmoothingWindow {
			t.Errorf("SmoothingWindow = %d, want %d", profile.SmoothingWindow, constants.DefaultSmoothingWindow)
		}
	})

	t.Run("profile round trip", func(t *testing.T) {
		s := newStore(t)
		want := models.RunnerProfile{
			StartTime:       "05:30",
			FinishTime:      "21:00",
			MarathonTime:    "3:30",
			Pace:            "6:15",
			SkillIndex:      "620",
			SmoothingWindow: 5,
			RaceDate:        "2026-08-29",
			Timezone:        "Europe/Paris",
		}
		if err := s.SaveProfile(want); err != nil {
			t.Fatalf("SaveProfile() error = %v", err)
		}
		got, err := s.GetProfile()
		if err != nil {
			t.Fatalf("GetProfile() error = %v", err)
		}
		if got != want {
			t.Errorf("GetProfile() = %+v, want %+v", got, want)
		}
	})

	t.Run("missing key is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetManualWaypoints(storage.ManualPointsKey("nowhere.gpx"))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetManualWaypoints() error = %v, want ErrNotFound", err)
		}
		err = s.DeleteManualWaypoints(storage.ManualPointsKey("nowhere.gpx"))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteManualWaypoints() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("waypoints keep order and replace", func(t *testing.T) {
		s := newStore(t)
		key := storage.ManualPointsKey("utmb.gpx")
		first := []models.ManualWaypointSpec{
			{ID: "a", DistanceKm: "8", Category: "Aid", CategoryLabel: "Les Houches", RestMinutes: "5"},
			{ID: "b", DistanceKm: "31.2", Category: "Aid", GateTime: "13:30"},
			{ID: "c", DistanceKm: "2", Category: "Water"},
		}
		if err := s.SaveManualWaypoints(key, first); err != nil {
			t.Fatalf("SaveManualWaypoints() error = %v", err)
		}
		got, err := s.GetManualWaypoints(key)
		if err != nil {
			t.Fatalf("GetManualWaypoints() error = %v", err)
		}
		if !reflect.DeepEqual(got, first) {
			t.Errorf("GetManualWaypoints() = %+v, want %+v", got, first)
		}

		second := first[:1]
		if err := s.SaveManualWaypoints(key, second); err != nil {
			t.Fatalf("SaveManualWaypoints() error = %v", err)
		}
		got, err = s.GetManualWaypoints(key)
		if err != nil {
			t.Fatalf("GetManualWaypoints() error = %v", err)
		}
		if !reflect.DeepEqual(got, second) {
			t.Errorf("after replace got %+v, want %+v", got, second)
		}
	})

	t.Run("empty list is stored", func(t *testing.T) {
		s := newStore(t)
		key := storage.DraftPointsKey("utmb.gpx")
		if err := s.SaveManualWaypoints(key, nil); err != nil {
			t.Fatalf("SaveManualWaypoints() error = %v", err)
		}
		got, err := s.GetManualWaypoints(key)
		if err != nil {
			t.Fatalf("GetManualWaypoints() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d specs, want 0", len(got))
		}
	})

	t.Run("list and delete keys", func(t *testing.T) {
		s := newStore(t)
		keys := []string{
			storage.ManualPointsKey("b.gpx"),
			storage.ManualPointsKey("a.gpx"),
			storage.DraftPointsKey("a.gpx"),
		}
		for _, k := range keys {
			if err := s.SaveManualWaypoints(k, []models.ManualWaypointSpec{{ID: k, DistanceKm: "1"}}); err != nil {
				t.Fatalf("SaveManualWaypoints(%s) error = %v", k, err)
			}
		}

		tracks, err := storage.ListTracks(s)
		if err != nil {
			t.Fatalf("ListTracks() error = %v", err)
		}
		if want := []string{"a.gpx", "b.gpx"}; !reflect.DeepEqual(tracks, want) {
			t.Errorf("ListTracks() = %v, want %v", tracks, want)
		}

		if err := s.DeleteManualWaypoints(keys[0]); err != nil {
			t.Fatalf("DeleteManualWaypoints() error = %v", err)
		}
		all, err := s.ListKeys()
		if err != nil {
			t.Fatalf("ListKeys() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("ListKeys() = %v, want 2 keys", all)
		}
		if _, err := s.GetManualWaypoints(keys[0]); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("deleted key error = %v, want ErrNotFound", err)
		}
	})

	t.Run("plan survives reload", func(t *testing.T) {
		s := newStore(t)
		plan, err := storage.LoadPlan(s, "/tmp/races/ccc.gpx")
		if err != nil {
			t.Fatalf("LoadPlan() error = %v", err)
		}
		plan.Add(models.ManualWaypointSpec{DistanceKm: "12", Category: "Aid"})
		if err := storage.SaveDraft(s, "ccc.gpx", plan); err != nil {
			t.Fatalf("SaveDraft() error = %v", err)
		}

		reloaded, err := storage.LoadPlan(s, "ccc.gpx")
		if err != nil {
			t.Fatalf("LoadPlan() error = %v", err)
		}
		if !reloaded.Dirty() || len(reloaded.Draft()) != 1 || len(reloaded.Applied()) != 0 {
			t.Fatalf("reloaded draft = %+v applied = %+v", reloaded.Draft(), reloaded.Applied())
		}

		applied, err := storage.CommitPlan(s, "ccc.gpx", reloaded)
		if err != nil {
			t.Fatalf("CommitPlan() error = %v", err)
		}
		if len(applied) != 1 {
			t.Fatalf("CommitPlan() returned %d specs, want 1", len(applied))
		}
		if _, err := s.GetManualWaypoints(storage.DraftPointsKey("ccc.gpx")); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("draft after commit error = %v, want ErrNotFound", err)
		}

		final, err := storage.LoadPlan(s, "ccc.gpx")
		if err != nil {
			t.Fatalf("LoadPlan() error = %v", err)
		}
		if final.Dirty() {
			t.Error("plan should be clean after commit")
		}
		if got := final.Applied()[0].DistanceKm; got != "12" {
			t.Errorf("applied distance = %q, want 12", got)
		}
	})
}
