package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/simulator"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/storage/sqlite"
)

// threePointGPX runs along the equator in two ~1.11 km steps.
const threePointGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><name>Equator</name><trkseg>
    <trkpt lat="0" lon="0"><ele>100</ele></trkpt>
    <trkpt lat="0" lon="0.01"><ele>110</ele></trkpt>
    <trkpt lat="0" lon="0.02"><ele>100</ele></trkpt>
  </trkseg></trk>
</gpx>`

const emptyGPX = `<?xml version="1.0"?><gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"></gpx>`

func setupServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "trailpace.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	profile, err := store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	profile.Timezone = "UTC"
	if err := store.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	return NewServer(store, simulator.NewSession(simulator.New(), simulator.SessionOptions{})), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := setupServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestSimulate(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/simulate", SimulateRequest{
		GPX:       threePointGPX,
		FileName:  "equator.gpx",
		StartTime: "08:00",
		Pace:      "6:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/simulate = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SimulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(resp.Results))
	}
	if len(resp.Itinerary) != 2 {
		t.Fatalf("itinerary = %d, want 2", len(resp.Itinerary))
	}
	if resp.Itinerary[1].Category != "FINISH" || resp.Itinerary[1].Arrival != "08:13" {
		t.Errorf("finish row = %+v", resp.Itinerary[1])
	}
	if resp.Finish != "00:13:20" {
		t.Errorf("finish_elapsed = %q, want 00:13:20", resp.Finish)
	}
	if len(resp.Chart.Finish) != 1 || resp.Chart.Finish[0].WaypointIndex != 2 {
		t.Errorf("finish marker = %+v", resp.Chart.Finish)
	}

	latest := doJSON(t, srv, http.MethodGet, "/api/simulate/latest", nil)
	if latest.Code != http.StatusOK {
		t.Errorf("GET /api/simulate/latest = %d", latest.Code)
	}
}

func TestSimulateUsesStoredWaypoints(t *testing.T) {
	srv, store := setupServer(t)
	specs := []models.ManualWaypointSpec{{ID: "aid", DistanceKm: "1.1", Category: "Aid", RestMinutes: "10"}}
	if err := store.SaveManualWaypoints(storage.ManualPointsKey("equator.gpx"), specs); err != nil {
		t.Fatalf("SaveManualWaypoints() error = %v", err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/simulate", SimulateRequest{
		GPX: threePointGPX, FileName: "equator.gpx", StartTime: "08:00", Pace: "6:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/simulate = %d: %s", rec.Code, rec.Body.String())
	}
	var resp SimulateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Itinerary) != 3 || resp.Itinerary[1].Category != "Aid" {
		t.Fatalf("itinerary = %+v", resp.Itinerary)
	}
	if resp.Finish != "00:23:20" {
		t.Errorf("finish_elapsed = %q, want 00:23:20 with 10 min rest", resp.Finish)
	}

	// An explicit empty list overrides the stored one
	empty := []models.ManualWaypointSpec{}
	rec = doJSON(t, srv, http.MethodPost, "/api/simulate", SimulateRequest{
		GPX: threePointGPX, FileName: "equator.gpx", StartTime: "08:00", Pace: "6:00", Waypoints: &empty,
	})
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Itinerary) != 2 {
		t.Errorf("itinerary with explicit empty waypoints = %d rows, want 2", len(resp.Itinerary))
	}
}

func TestSimulateErrors(t *testing.T) {
	srv, _ := setupServer(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantErr    string
	}{
		{name: "bad json", body: "not an object", wantStatus: http.StatusBadRequest, wantErr: "bad json"},
		{name: "no gpx", body: SimulateRequest{Pace: "6:00"}, wantStatus: http.StatusBadRequest, wantErr: "gpx"},
		{name: "unparsable gpx", body: SimulateRequest{GPX: "<nope", Pace: "6:00"}, wantStatus: http.StatusBadRequest},
		{name: "missing pace", body: SimulateRequest{GPX: threePointGPX, StartTime: "08:00"}, wantStatus: http.StatusBadRequest, wantErr: "pace"},
		{name: "bad start time", body: SimulateRequest{GPX: threePointGPX, StartTime: "25:00", Pace: "6:00"}, wantStatus: http.StatusUnprocessableEntity, wantErr: "start time"},
		{name: "bad pace", body: SimulateRequest{GPX: threePointGPX, StartTime: "08:00", Pace: "6:75"}, wantStatus: http.StatusUnprocessableEntity},
		{name: "empty track", body: SimulateRequest{GPX: emptyGPX, StartTime: "08:00", Pace: "6:00"}, wantStatus: http.StatusUnprocessableEntity, wantErr: "no points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/simulate", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var e errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if tt.wantErr != "" && !strings.Contains(e.Error, tt.wantErr) {
				t.Errorf("error = %q, want containing %q", e.Error, tt.wantErr)
			}
		})
	}
}

func TestLatestBeforeAnyRun(t *testing.T) {
	srv, _ := setupServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/simulate/latest", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTrackWaypoints(t *testing.T) {
	srv, _ := setupServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/tracks/utmb.gpx/waypoints", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET waypoints = %d", rec.Code)
	}
	var wr waypointsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &wr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if wr.Waypoints == nil || len(wr.Waypoints) != 0 {
		t.Errorf("waypoints = %v, want empty list", wr.Waypoints)
	}

	put := []models.ManualWaypointSpec{
		{DistanceKm: "31", Category: "Aid", CategoryLabel: "Les Contamines"},
		{ID: "keep-me", DistanceKm: "50", Category: "Aid"},
	}
	rec = doJSON(t, srv, http.MethodPut, "/api/tracks/utmb.gpx/waypoints", put)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT waypoints = %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &wr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(wr.Waypoints) != 2 || wr.Waypoints[0].ID == "" || wr.Waypoints[1].ID != "keep-me" {
		t.Errorf("stored waypoints = %+v", wr.Waypoints)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/tracks", nil)
	var tr tracksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tr.Tracks) != 1 || tr.Tracks[0] != "utmb.gpx" {
		t.Errorf("tracks = %v, want [utmb.gpx]", tr.Tracks)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv, store := setupServer(t)
	specs := []models.ManualWaypointSpec{{ID: "bad", DistanceKm: "abc", Category: "Aid"}}
	if err := store.SaveManualWaypoints(storage.ManualPointsKey("equator.gpx"), specs); err != nil {
		t.Fatalf("SaveManualWaypoints() error = %v", err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/tracks/equator.gpx/validate", validateRequest{GPX: threePointGPX})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST validate = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Conflicts []conflictResponse `json:"conflicts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Conflicts) != 1 || out.Conflicts[0].Type != "invalid_distance" {
		t.Errorf("conflicts = %+v", out.Conflicts)
	}
}

func TestValidateEndpointDraft(t *testing.T) {
	srv, store := setupServer(t)
	applied := []models.ManualWaypointSpec{{ID: "ok", DistanceKm: "1", Category: "Aid"}}
	if err := store.SaveManualWaypoints(storage.ManualPointsKey("equator.gpx"), applied); err != nil {
		t.Fatalf("SaveManualWaypoints() error = %v", err)
	}
	draft := []models.ManualWaypointSpec{{ID: "late", DistanceKm: "1", Category: "Aid", GateTime: "25:99"}}
	if err := store.SaveManualWaypoints(storage.DraftPointsKey("equator.gpx"), draft); err != nil {
		t.Fatalf("SaveManualWaypoints() error = %v", err)
	}

	tests := []struct {
		name  string
		draft bool
		want  []string
	}{
		{name: "applied list", draft: false, want: nil},
		{name: "draft list", draft: true, want: []string{"invalid_gate_time"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/tracks/equator.gpx/validate", validateRequest{GPX: threePointGPX, Draft: tt.draft})
			if rec.Code != http.StatusOK {
				t.Fatalf("POST validate = %d: %s", rec.Code, rec.Body.String())
			}
			var out struct {
				Draft     bool               `json:"draft"`
				Conflicts []conflictResponse `json:"conflicts"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.Draft != tt.draft {
				t.Errorf("draft = %v, want %v", out.Draft, tt.draft)
			}
			if len(out.Conflicts) != len(tt.want) {
				t.Fatalf("conflicts = %+v, want types %v", out.Conflicts, tt.want)
			}
			for i, c := range out.Conflicts {
				if c.Type != tt.want[i] {
					t.Errorf("conflict %d type = %s, want %s", i, c.Type, tt.want[i])
				}
				if len(c.SpecIDs) != 1 || c.SpecIDs[0] != "late" {
					t.Errorf("conflict %d spec ids = %v, want [late]", i, c.SpecIDs)
				}
			}
		})
	}
}
