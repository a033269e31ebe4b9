package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/gpx"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/simulator"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/track"
	"github.com/julianstephens/trailpace/internal/validation"
)

// SimulateRequest carries a GPX document and the runner inputs. Blank
// fields fall back to the stored runner profile.
type SimulateRequest struct {
	GPX             string                       `json:"gpx"`
	FileName        string                       `json:"file_name"`
	StartTime       string                       `json:"start_time"`
	FinishTime      string                       `json:"finish_time"`
	MarathonTime    string                       `json:"marathon_time"`
	Pace            string                       `json:"pace"`
	SkillIndex      string                       `json:"skill_index"`
	SmoothingWindow int                          `json:"smoothing_window"`
	RaceDate        string                       `json:"race_date"`
	Timezone        string                       `json:"timezone"`
	Waypoints       *[]models.ManualWaypointSpec `json:"waypoints,omitempty"`
}

type SimulateResponse struct {
	Results   []models.SimulationResult `json:"results"`
	Itinerary []models.ItineraryRow     `json:"itinerary"`
	Chart     models.ChartSeries        `json:"chart"`
	FirstKm   *models.Split             `json:"first_km,omitempty"`
	Finish    string                    `json:"finish_elapsed"`
	BasePace  string                    `json:"base_pace"`
}

type tracksResponse struct {
	Tracks []string `json:"tracks"`
}

type waypointsResponse struct {
	Track     string                      `json:"track"`
	Waypoints []models.ManualWaypointSpec `json:"waypoints"`
}

type validateRequest struct {
	GPX             string `json:"gpx"`
	SmoothingWindow int    `json:"smoothing_window"`
	// Draft checks the pending draft instead of the applied list.
	Draft bool `json:"draft"`
}

type conflictResponse struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	SpecIDs     []string `json:"spec_ids"`
	TrackIndex  int      `json:"track_index"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.GPX) == "" {
		writeError(w, http.StatusBadRequest, &apperrors.MissingInputError{Fields: []string{"gpx"}})
		return
	}

	trk, err := gpx.ParseBytes([]byte(req.GPX), req.FileName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	profile, err := s.profileFor(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var applied []models.ManualWaypointSpec
	switch {
	case req.Waypoints != nil:
		applied = *req.Waypoints
	case req.FileName != "":
		applied, err = s.storedWaypoints(req.FileName)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	course, err := simulator.PrepareCourse(trk.Samples, profile.SmoothingWindow, applied)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	in, err := simulator.InputFromProfile(profile, course)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	res, err := s.session.Run(in)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(res))
}

func (s *Server) handleLatest(w http.ResponseWriter, _ *http.Request) {
	res := s.session.Latest()
	if res == nil {
		writeError(w, http.StatusNotFound, errors.New("no simulation has completed yet"))
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

func (s *Server) handleListTracks(w http.ResponseWriter, _ *http.Request) {
	tracks, err := storage.ListTracks(s.store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if tracks == nil {
		tracks = []string{}
	}
	writeJSON(w, http.StatusOK, tracksResponse{Tracks: tracks})
}

func (s *Server) handleGetWaypoints(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	specs, err := s.storedWaypoints(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, waypointsResponse{Track: name, Waypoints: specs})
}

func (s *Server) handlePutWaypoints(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var specs []models.ManualWaypointSpec
	if err := decodeBody(w, r, &specs); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	plan, err := storage.LoadPlan(s.store, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	plan.SetDraft(nil)
	for _, spec := range specs {
		plan.Add(spec)
	}
	applied, err := storage.CommitPlan(s.store, name, plan)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if applied == nil {
		applied = []models.ManualWaypointSpec{}
	}
	writeJSON(w, http.StatusOK, waypointsResponse{Track: name, Waypoints: applied})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req validateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	trk, err := gpx.ParseBytes([]byte(req.GPX), name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	window := req.SmoothingWindow
	if window < 1 {
		window = 1
	}
	reduced, err := track.Reduce(trk.Samples, window)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	var specs []models.ManualWaypointSpec
	if req.Draft {
		plan, err := storage.LoadPlan(s.store, name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		specs = plan.Draft()
	} else {
		specs, err = s.storedWaypoints(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	result := validation.New().ValidateWaypoints(reduced, specs)
	out := make([]conflictResponse, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		out = append(out, conflictResponse{
			Type:        string(c.Type),
			Description: c.Description,
			SpecIDs:     c.SpecIDs,
			TrackIndex:  c.TrackIndex,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"track": name, "draft": req.Draft, "conflicts": out})
}

func (s *Server) profileFor(req SimulateRequest) (models.RunnerProfile, error) {
	profile, err := s.store.GetProfile()
	if err != nil {
		return models.RunnerProfile{}, fmt.Errorf("failed to load runner profile: %w", err)
	}
	override := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&profile.StartTime, req.StartTime)
	override(&profile.FinishTime, req.FinishTime)
	override(&profile.SkillIndex, req.SkillIndex)
	override(&profile.RaceDate, req.RaceDate)
	override(&profile.Timezone, req.Timezone)
	if req.Pace != "" || req.MarathonTime != "" {
		profile.Pace = req.Pace
		profile.MarathonTime = req.MarathonTime
	}
	if req.SmoothingWindow > 0 {
		profile.SmoothingWindow = req.SmoothingWindow
	}
	return profile, nil
}

func (s *Server) storedWaypoints(name string) ([]models.ManualWaypointSpec, error) {
	specs, err := s.store.GetManualWaypoints(storage.ManualPointsKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return []models.ManualWaypointSpec{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manual waypoints: %w", err)
	}
	return specs, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("bad json: %w", err)
	}
	return nil
}

func statusFor(err error) int {
	var missing *apperrors.MissingInputError
	var invalid *apperrors.ValidationError
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &invalid), errors.Is(err, apperrors.ErrEmptyTrack):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func toResponse(res *simulator.Result) SimulateResponse {
	return SimulateResponse{
		Results:   res.Results,
		Itinerary: res.Itinerary,
		Chart:     res.Chart,
		FirstKm:   res.FirstKm,
		Finish:    simulator.FormatElapsed(res.FinishElapsedMs),
		BasePace:  res.BasePace,
	}
}
