// Package simulator turns a reconciled track and a runner's pace into an
// arrival schedule.
package simulator

import (
	"math"
	"strings"
	"time"

	"github.com/julianstephens/trailpace/internal/constants"
	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/pace"
	"github.com/julianstephens/trailpace/internal/track"
)

// referenceDate anchors clock times when no race date is given so that runs
// are reproducible.
var referenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Input collects everything a simulation run needs.
type Input struct {
	Waypoints []models.Waypoint
	StartTime string // HH:MM
	// FinishTime overrides the gate time shown on the FINISH row when set.
	FinishTime string
	// Pace is the flat base pace as M:SS. When empty, BasePaceSecPerKm is used.
	Pace             string
	BasePaceSecPerKm float64
	// SkillIndex is the raw 0-1000 index. Anything unparsable disables fatigue.
	SkillIndex string
	RaceDate   time.Time
	Location   *time.Location
}

// Result is the complete output of one run.
type Result struct {
	Results         []models.SimulationResult `json:"results"`
	Itinerary       []models.ItineraryRow     `json:"itinerary"`
	Chart           models.ChartSeries        `json:"chart"`
	FirstKm         *models.Split             `json:"first_km,omitempty"`
	TotalDistanceKm float64                   `json:"total_distance_km"`
	FinishElapsedMs float64                   `json:"finish_elapsed_ms"`
	BasePace        string                    `json:"base_pace"`
	StartedAt       time.Time                 `json:"started_at"`
}

type Simulator struct{}

func New() *Simulator {
	return &Simulator{}
}

// Run validates in and simulates the course in a single forward pass. It
// either returns a complete result or an error, never partial output.
func (s *Simulator) Run(in Input) (*Result, error) {
	basePace, err := validate(in)
	if err != nil {
		return nil, err
	}

	start, err := startInstant(in)
	if err != nil {
		return nil, err
	}

	skill := pace.ParseSkillIndex(in.SkillIndex)
	total := track.TotalDistanceKm(in.Waypoints)

	res := &Result{
		Results:         make([]models.SimulationResult, 0, len(in.Waypoints)),
		TotalDistanceKm: total,
		BasePace:        pace.FromSeconds(basePace).String(),
		StartedAt:       start,
	}

	elapsedMs := 0.0
	prevNamed := -1

	for i, wp := range in.Waypoints {
		p := pace.EffectivePace(basePace, skill, wp.CumulativeDistanceKm, total, wp.SectionGradientPercent)

		if i > 0 {
			elapsedMs += wp.SectionDistanceKm * p * 1000
			if wp.IsManual && wp.RestMinutes != nil {
				elapsedMs += *wp.RestMinutes * 60 * 1000
			}
		}

		arrival := start.Add(time.Duration(elapsedMs) * time.Millisecond)

		sinceNamed := 0.0
		if wp.Named() && prevNamed >= 0 {
			sinceNamed = wp.CumulativeDistanceKm - in.Waypoints[prevNamed].CumulativeDistanceKm
		}

		gate := wp.GateTime
		if wp.Category == constants.CategoryFinish && in.FinishTime != "" {
			gate = in.FinishTime
		}

		res.Results = append(res.Results, models.SimulationResult{
			WaypointIndex:          i,
			Name:                   wp.Name,
			ArrivalTime:            arrival,
			ArrivalTimeFormatted:   arrival.Format(constants.ArrivalFormat),
			CumulativeDistanceKm:   wp.CumulativeDistanceKm,
			ElevationM:             wp.ElevationM,
			SectionGradientPercent: wp.SectionGradientPercent,
			Category:               wp.Category,
			CategoryLabel:          wp.CategoryLabel,
			RestMinutes:            cloneFloat(wp.RestMinutes),
			ElapsedMs:              elapsedMs,
			GateTimeForDisplay:     gate,
			SectionSinceNamedKm:    sinceNamed,
			PaceSecPerKm:           p,
		})

		if wp.Named() {
			prevNamed = i
		}

		if res.FirstKm == nil && wp.CumulativeDistanceKm >= 1 {
			res.FirstKm = &models.Split{
				WaypointIndex:        i,
				CumulativeDistanceKm: wp.CumulativeDistanceKm,
				ArrivalTime:          arrival,
				ElapsedMs:            elapsedMs,
			}
		}
	}

	res.FinishElapsedMs = elapsedMs
	res.Itinerary = Itinerary(res.Results)
	res.Chart = Chart(res.Results)

	logger.Debug("Simulation finished", "waypoints", len(res.Results), "distance_km", total, "elapsed", FormatElapsed(elapsedMs))
	return res, nil
}

// validate checks for missing inputs first and malformed ones second, and
// returns the base pace in seconds per km.
func validate(in Input) (float64, error) {
	var missing []string
	if strings.TrimSpace(in.StartTime) == "" {
		missing = append(missing, "start time")
	}
	if strings.TrimSpace(in.Pace) == "" && in.BasePaceSecPerKm == 0 {
		missing = append(missing, "pace")
	}
	if len(in.Waypoints) == 0 {
		missing = append(missing, "waypoints")
	}
	if len(missing) > 0 {
		return 0, &apperrors.MissingInputError{Fields: missing}
	}

	if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(in.StartTime)); err != nil {
		return 0, &apperrors.ValidationError{Field: "start time", Value: in.StartTime, Reason: "expected HH:MM with hour 0-23 and minute 0-59"}
	}
	if in.FinishTime != "" {
		if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(in.FinishTime)); err != nil {
			return 0, &apperrors.ValidationError{Field: "finish time", Value: in.FinishTime, Reason: "expected HH:MM with hour 0-23 and minute 0-59"}
		}
	}

	if strings.TrimSpace(in.Pace) != "" {
		p, err := pace.ParsePace(in.Pace)
		if err != nil {
			return 0, err
		}
		if p.SecondsPerKm() == 0 {
			return 0, &apperrors.MissingInputError{Fields: []string{"pace"}}
		}
		return p.SecondsPerKm(), nil
	}

	b := in.BasePaceSecPerKm
	if b < 0 || math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, &apperrors.ValidationError{Field: "pace", Value: formatFloat(b), Reason: "must be a positive number of seconds per km"}
	}
	return b, nil
}

func startInstant(in Input) (time.Time, error) {
	clock, err := time.Parse(constants.TimeFormat, strings.TrimSpace(in.StartTime))
	if err != nil {
		return time.Time{}, &apperrors.ValidationError{Field: "start time", Value: in.StartTime, Reason: err.Error()}
	}

	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	day := referenceDate
	if !in.RaceDate.IsZero() {
		day = in.RaceDate
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
