package models

import "time"

// SimulationResult is the simulated passage at one waypoint.
type SimulationResult struct {
	WaypointIndex          int       `json:"waypoint_index"`
	Name                   string    `json:"name"`
	ArrivalTime            time.Time `json:"arrival_time"`
	ArrivalTimeFormatted   string    `json:"arrival_time_formatted"` // HH:MM:SS format
	CumulativeDistanceKm   float64   `json:"cumulative_distance_km"`
	ElevationM             float64   `json:"elevation_m"`
	SectionGradientPercent float64   `json:"section_gradient_percent"`
	Category               string    `json:"category,omitempty"`
	CategoryLabel          string    `json:"category_label,omitempty"`
	RestMinutes            *float64  `json:"rest_minutes,omitempty"`
	ElapsedMs              float64   `json:"elapsed_ms"`
	GateTimeForDisplay     string    `json:"gate_time,omitempty"`
	SectionSinceNamedKm    float64   `json:"section_since_named_km"`
	PaceSecPerKm           float64   `json:"pace_sec_per_km"`
}

// ItineraryRow is a named result projected for display.
type ItineraryRow struct {
	WaypointIndex        int      `json:"waypoint_index"`
	Category             string   `json:"category"`
	CategoryLabel        string   `json:"category_label,omitempty"`
	CumulativeDistanceKm float64  `json:"cumulative_distance_km"`
	SectionDistanceKm    float64  `json:"section_distance_km"`
	ElevationM           float64  `json:"elevation_m"`
	Arrival              string   `json:"arrival"` // HH:MM format
	Elapsed              string   `json:"elapsed"` // HH:MM:SS, hours may exceed 24
	GateTime             string   `json:"gate_time,omitempty"`
	RestMinutes          *float64 `json:"rest_minutes,omitempty"`
}

// ChartPoint is one sample of the elevation profile.
type ChartPoint struct {
	X float64 `json:"x"` // cumulative km
	Y float64 `json:"y"` // elevation m
}

// ChartMarker highlights a named waypoint on the elevation profile.
type ChartMarker struct {
	WaypointIndex int     `json:"waypoint_index"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Label         string  `json:"label"`
	Arrival       string  `json:"arrival"`
}

// ChartSeries is the full elevation chart payload.
type ChartSeries struct {
	Elevation   []ChartPoint  `json:"elevation"`
	AidStations []ChartMarker `json:"aid_stations"`
	Finish      []ChartMarker `json:"finish"`
}

// Split is the simulated arrival at a distance milestone.
type Split struct {
	WaypointIndex        int       `json:"waypoint_index"`
	CumulativeDistanceKm float64   `json:"cumulative_distance_km"`
	ArrivalTime          time.Time `json:"arrival_time"`
	ElapsedMs            float64   `json:"elapsed_ms"`
}
