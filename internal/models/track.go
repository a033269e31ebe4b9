package models

import "time"

// TrackSample is one raw GPS fix read from a track file.
type TrackSample struct {
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lon"`
	Elevation *float64   `json:"ele,omitempty"`
	Timestamp *time.Time `json:"time,omitempty"`
}

// Waypoint is a reduced track point annotated with distance, gradient and
// an optional category.
type Waypoint struct {
	ID                     int        `json:"id"`
	Name                   string     `json:"name"`
	CumulativeDistanceKm   float64    `json:"cumulative_distance_km"`
	SectionDistanceKm      float64    `json:"section_distance_km"`
	ElevationM             float64    `json:"elevation_m"`
	SectionGradientPercent float64    `json:"section_gradient_percent"`
	Category               string     `json:"category,omitempty"`
	CategoryLabel          string     `json:"category_label,omitempty"`
	IsManual               bool       `json:"is_manual"`
	RestMinutes            *float64   `json:"rest_minutes,omitempty"` // only meaningful when IsManual
	GateTime               string     `json:"gate_time,omitempty"`    // HH:MM format
	Latitude               float64    `json:"lat"`
	Longitude              float64    `json:"lon"`
	Timestamp              *time.Time `json:"time,omitempty"`
}

// Named reports whether the waypoint carries a category.
func (w Waypoint) Named() bool {
	return w.Category != ""
}

// Clone returns a copy that shares no pointers with w.
func (w Waypoint) Clone() Waypoint {
	c := w
	if w.RestMinutes != nil {
		r := *w.RestMinutes
		c.RestMinutes = &r
	}
	if w.Timestamp != nil {
		ts := *w.Timestamp
		c.Timestamp = &ts
	}
	return c
}

// CloneWaypoints deep-copies a waypoint slice.
func CloneWaypoints(in []Waypoint) []Waypoint {
	if in == nil {
		return nil
	}
	out := make([]Waypoint, len(in))
	for i, w := range in {
		out[i] = w.Clone()
	}
	return out
}
