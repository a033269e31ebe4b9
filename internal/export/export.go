// Package export writes simulated courses in formats other tools can read.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/simulator"
)

// Feature kinds stored in the "kind" property.
const (
	KindCourse   = "course"
	KindWaypoint = "waypoint"
)

// GeoJSON builds a feature collection holding the course as a LineString
// followed by one Point per named waypoint with its simulated arrival.
func GeoJSON(name string, course []models.Waypoint, res *simulator.Result) (*geojson.FeatureCollection, error) {
	if len(course) == 0 {
		return nil, fmt.Errorf("cannot export an empty course")
	}

	line := make(orb.LineString, 0, len(course))
	for _, wp := range course {
		line = append(line, orb.Point{wp.Longitude, wp.Latitude})
	}

	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(line.Bound())

	courseFeature := geojson.NewFeature(line)
	courseFeature.Properties["kind"] = KindCourse
	courseFeature.Properties["name"] = name
	courseFeature.Properties["distance_km"] = simulator.FormatDistance(course[len(course)-1].CumulativeDistanceKm)
	if res != nil {
		courseFeature.Properties["finish_elapsed"] = simulator.FormatElapsed(res.FinishElapsedMs)
		courseFeature.Properties["base_pace"] = res.BasePace
	}
	fc.Append(courseFeature)

	if res == nil {
		return fc, nil
	}

	for _, row := range res.Itinerary {
		if row.WaypointIndex < 0 || row.WaypointIndex >= len(course) {
			return nil, fmt.Errorf("itinerary row references waypoint %d outside course of %d points", row.WaypointIndex, len(course))
		}
		wp := course[row.WaypointIndex]
		f := geojson.NewFeature(orb.Point{wp.Longitude, wp.Latitude})
		f.ID = row.WaypointIndex
		f.Properties["kind"] = KindWaypoint
		f.Properties["category"] = row.Category
		if row.CategoryLabel != "" {
			f.Properties["label"] = row.CategoryLabel
		}
		f.Properties["distance_km"] = simulator.FormatDistance(row.CumulativeDistanceKm)
		f.Properties["elevation_m"] = simulator.FormatElevation(row.ElevationM)
		f.Properties["arrival"] = row.Arrival
		f.Properties["elapsed"] = row.Elapsed
		if row.GateTime != "" {
			f.Properties["gate_time"] = row.GateTime
		}
		if row.RestMinutes != nil {
			f.Properties["rest_minutes"] = *row.RestMinutes
		}
		fc.Append(f)
	}

	return fc, nil
}

// WriteGeoJSON encodes fc to w.
func WriteGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}
	return nil
}

// WriteJSON encodes the full simulation result to w.
func WriteJSON(w io.Writer, res *simulator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
