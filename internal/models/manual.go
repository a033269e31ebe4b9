package models

import "github.com/google/uuid"

// ManualWaypointSpec is a user-declared point of interest placed by distance.
// All fields are kept as entered; parsing happens during reconciliation.
type ManualWaypointSpec struct {
	ID            string `json:"id"`
	DistanceKm    string `json:"distance_km"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	RestMinutes   string `json:"rest_minutes"`
	GateTime      string `json:"gate_time"` // HH:MM format
}

// NewManualWaypointSpec returns an empty spec with a fresh identifier.
func NewManualWaypointSpec() ManualWaypointSpec {
	return ManualWaypointSpec{ID: uuid.New().String()}
}

// CloneSpecs copies a spec list. Specs hold only strings so a shallow element
// copy is already independent.
func CloneSpecs(in []ManualWaypointSpec) []ManualWaypointSpec {
	if in == nil {
		return nil
	}
	out := make([]ManualWaypointSpec, len(in))
	copy(out, in)
	return out
}
