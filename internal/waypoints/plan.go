package waypoints

import (
	"fmt"

	"github.com/julianstephens/trailpace/internal/models"
)

// Field names accepted by Plan.Update.
const (
	FieldDistance      = "distance_km"
	FieldCategory      = "category"
	FieldCategoryLabel = "category_label"
	FieldRestMinutes   = "rest_minutes"
	FieldGateTime      = "gate_time"
)

// Plan holds the draft list a user edits and the applied list the simulator
// consumes. The two never share backing storage.
type Plan struct {
	draft   []models.ManualWaypointSpec
	applied []models.ManualWaypointSpec
}

// NewPlan returns a plan whose draft and applied lists both start as specs.
func NewPlan(specs []models.ManualWaypointSpec) *Plan {
	p := &Plan{}
	p.Load(specs)
	return p
}

// Load replaces both lists with copies of specs.
func (p *Plan) Load(specs []models.ManualWaypointSpec) {
	p.draft = models.CloneSpecs(specs)
	p.applied = models.CloneSpecs(specs)
}

// SetDraft replaces the draft with a copy of specs, leaving applied as is.
func (p *Plan) SetDraft(specs []models.ManualWaypointSpec) {
	p.draft = models.CloneSpecs(specs)
}

// Draft returns a copy of the draft list.
func (p *Plan) Draft() []models.ManualWaypointSpec {
	return models.CloneSpecs(p.draft)
}

// Applied returns a copy of the applied list.
func (p *Plan) Applied() []models.ManualWaypointSpec {
	return models.CloneSpecs(p.applied)
}

// Dirty reports whether the draft differs from the applied list.
func (p *Plan) Dirty() bool {
	if len(p.draft) != len(p.applied) {
		return true
	}
	for i := range p.draft {
		if p.draft[i] != p.applied[i] {
			return true
		}
	}
	return false
}

// Add appends spec to the draft, assigning an ID if it has none.
func (p *Plan) Add(spec models.ManualWaypointSpec) models.ManualWaypointSpec {
	if spec.ID == "" {
		spec.ID = models.NewManualWaypointSpec().ID
	}
	p.draft = append(p.draft, spec)
	return spec
}

// InsertAfter inserts an empty spec after position index. An index of -1
// inserts at the front.
func (p *Plan) InsertAfter(index int) (models.ManualWaypointSpec, error) {
	if index < -1 || index >= len(p.draft) {
		return models.ManualWaypointSpec{}, fmt.Errorf("index %d out of range [-1, %d)", index, len(p.draft))
	}
	spec := models.NewManualWaypointSpec()
	pos := index + 1
	p.draft = append(p.draft, models.ManualWaypointSpec{})
	copy(p.draft[pos+1:], p.draft[pos:])
	p.draft[pos] = spec
	return spec, nil
}

// Update sets one field of the draft spec with the given ID.
func (p *Plan) Update(id, field, value string) error {
	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("manual waypoint not found: %s", id)
	}
	spec := &p.draft[i]
	switch field {
	case FieldDistance:
		spec.DistanceKm = value
	case FieldCategory:
		spec.Category = value
	case FieldCategoryLabel:
		spec.CategoryLabel = value
	case FieldRestMinutes:
		spec.RestMinutes = value
	case FieldGateTime:
		spec.GateTime = value
	default:
		return fmt.Errorf("unknown manual waypoint field: %s", field)
	}
	return nil
}

// Replace overwrites the draft spec that has the same ID as spec.
func (p *Plan) Replace(spec models.ManualWaypointSpec) error {
	i := p.indexOf(spec.ID)
	if i < 0 {
		return fmt.Errorf("manual waypoint not found: %s", spec.ID)
	}
	p.draft[i] = spec
	return nil
}

// Remove deletes the draft spec with the given ID.
func (p *Plan) Remove(id string) error {
	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("manual waypoint not found: %s", id)
	}
	p.draft = append(p.draft[:i], p.draft[i+1:]...)
	return nil
}

// Commit copies the draft into the applied list.
func (p *Plan) Commit() []models.ManualWaypointSpec {
	p.applied = models.CloneSpecs(p.draft)
	return p.Applied()
}

// Discard resets the draft to the applied list.
func (p *Plan) Discard() {
	p.draft = models.CloneSpecs(p.applied)
}

func (p *Plan) indexOf(id string) int {
	for i, s := range p.draft {
		if s.ID == id {
			return i
		}
	}
	return -1
}
