package waypoints

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/trailpace/internal/models"
)

type AddWaypointMsg struct {
	// After is the draft position to insert after, -1 to append.
	After int
}

type EditWaypointMsg struct {
	Spec models.ManualWaypointSpec
}

type DeleteWaypointMsg struct {
	ID string
}

type ApplyMsg struct{}

type DiscardMsg struct{}

type Item struct {
	Spec models.ManualWaypointSpec
}

func (i Item) Title() string {
	name := i.Spec.Category
	if i.Spec.CategoryLabel != "" {
		name += " " + i.Spec.CategoryLabel
	}
	if strings.TrimSpace(name) == "" {
		name = "(no category)"
	}
	return name
}

func (i Item) Description() string {
	parts := []string{fmt.Sprintf("%s km", orQuestion(i.Spec.DistanceKm))}
	if i.Spec.RestMinutes != "" {
		parts = append(parts, fmt.Sprintf("rest %s min", i.Spec.RestMinutes))
	}
	if i.Spec.GateTime != "" {
		parts = append(parts, "gate "+i.Spec.GateTime)
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Spec.Category + " " + i.Spec.CategoryLabel }

func orQuestion(s string) string {
	if strings.TrimSpace(s) == "" {
		return "?"
	}
	return s
}

type KeyMap struct {
	Add     key.Binding
	Insert  key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Apply   key.Binding
	Discard key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert after"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Apply: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "apply"),
		),
		Discard: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "discard"),
		),
	}
}

type Model struct {
	list  list.Model
	keys  KeyMap
	dirty bool
}

func New(specs []models.ManualWaypointSpec, width, height int) Model {
	l := list.New(toItems(specs), list.NewDefaultDelegate(), width, height)
	l.Title = "Manual waypoints"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete, keys.Apply}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Insert, keys.Edit, keys.Delete, keys.Apply, keys.Discard}
	}

	return Model{list: l, keys: keys}
}

func toItems(specs []models.ManualWaypointSpec) []list.Item {
	items := make([]list.Item, len(specs))
	for i, s := range specs {
		items[i] = Item{Spec: s}
	}
	return items
}

// SetWaypoints shows the draft list and whether it differs from the applied one.
func (m *Model) SetWaypoints(specs []models.ManualWaypointSpec, dirty bool) {
	m.list.SetItems(toItems(specs))
	m.dirty = dirty
}

// Len returns the number of draft waypoints shown.
func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddWaypointMsg{After: -1} }
		case key.Matches(msg, m.keys.Insert):
			after := m.list.Index()
			if m.Len() == 0 {
				after = -1
			}
			return m, func() tea.Msg { return AddWaypointMsg{After: after} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditWaypointMsg{Spec: i.Spec} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteWaypointMsg{ID: i.Spec.ID} }
			}
		case key.Matches(msg, m.keys.Apply):
			return m, func() tea.Msg { return ApplyMsg{} }
		case key.Matches(msg, m.keys.Discard):
			return m, func() tea.Msg { return DiscardMsg{} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	status := ""
	if m.dirty {
		status = "\n  ● Unapplied changes. Press 's' to apply or 'x' to discard."
	}
	if m.Len() == 0 {
		return "\n  No manual waypoints yet.\n  Press 'a' to add one." + status
	}
	return m.list.View() + status
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
