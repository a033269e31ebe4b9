package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
	wplist "github.com/julianstephens/trailpace/internal/tui/components/waypoints"
)

const tabCount = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case simulationDoneMsg:
		m.running = false
		if msg.err != nil {
			m.simErr = msg.err.Error()
		} else {
			m.simErr = ""
		}
		m.itinerary.SetResult(m.session.Latest())
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case constants.ConfirmationMsg:
		m.confirmationForm = &ConfirmationFormModel{Message: msg.Message}
		m.pendingAction = msg.Action
		m.form = NewConfirmationForm(m.confirmationForm)
		m.previousState = m.state
		m.state = constants.StateConfirmation
		return m, m.form.Init()
	}

	switch m.state {
	case constants.StateAddWaypoint:
		return m.updateWaypointForm(msg)
	case constants.StateEditProfile:
		return m.updateProfileForm(msg)
	case constants.StateConfirmation:
		return m.updateConfirmation(msg)
	}

	switch msg := msg.(type) {
	case wplist.AddWaypointMsg:
		m.editingID = ""
		m.insertAfter = msg.After
		m.waypointForm = &WaypointFormModel{Category: "Aid"}
		return m.openWaypointForm("Add waypoint")

	case wplist.EditWaypointMsg:
		m.editingID = msg.Spec.ID
		m.waypointForm = &WaypointFormModel{
			Distance: msg.Spec.DistanceKm,
			Category: msg.Spec.Category,
			Label:    msg.Spec.CategoryLabel,
			Rest:     msg.Spec.RestMinutes,
			Gate:     msg.Spec.GateTime,
		}
		return m.openWaypointForm("Edit waypoint")

	case wplist.DeleteWaypointMsg:
		id := msg.ID
		return m, func() tea.Msg {
			return constants.ConfirmationMsg{
				Message: "Delete this waypoint from the draft?",
				Action: func() tea.Cmd {
					return func() tea.Msg { return deleteWaypointMsg{id: id} }
				},
			}
		}

	case deleteWaypointMsg:
		if err := m.plan.Remove(msg.id); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.saveDraft()
		m.refreshWaypoints()
		return m, nil

	case wplist.ApplyMsg:
		if !m.plan.Dirty() {
			m.statusMsg = "Nothing to apply"
			return m, nil
		}
		return m, m.applyDraft()

	case wplist.DiscardMsg:
		if !m.plan.Dirty() {
			m.statusMsg = "No draft changes"
			return m, nil
		}
		return m, func() tea.Msg {
			return constants.ConfirmationMsg{
				Message: "Discard all unapplied waypoint changes?",
				Action: func() tea.Cmd {
					return func() tea.Msg { return discardDraftMsg{} }
				},
			}
		}

	case discardDraftMsg:
		m.discardDraft()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}

		switch m.state {
		case constants.StateItinerary:
			if key.Matches(msg, m.keys.Run) {
				return m, m.startSimulation()
			}
		case constants.StateProfile:
			if key.Matches(msg, m.keys.Edit) {
				return m.openProfileForm()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateItinerary:
		m.itinerary, cmd = m.itinerary.Update(msg)
	case constants.StateWaypoints:
		if m.track != nil {
			m.waypointList, cmd = m.waypointList.Update(msg)
		}
	}
	return m, cmd
}

type deleteWaypointMsg struct {
	id string
}

type discardDraftMsg struct{}

func (m Model) openWaypointForm(title string) (tea.Model, tea.Cmd) {
	if m.track == nil {
		return m, nil
	}
	m.formError = ""
	m.form = NewWaypointForm(m.waypointForm, title)
	m.previousState = m.state
	m.state = constants.StateAddWaypoint
	return m, m.form.Init()
}

func (m Model) openProfileForm() (tea.Model, tea.Cmd) {
	p := m.profile
	m.profileForm = &ProfileFormModel{
		Start:    p.StartTime,
		Finish:   p.FinishTime,
		Pace:     p.Pace,
		Marathon: p.MarathonTime,
		Skill:    p.SkillIndex,
		Window:   strconv.Itoa(max(p.SmoothingWindow, 1)),
		Date:     p.RaceDate,
		Timezone: p.Timezone,
	}
	m.formError = ""
	m.form = NewProfileForm(m.profileForm)
	m.previousState = m.state
	m.state = constants.StateEditProfile
	return m, m.form.Init()
}

// updateForm forwards msg to the active form. Esc cancels it.
func (m *Model) updateForm(msg tea.Msg) (huh.FormState, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return huh.StateAborted, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m.form.State, cmd
}

func (m Model) updateWaypointForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	formState, cmd := m.updateForm(msg)
	switch formState {
	case huh.StateCompleted:
		fm := m.waypointForm
		spec := models.ManualWaypointSpec{
			ID:            m.editingID,
			DistanceKm:    strings.TrimSpace(fm.Distance),
			Category:      strings.TrimSpace(fm.Category),
			CategoryLabel: strings.TrimSpace(fm.Label),
			RestMinutes:   strings.TrimSpace(fm.Rest),
			GateTime:      strings.TrimSpace(fm.Gate),
		}
		if err := m.storeWaypoint(spec); err != nil {
			m.formError = err.Error()
			m.closeForm()
			return m, cmd
		}
		m.saveDraft()
		m.refreshWaypoints()
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) storeWaypoint(spec models.ManualWaypointSpec) error {
	if spec.ID != "" {
		return m.plan.Replace(spec)
	}
	if m.insertAfter < 0 {
		m.plan.Add(spec)
		return nil
	}
	inserted, err := m.plan.InsertAfter(m.insertAfter)
	if err != nil {
		return err
	}
	spec.ID = inserted.ID
	return m.plan.Replace(spec)
}

func (m Model) updateProfileForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	formState, cmd := m.updateForm(msg)
	switch formState {
	case huh.StateCompleted:
		fm := m.profileForm
		p := m.profile
		p.StartTime = strings.TrimSpace(fm.Start)
		p.FinishTime = strings.TrimSpace(fm.Finish)
		p.Pace = strings.TrimSpace(fm.Pace)
		p.MarathonTime = strings.TrimSpace(fm.Marathon)
		p.SkillIndex = strings.TrimSpace(fm.Skill)
		p.SmoothingWindow, _ = strconv.Atoi(strings.TrimSpace(fm.Window))
		p.RaceDate = strings.TrimSpace(fm.Date)
		p.Timezone = strings.TrimSpace(fm.Timezone)

		if err := m.store.SaveProfile(p); err != nil {
			m.formError = fmt.Sprintf("Failed to save runner profile: %v", err)
			m.closeForm()
			return m, nil
		}
		m.reloadProfile()
		m.statusMsg = "Runner profile updated"
		m.updateValidationStatus()
		m.closeForm()
		return m, tea.Batch(cmd, m.startSimulation())
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m Model) updateConfirmation(msg tea.Msg) (tea.Model, tea.Cmd) {
	formState, cmd := m.updateForm(msg)
	switch formState {
	case huh.StateCompleted:
		cmds := []tea.Cmd{cmd}
		if m.confirmationForm.Confirmed && m.pendingAction != nil {
			cmds = append(cmds, m.pendingAction())
		}
		m.pendingAction = nil
		m.closeForm()
		return m, tea.Batch(cmds...)
	case huh.StateAborted:
		m.pendingAction = nil
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.state = m.previousState
}
