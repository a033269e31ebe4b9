package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/gpx"
	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/simulator"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/track"
	"github.com/julianstephens/trailpace/internal/tui/components/itinerary"
	wplist "github.com/julianstephens/trailpace/internal/tui/components/waypoints"
	"github.com/julianstephens/trailpace/internal/validation"
	"github.com/julianstephens/trailpace/internal/waypoints"
)

// Defaults fill profile fields the store leaves empty.
type Defaults struct {
	Timezone        string
	SmoothingWindow int
}

type WaypointFormModel struct {
	Distance string
	Category string
	Label    string
	Rest     string
	Gate     string
}

type ProfileFormModel struct {
	Start    string
	Finish   string
	Pace     string
	Marathon string
	Skill    string
	Window   string
	Date     string
	Timezone string
}

type ConfirmationFormModel struct {
	Message   string
	Confirmed bool
}

type simulationDoneMsg struct {
	res *simulator.Result
	err error
}

type Model struct {
	store    storage.Provider
	session  *simulator.Session
	track    *gpx.Track
	plan     *waypoints.Plan
	profile  models.RunnerProfile
	defaults Defaults

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model

	itinerary    itinerary.Model
	waypointList wplist.Model

	form             *huh.Form
	waypointForm     *WaypointFormModel
	profileForm      *ProfileFormModel
	confirmationForm *ConfirmationFormModel
	pendingAction    func() tea.Cmd
	editingID        string
	insertAfter      int

	running             bool
	simErr              string
	statusMsg           string
	formError           string
	validationWarning   string
	validationConflicts []validation.Conflict

	quitting bool
	width    int
	height   int
}

// NewModel builds the interactive shell. trk may be nil, in which case only
// the profile tab is useful.
func NewModel(store storage.Provider, session *simulator.Session, trk *gpx.Track, defaults Defaults) Model {
	if session == nil {
		session = simulator.NewSession(simulator.New(), simulator.SessionOptions{})
	}

	m := Model{
		store:        store,
		session:      session,
		track:        trk,
		plan:         waypoints.NewPlan(nil),
		defaults:     defaults,
		state:        constants.StateItinerary,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		itinerary:    itinerary.New(0, 0),
		waypointList: wplist.New(nil, 0, 0),
	}

	m.reloadProfile()
	if trk != nil {
		plan, err := storage.LoadPlan(store, trk.FileName)
		if err != nil {
			logger.Warn("Failed to load manual waypoints", "track", trk.FileName, "error", err)
			m.statusMsg = "Manual waypoints unavailable: " + err.Error()
		} else {
			m.plan = plan
		}
	}
	m.itinerary.SetResult(session.Latest())
	m.refreshWaypoints()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateItinerary:
		keys = append(keys, m.keys.Run)
	case constants.StateProfile:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateItinerary:
		actions = []key.Binding{m.keys.Run}
	case constants.StateProfile:
		actions = []key.Binding{m.keys.Edit}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	if m.track == nil {
		return nil
	}
	return m.startSimulation()
}

func (m *Model) reloadProfile() {
	profile, err := m.store.GetProfile()
	if err != nil {
		logger.Warn("Failed to load runner profile", "error", err)
		m.statusMsg = "Runner profile unavailable: " + err.Error()
		return
	}
	if profile.Timezone == "" {
		profile.Timezone = m.defaults.Timezone
	}
	if profile.SmoothingWindow < 1 {
		profile.SmoothingWindow = m.defaults.SmoothingWindow
	}
	m.profile = profile
}

func (m *Model) refreshWaypoints() {
	m.waypointList.SetWaypoints(m.plan.Draft(), m.plan.Dirty())
	m.updateValidationStatus()
}

// updateValidationStatus checks the draft against the reduced track.
func (m *Model) updateValidationStatus() {
	m.validationWarning = ""
	m.validationConflicts = nil
	if m.track == nil {
		return
	}
	course, err := track.Reduce(m.track.Samples, m.profile.SmoothingWindow)
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	result := validation.New().ValidateWaypoints(course, m.plan.Draft())
	m.validationConflicts = result.Conflicts
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	}
}

// startSimulation prepares the input from the current profile and applied
// waypoints and runs it off the update loop.
func (m *Model) startSimulation() tea.Cmd {
	if m.track == nil {
		m.simErr = "No track loaded."
		return nil
	}
	if m.running {
		return nil
	}

	samples := m.track.Samples
	profile := m.profile
	applied := m.plan.Applied()
	session := m.session

	m.running = true
	m.simErr = ""
	run := func() tea.Msg {
		course, err := simulator.PrepareCourse(samples, profile.SmoothingWindow, applied)
		if err != nil {
			return simulationDoneMsg{err: err}
		}
		in, err := simulator.InputFromProfile(profile, course)
		if err != nil {
			return simulationDoneMsg{err: err}
		}
		res, err := session.Run(in)
		return simulationDoneMsg{res: res, err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

// saveDraft persists the draft after an edit.
func (m *Model) saveDraft() {
	if m.track == nil {
		return
	}
	if err := storage.SaveDraft(m.store, m.track.FileName, m.plan); err != nil {
		m.statusMsg = "Failed to save draft: " + err.Error()
		return
	}
	m.statusMsg = "Draft saved"
}

// applyDraft commits the draft and re-runs the simulation with it.
func (m *Model) applyDraft() tea.Cmd {
	if m.track == nil {
		return nil
	}
	applied, err := storage.CommitPlan(m.store, m.track.FileName, m.plan)
	if err != nil {
		m.statusMsg = "Failed to apply waypoints: " + err.Error()
		return nil
	}
	m.statusMsg = fmt.Sprintf("Applied %d manual waypoint(s)", len(applied))
	m.refreshWaypoints()
	return m.startSimulation()
}

func (m *Model) discardDraft() {
	if m.track == nil {
		return
	}
	m.plan.Discard()
	err := m.store.DeleteManualWaypoints(storage.DraftPointsKey(m.track.FileName))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.statusMsg = "Failed to discard draft: " + err.Error()
	} else {
		m.statusMsg = "Draft discarded"
	}
	m.refreshWaypoints()
}

func (m *Model) resize() {
	h := m.height - 8
	if m.validationWarning != "" {
		h--
	}
	m.itinerary.SetSize(m.width-4, h)
	m.waypointList.SetSize(m.width-4, h)
}
