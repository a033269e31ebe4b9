package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/simulator"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateItinerary:
		content = m.viewItinerary()
	case constants.StateWaypoints:
		content = m.viewWaypoints()
	case constants.StateProfile:
		content = m.viewProfile()
	case constants.StateAddWaypoint, constants.StateEditProfile:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmation:
		content = lipgloss.Place(m.width, max(m.height-4, 0),
			lipgloss.Center, lipgloss.Center,
			m.form.View(),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Itinerary", "Waypoints", "Profile"} {
		if m.activeTab() == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	name := ""
	if m.track != nil {
		name = m.track.Name
		if name == "" {
			name = m.track.FileName
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, "  "+titleStyle.Render(name))...)
}

// activeTab is the tab a form or dialog was opened from.
func (m Model) activeTab() constants.SessionState {
	if m.state > constants.StateProfile {
		return m.previousState
	}
	return m.state
}

func (m Model) viewItinerary() string {
	if m.track == nil {
		return docStyle.Render("No track loaded. Run 'trailpace tui <track.gpx>' to simulate one.")
	}
	var parts []string
	if m.simErr != "" {
		msg := "Simulation failed: " + m.simErr
		if m.session.Latest() != nil {
			msg += " (showing the previous result)"
		}
		parts = append(parts, errorStyle.Render(msg))
	}
	parts = append(parts, m.itinerary.View())
	return docStyle.Render(strings.Join(parts, "\n"))
}

func (m Model) viewWaypoints() string {
	if m.track == nil {
		return docStyle.Render("No track loaded.")
	}
	content := m.waypointList.View()
	if m.validationWarning != "" {
		content = warningStyle.Render(m.validationWarning) + "\n" + content
	}
	return docStyle.Render(content)
}

func (m Model) viewProfile() string {
	p := m.profile
	basePace := "-"
	if in, err := simulator.InputFromProfile(p, nil); err == nil && in.Pace != "" {
		basePace = in.Pace + " /km"
	}
	rows := [][2]string{
		{"Start Time", p.StartTime},
		{"Finish Cutoff", p.FinishTime},
		{"Pace", p.Pace},
		{"Marathon Time", p.MarathonTime},
		{"Base Pace", basePace},
		{"Skill Index", p.SkillIndex},
		{"Smoothing Window", fmt.Sprint(p.SmoothingWindow)},
		{"Race Date", p.RaceDate},
		{"Timezone", p.Timezone},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Runner Profile"))
	b.WriteString("\n\n")
	for _, r := range rows {
		v := r[1]
		if strings.TrimSpace(v) == "" {
			v = "-"
		}
		b.WriteString(labelStyle.Render(r[0]) + v + "\n")
	}
	return docStyle.Render(b.String())
}

func (m Model) viewStatus() string {
	switch {
	case m.running:
		return " " + m.spinner.View() + " Simulating..."
	case m.formError != "":
		return " " + dangerStyle.Render(m.formError)
	case m.statusMsg != "":
		return " " + statusStyle.Render(m.statusMsg)
	}
	return ""
}
