package itinerary

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/trailpace/internal/simulator"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

var columns = []table.Column{
	{Title: "Waypoint", Width: 22},
	{Title: "Km", Width: 7},
	{Title: "Section", Width: 8},
	{Title: "Elev", Width: 6},
	{Title: "Arrival", Width: 8},
	{Title: "Elapsed", Width: 9},
	{Title: "Gate", Width: 6},
	{Title: "Rest", Width: 6},
}

type Model struct {
	table  table.Model
	result *simulator.Result
	width  int
	height int
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-3, 3)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return Model{table: t, width: width, height: height}
}

// SetResult replaces the displayed itinerary. A nil result keeps the table
// empty.
func (m *Model) SetResult(res *simulator.Result) {
	m.result = res
	if res == nil {
		m.table.SetRows(nil)
		return
	}
	rows := make([]table.Row, 0, len(res.Itinerary))
	for _, r := range res.Itinerary {
		label := r.Category
		if r.CategoryLabel != "" {
			label += " " + r.CategoryLabel
		}
		rest := ""
		if r.RestMinutes != nil {
			rest = fmt.Sprintf("%g", *r.RestMinutes)
		}
		rows = append(rows, table.Row{
			label,
			simulator.FormatDistance(r.CumulativeDistanceKm),
			simulator.FormatDistance(r.SectionDistanceKm),
			simulator.FormatElevation(r.ElevationM),
			r.Arrival,
			r.Elapsed,
			r.GateTime,
			rest,
		})
	}
	m.table.SetRows(rows)
}

// Rows returns the number of itinerary rows shown.
func (m Model) Rows() int {
	return len(m.table.Rows())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.result == nil {
		return mutedStyle.Render("No simulation yet. Press 'r' to run one.")
	}
	summary := summaryStyle.Render(fmt.Sprintf("%s km  ·  base pace %s /km  ·  finish %s",
		simulator.FormatDistance(m.result.TotalDistanceKm),
		m.result.BasePace,
		simulator.FormatElapsed(m.result.FinishElapsedMs)))
	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), "", summary)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width)
	m.table.SetHeight(max(height-3, 3))
}
