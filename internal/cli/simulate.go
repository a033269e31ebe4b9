package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/trailpace/internal/export"
	"github.com/julianstephens/trailpace/internal/simulator"
)

type SimulateCmd struct {
	GPX         string   `arg:"" help:"GPX track file." type:"existingfile"`
	Flags       RunFlags `embed:""`
	NoWaypoints bool     `help:"Ignore stored manual waypoints." name:"no-waypoints"`
	JSON        bool     `help:"Print the full result as JSON."`
}

func (c *SimulateCmd) Run(ctx *Context) error {
	profile, err := ctx.runnerProfile(c.Flags)
	if err != nil {
		return err
	}

	trk, course, err := ctx.loadCourse(c.GPX, profile, c.NoWaypoints)
	if err != nil {
		return err
	}

	in, err := simulator.InputFromProfile(profile, course)
	if err != nil {
		return err
	}
	res, err := ctx.session().Run(in)
	if err != nil {
		return err
	}

	if c.JSON {
		return export.WriteJSON(ctx.out(), res)
	}

	name := trk.Name
	if name == "" {
		name = trk.FileName
	}
	ctx.printf("%s\n\n", lipgloss.NewStyle().Bold(true).Render(name))
	ctx.println(renderItinerary(res))
	ctx.println()
	ctx.printf("  Distance:     %s km\n", simulator.FormatDistance(res.TotalDistanceKm))
	ctx.printf("  Base pace:    %s /km\n", res.BasePace)
	ctx.printf("  Finish time:  %s\n", simulator.FormatElapsed(res.FinishElapsedMs))
	if res.FirstKm != nil {
		ctx.printf("  First km:     %s\n", res.FirstKm.ArrivalTime.Format("15:04:05"))
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	endStyle    = cellStyle.Foreground(lipgloss.Color("10"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderItinerary draws the named rows of a run as a table.
func renderItinerary(res *simulator.Result) string {
	rows := make([][]string, 0, len(res.Itinerary))
	for _, r := range res.Itinerary {
		label := r.Category
		if r.CategoryLabel != "" {
			label = r.Category + " " + r.CategoryLabel
		}
		rest := ""
		if r.RestMinutes != nil {
			rest = fmt.Sprintf("%g min", *r.RestMinutes)
		}
		rows = append(rows, []string{
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

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Waypoint", "Km", "Section", "Elev", "Arrival", "Elapsed", "Gate", "Rest").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && isEndpoint(rows[row][0]):
				return endStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func isEndpoint(label string) bool {
	return strings.HasPrefix(label, "START") || strings.HasPrefix(label, "FINISH")
}
