package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/trailpace/internal/gpx"
	"github.com/julianstephens/trailpace/internal/tui"
)

type TuiCmd struct {
	GPX string `arg:"" optional:"" help:"GPX track file to open." type:"existingfile"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()

	var trk *gpx.Track
	if c.GPX != "" {
		var err error
		trk, err = gpx.ParseFile(c.GPX)
		if err != nil {
			return err
		}
	}

	m := tui.NewModel(ctx.Store, ctx.session(), trk, tui.Defaults{
		Timezone:        ctx.Config.Timezone,
		SmoothingWindow: ctx.Config.SmoothingWindow,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
