package cli

import (
	"errors"

	"github.com/julianstephens/trailpace/internal/gpx"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/track"
	"github.com/julianstephens/trailpace/internal/validation"
)

type ValidateCmd struct {
	GPX    string `arg:"" help:"GPX track file." type:"existingfile"`
	Draft  bool   `help:"Validate the draft instead of the applied list."`
	Window int    `help:"Elevation smoothing window."`
	Strict bool   `help:"Exit with an error when conflicts are found."`
}

// ErrConflicts is returned by a strict validation that found problems.
var ErrConflicts = errors.New("manual waypoint conflicts detected")

func (c *ValidateCmd) Run(ctx *Context) error {
	trk, err := gpx.ParseFile(c.GPX)
	if err != nil {
		return err
	}

	profile, err := ctx.runnerProfile(RunFlags{Window: c.Window})
	if err != nil {
		return err
	}
	course, err := track.Reduce(trk.Samples, profile.SmoothingWindow)
	if err != nil {
		return err
	}

	plan, err := storage.LoadPlan(ctx.Store, trk.FileName)
	if err != nil {
		return err
	}
	specs := plan.Applied()
	if c.Draft {
		specs = plan.Draft()
	}

	ctx.printf("Validating %d manual waypoint(s) on %s (%.1f km)...\n\n", len(specs), trk.FileName, track.TotalDistanceKm(course))
	result := validation.New().ValidateWaypoints(course, specs)
	ctx.println(result.FormatReport())

	if c.Strict && result.HasConflicts() {
		return ErrConflicts
	}
	return nil
}
