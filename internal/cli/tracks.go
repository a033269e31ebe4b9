package cli

import (
	"fmt"

	"github.com/julianstephens/trailpace/internal/storage"
)

type TracksCmd struct{}

func (c *TracksCmd) Run(ctx *Context) error {
	tracks, err := storage.ListTracks(ctx.Store)
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}
	if len(tracks) == 0 {
		ctx.println("No tracks have manual waypoints yet")
		return nil
	}

	ctx.println("Tracks:")
	for _, name := range tracks {
		specs, err := ctx.appliedWaypoints(name)
		if err != nil {
			return err
		}
		ctx.printf("  %s (%d waypoint(s))\n", name, len(specs))
	}
	return nil
}
