package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/storage"
)

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpWaypointsCmd struct {
	Key string `arg:"" help:"Storage key, or a track file name for its applied list."`
}

func (cmd *DebugDumpWaypointsCmd) Run(ctx *Context) error {
	key := cmd.Key
	if _, ok := storage.TrackFromKey(key); !ok && !isDraftKey(key) {
		key = storage.ManualPointsKey(key)
	}

	specs, err := ctx.Store.GetManualWaypoints(key)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("nothing stored under key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("failed to get manual waypoints: %w", err)
	}
	return ctx.printJSON(map[string]any{"key": key, "waypoints": specs})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *Context) error {
	keys, err := ctx.Store.ListKeys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return ctx.printJSON(keys)
}

func isDraftKey(key string) bool {
	return strings.HasSuffix(key, constants.ManualDraftPointsSuffix)
}

func (c *Context) printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}
