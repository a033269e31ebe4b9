package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/trailpace/internal/config"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing local store before initialization."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		path := ctx.Store.GetConfigPath()
		if config.IsRemote(path) || path == "postgresql" {
			return fmt.Errorf("--force only resets local stores")
		}
		if _, err := os.Stat(path); err == nil {
			// Close first to release the file
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized trailpace storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
