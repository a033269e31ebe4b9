package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/trailpace/internal/cli"
	"github.com/julianstephens/trailpace/internal/config"
	"github.com/julianstephens/trailpace/internal/constants"
	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/simulator"
)

var CLI struct {
	Version kong.VersionFlag
	Storage string `help:"SQLite or JSON file path, PostgreSQL or Redis URL, or 'keyring' for a connection string stored in the OS keyring. Credentials must NOT be embedded in PostgreSQL URLs." default:"${storage}"`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize trailpace storage."`
	Migrate  cli.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"withargs"`
	Simulate cli.SimulateCmd `cmd:"" help:"Simulate a run over a GPX track."`
	Validate cli.ValidateCmd `cmd:"" help:"Check manual waypoints against a track."`
	Tracks   cli.TracksCmd   `cmd:"" help:"List tracks with manual waypoints."`
	Serve    cli.ServeCmd    `cmd:"" help:"Serve the HTTP API."`
	Profile  struct {
		Show cli.ProfileShowCmd `cmd:"" help:"Show the runner profile." default:"1"`
		Set  cli.ProfileSetCmd  `cmd:"" help:"Update the runner profile."`
	} `cmd:"" help:"Manage the runner profile."`
	Waypoint struct {
		Add     cli.WaypointAddCmd     `cmd:"" help:"Add a manual waypoint to a track's draft."`
		List    cli.WaypointListCmd    `cmd:"" help:"List a track's manual waypoints."`
		Edit    cli.WaypointEditCmd    `cmd:"" help:"Change one field of a draft waypoint."`
		Remove  cli.WaypointRemoveCmd  `cmd:"" help:"Remove a draft waypoint."`
		Apply   cli.WaypointApplyCmd   `cmd:"" help:"Apply the draft to simulations."`
		Discard cli.WaypointDiscardCmd `cmd:"" help:"Discard unapplied draft changes."`
	} `cmd:"" help:"Manage manual waypoints."`
	Export struct {
		Geojson cli.ExportGeoJSONCmd `cmd:"" name:"geojson" help:"Export the course and itinerary as GeoJSON."`
		JSON    cli.ExportJSONCmd    `cmd:"" name:"json" help:"Export the simulation result as JSON."`
	} `cmd:"" help:"Export simulation results."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a connection string or Redis password."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (masked)."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove a stored secret."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored entries."`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	DebugCmds struct {
		DBPath    cli.DebugDBPathCmd        `cmd:"" name:"db-path" help:"Print the storage location."`
		Keys      cli.DebugKeysCmd          `cmd:"" help:"List stored keys."`
		Waypoints cli.DebugDumpWaypointsCmd `cmd:"" name:"dump-waypoints" help:"Dump a stored waypoint list as JSON."`
	} `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

// Commands that open or inspect the store themselves.
var selfLoading = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	configDir, err := config.Dir()
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		apperrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Trail running itinerary simulator for GPX tracks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"storage": cfg.Storage,
		},
	)

	cfg.Debug = cfg.Debug || CLI.Debug
	cfg.Storage = CLI.Storage
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := strings.Fields(ctx.Command())[0]
	store, err := cli.OpenStore(CLI.Storage, cfg)
	if err != nil {
		// Keyring commands must work before a stored connection string exists.
		if command != "keyring" {
			apperrors.Fatal(err)
		}
		logger.Debug("Storage not opened", "error", err)
	}

	appCtx := &cli.Context{
		Store:   store,
		Session: simulator.NewSession(simulator.New(), simulator.SessionOptions{}),
		Config:  cfg,
	}

	if !selfLoading[command] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Debug("Failed to close storage", "error", cerr)
		}
	}
	apperrors.Fatal(err)
}
