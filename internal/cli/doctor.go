package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/trailpace/internal/backup"
	"github.com/julianstephens/trailpace/internal/simulator"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/waypoints"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	reachable := false

	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.printf("⚠ %s: WARNING\n", name)
			ctx.printf("   %v\n", err)
		default:
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}
	needsStore := func(name string, check func(*Context) error) {
		if !reachable {
			ctx.printf("⊘ %s: SKIPPED (storage not reachable)\n", name)
			return
		}
		report(name, check(ctx), false)
	}

	err := checkStoreReachable(ctx)
	report("Storage reachable", err, false)
	reachable = err == nil

	needsStore("Schema version", checkSchemaVersion)
	report("Backups present", checkBackupsPresent(ctx), true)
	needsStore("Runner profile", checkProfile)
	needsStore("Manual waypoints", checkStoredWaypoints)
	report("Clock/timezone", checkClockTimezone(), false)

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		// An outdated schema is reported by the schema check
		if _, ok := ctx.Store.(schemaVersioner); ok && strings.Contains(err.Error(), "trailpace migrate") {
			return nil
		}
		return fmt.Errorf("failed to load storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		// Redis and JSON stores have no schema
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'trailpace migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := backup.NewManager(ctx.Store.GetConfigPath())
	if errors.Is(err, backup.ErrRemoteStore) {
		return nil
	}
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'trailpace backup create'")
	}
	return nil
}

func checkProfile(ctx *Context) error {
	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to get runner profile: %w", err)
	}
	if strings.TrimSpace(profile.StartTime) != "" {
		if err := checkClock("start time", profile.StartTime, false); err != nil {
			return err
		}
	}
	if err := checkClock("finish time", profile.FinishTime, true); err != nil {
		return err
	}
	if _, err := simulator.InputFromProfile(profile, nil); err != nil {
		return err
	}
	return nil
}

func checkStoredWaypoints(ctx *Context) error {
	keys, err := ctx.Store.ListKeys()
	if err != nil {
		return fmt.Errorf("failed to list manual waypoint keys: %w", err)
	}

	for _, key := range keys {
		specs, err := ctx.Store.GetManualWaypoints(key)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("key %s is listed but has no stored list", key)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}

		seen := make(map[string]bool, len(specs))
		for _, s := range specs {
			if s.ID == "" {
				return fmt.Errorf("%s has a waypoint without an ID", key)
			}
			if seen[s.ID] {
				return fmt.Errorf("%s has duplicate waypoint ID %s", key, s.ID)
			}
			seen[s.ID] = true
			if _, ok := waypoints.ParseDistance(s.DistanceKm); !ok {
				ctx.printf("   note: %s waypoint %s has non-numeric distance %q and is skipped\n", key, s.ID, s.DistanceKm)
			}
		}
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
