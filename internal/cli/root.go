package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/trailpace/internal/backup"
	"github.com/julianstephens/trailpace/internal/config"
	"github.com/julianstephens/trailpace/internal/gpx"
	"github.com/julianstephens/trailpace/internal/keyring"
	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/simulator"
	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/storage/jsonfile"
	"github.com/julianstephens/trailpace/internal/storage/postgres"
	"github.com/julianstephens/trailpace/internal/storage/redis"
	"github.com/julianstephens/trailpace/internal/storage/sqlite"
)

// KeyringLocation selects the connection string stored in the OS keyring.
const KeyringLocation = "keyring"

type Context struct {
	Store   storage.Provider
	Session *simulator.Session
	Config  config.Config

	// Out receives command output. Nil means stdout.
	Out io.Writer
	// In answers confirmation prompts. Nil means stdin.
	In io.Reader
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// confirm asks a yes/no question and defaults to no.
func (c *Context) confirm(question string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// OpenStore picks a storage provider from a location: a PostgreSQL or Redis
// URL, the word "keyring" for a connection string kept in the OS keyring, a
// .json file, or a SQLite database path.
func OpenStore(location string, cfg config.Config) (storage.Provider, error) {
	fromKeyring := false
	if location == KeyringLocation {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no connection string found in keyring, use 'trailpace keyring set' to store one")
			}
			return nil, err
		}
		location = connStr
		fromKeyring = true
	}

	switch {
	case strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") || strings.Contains(location, "host="):
		if _, err := postgres.ValidateConnString(location); err != nil {
			// The keyring is encrypted, so a password stored there is allowed.
			if !fromKeyring || !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w: store it with 'trailpace keyring set' or use .pgpass", err)
				}
				return nil, err
			}
		}
		return postgres.New(location), nil

	case strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://"):
		return redis.NewFromURL(location, redisPassword(cfg))

	case strings.HasSuffix(strings.ToLower(location), ".json"):
		path, err := config.ExpandPath(location)
		if err != nil {
			return nil, err
		}
		return jsonfile.NewStore(path), nil

	default:
		path, err := config.ExpandPath(location)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(path), nil
	}
}

func redisPassword(cfg config.Config) string {
	if cfg.RedisPassword != "" {
		return cfg.RedisPassword
	}
	password, err := keyring.GetRedisPassword()
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Redis password not read from keyring", "error", err)
		}
		return ""
	}
	return password
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.NewManager(c.Store.GetConfigPath())
	if err != nil {
		logger.Debug("Automatic backup skipped", "reason", err)
		return
	}
	if _, err := mgr.Create(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// loadCourse parses a GPX file, reduces it with the profile's smoothing
// window and places the track's applied manual waypoints.
func (c *Context) loadCourse(path string, profile models.RunnerProfile, skipManual bool) (*gpx.Track, []models.Waypoint, error) {
	trk, err := gpx.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}

	var applied []models.ManualWaypointSpec
	if !skipManual {
		applied, err = c.appliedWaypoints(trk.FileName)
		if err != nil {
			return nil, nil, err
		}
	}

	course, err := simulator.PrepareCourse(trk.Samples, profile.SmoothingWindow, applied)
	if err != nil {
		return nil, nil, err
	}
	return trk, course, nil
}

func (c *Context) appliedWaypoints(fileName string) ([]models.ManualWaypointSpec, error) {
	specs, err := c.Store.GetManualWaypoints(storage.ManualPointsKey(fileName))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manual waypoints: %w", err)
	}
	return specs, nil
}

func (c *Context) session() *simulator.Session {
	if c.Session == nil {
		c.Session = simulator.NewSession(simulator.New(), simulator.SessionOptions{})
	}
	return c.Session
}
