package storage

import (
	"errors"

	"github.com/julianstephens/trailpace/internal/models"
)

// ErrNotFound is returned when no manual waypoint list is stored under a key.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Runner profile
	GetProfile() (models.RunnerProfile, error)
	SaveProfile(models.RunnerProfile) error

	// Manual waypoints, keyed by ManualPointsKey or DraftPointsKey
	GetManualWaypoints(key string) ([]models.ManualWaypointSpec, error)
	SaveManualWaypoints(key string, specs []models.ManualWaypointSpec) error
	DeleteManualWaypoints(key string) error
	ListKeys() ([]string, error)

	// Utils
	GetConfigPath() string
}
