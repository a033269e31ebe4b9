package constants

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ConflictType represents the type of waypoint validation conflict
type ConflictType string

// SessionState represents the current state of the TUI application
type SessionState int

// ConfirmationMsg is a message to trigger a confirmation dialog
type ConfirmationMsg struct {
	Message string
	Action  func() tea.Cmd
}

const (
	AppName            = "trailpace"
	DefaultKeyringUser = "storage-connection"
	RedisKeyringUser   = "redis-password"
	DefaultConfigPath  = "~/.config/trailpace/trailpace.db"
	Version            = "v0.3.0"

	// TimeFormat is the clock format used for start, finish and gate times (HH:MM)
	TimeFormat = "15:04"

	// ArrivalFormat is the clock format used for simulated arrivals (HH:MM:SS)
	ArrivalFormat = "15:04:05"

	// DateFormat is the race date format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Track constants
	DefaultPointName       = "Track point %d"
	DefaultSmoothingWindow = 1
	EarthRadiusMeters      = 6371000.0
	MarathonDistanceKm     = 42.195

	// Waypoint categories
	CategoryStart  = "START"
	CategoryFinish = "FINISH"

	// Storage keys
	ManualPointsSuffix      = "_manual_points_v2"
	ManualDraftPointsSuffix = "_manual_points_draft_v2"

	// Fatigue constants
	FatigueOnsetKm = 30.0
	MaxSkillIndex  = 1000

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "trailpace-"
	BackupFileSuffix = ".db"

	// Server constants
	DefaultListenAddr = ":8080"

	// Conflict Types
	ConflictInvalidDistance  ConflictType = "invalid_distance"
	ConflictNegativeDistance ConflictType = "negative_distance"
	ConflictBeyondCourse     ConflictType = "beyond_course"
	ConflictInvalidGateTime  ConflictType = "invalid_gate_time"
	ConflictInvalidRest      ConflictType = "invalid_rest"
	ConflictSharedTrackPoint ConflictType = "shared_track_point"
	ConflictBoundaryOverride ConflictType = "boundary_override"
	ConflictMissingCategory  ConflictType = "missing_category"
)

const (
	// Session States
	StateItinerary SessionState = iota
	StateWaypoints
	StateProfile
	StateAddWaypoint
	StateEditProfile
	StateConfirmation
)
