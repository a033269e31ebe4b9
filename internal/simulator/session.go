package simulator

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/track"
	"github.com/julianstephens/trailpace/internal/waypoints"
)

// PrepareCourse reduces samples and places the applied manual waypoints on
// the result.
func PrepareCourse(samples []models.TrackSample, window int, applied []models.ManualWaypointSpec) ([]models.Waypoint, error) {
	reduced, err := track.Reduce(samples, window)
	if err != nil {
		return nil, fmt.Errorf("failed to reduce track: %w", err)
	}
	return waypoints.Reconcile(reduced, applied), nil
}

// SessionOptions configures a Session.
type SessionOptions struct {
	// ClearOnFailure drops the previous result when a run fails. By default
	// the last good result is kept.
	ClearOnFailure bool
}

// Session holds the latest simulation result for an interactive shell.
// Runs may overlap; the result of the most recently started run wins.
type Session struct {
	run  func(Input) (*Result, error)
	opts SessionOptions

	mu       sync.Mutex
	latest   *Result
	lastErr  error
	started  uint64
	adopted  uint64
	inFlight atomic.Int32
}

func NewSession(sim *Simulator, opts SessionOptions) *Session {
	if sim == nil {
		sim = New()
	}
	return &Session{run: sim.Run, opts: opts}
}

// Run executes a simulation and adopts its outcome unless a run started
// after it has already been adopted.
func (s *Session) Run(in Input) (*Result, error) {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	s.mu.Lock()
	s.started++
	seq := s.started
	s.mu.Unlock()

	res, err := s.run(in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.adopted {
		logger.Debug("Discarding superseded simulation", "run", seq, "adopted", s.adopted)
		return res, err
	}
	s.adopted = seq
	s.lastErr = err
	if err != nil {
		if s.opts.ClearOnFailure {
			s.latest = nil
		}
		logger.Warn("Simulation failed", "error", err, "kept_previous", !s.opts.ClearOnFailure && s.latest != nil)
		return nil, err
	}
	s.latest = res
	return res, nil
}

// Latest returns the most recently adopted result, or nil.
func (s *Session) Latest() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// LastError returns the error of the most recent run, or nil if it succeeded.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Busy reports whether any run is in progress.
func (s *Session) Busy() bool {
	return s.inFlight.Load() > 0
}
