package storage

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/waypoints"
)

// ManualPointsKey is the key the applied list for a track file is stored under.
func ManualPointsKey(fileName string) string {
	return filepath.Base(fileName) + constants.ManualPointsSuffix
}

// DraftPointsKey is the key the uncommitted draft for a track file is stored under.
func DraftPointsKey(fileName string) string {
	return filepath.Base(fileName) + constants.ManualDraftPointsSuffix
}

// TrackFromKey returns the track file name encoded in an applied-list key.
func TrackFromKey(key string) (string, bool) {
	if strings.HasSuffix(key, constants.ManualDraftPointsSuffix) {
		return "", false
	}
	name, ok := strings.CutSuffix(key, constants.ManualPointsSuffix)
	return name, ok && name != ""
}

// ListTracks returns the track file names that have an applied list.
func ListTracks(p Provider) ([]string, error) {
	keys, err := p.ListKeys()
	if err != nil {
		return nil, err
	}
	var tracks []string
	for _, k := range keys {
		if name, ok := TrackFromKey(k); ok {
			tracks = append(tracks, name)
		}
	}
	sort.Strings(tracks)
	return tracks, nil
}

// LoadPlan restores the applied list for fileName and, when one was saved,
// the pending draft. A track with nothing stored yields an empty plan.
func LoadPlan(p Provider, fileName string) (*waypoints.Plan, error) {
	applied, err := p.GetManualWaypoints(ManualPointsKey(fileName))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to load manual waypoints: %w", err)
	}
	plan := waypoints.NewPlan(applied)

	draft, err := p.GetManualWaypoints(DraftPointsKey(fileName))
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load draft waypoints: %w", err)
	default:
		plan.SetDraft(draft)
	}
	return plan, nil
}

// SaveDraft persists the plan's draft without touching the applied list.
func SaveDraft(p Provider, fileName string, plan *waypoints.Plan) error {
	return p.SaveManualWaypoints(DraftPointsKey(fileName), plan.Draft())
}

// CommitPlan commits the draft and persists it as the applied list.
func CommitPlan(p Provider, fileName string, plan *waypoints.Plan) ([]models.ManualWaypointSpec, error) {
	applied := plan.Commit()
	if err := p.SaveManualWaypoints(ManualPointsKey(fileName), applied); err != nil {
		return nil, fmt.Errorf("failed to save manual waypoints: %w", err)
	}
	if err := p.DeleteManualWaypoints(DraftPointsKey(fileName)); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to clear draft: %w", err)
	}
	return applied, nil
}

// HasEmbeddedCredentials reports whether a connection URL carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, ok := u.User.Password()
	return ok
}
