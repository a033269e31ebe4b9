package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/storage"
)

const fileVersion = 1

type document struct {
	Version   int                                    `json:"version"`
	Profile   models.RunnerProfile                   `json:"profile"`
	Waypoints map[string][]models.ManualWaypointSpec `json:"waypoints"`
}

type Store struct {
	path string

	mu  sync.Mutex
	doc *document
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &document{
		Version:   fileVersion,
		Waypoints: map[string][]models.ManualWaypointSpec{},
	}
	models.ApplyDefaultProfile(&doc.Profile)
	s.doc = doc
	return s.save()
}

func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'trailpace init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > fileVersion {
		return fmt.Errorf("storage file version %d is newer than supported version %d", doc.Version, fileVersion)
	}
	if doc.Waypoints == nil {
		doc.Waypoints = map[string][]models.ManualWaypointSpec{}
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error {
	return nil
}

// save writes the document; callers hold mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *Store) GetProfile() (models.RunnerProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return models.RunnerProfile{}, fmt.Errorf("storage not loaded")
	}
	return s.doc.Profile, nil
}

func (s *Store) SaveProfile(profile models.RunnerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.doc.Profile = profile
	return s.save()
}

func (s *Store) GetManualWaypoints(key string) ([]models.ManualWaypointSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	specs, ok := s.doc.Waypoints[key]
	if !ok {
		return nil, fmt.Errorf("manual waypoints for %s: %w", key, storage.ErrNotFound)
	}
	out := models.CloneSpecs(specs)
	if out == nil {
		out = []models.ManualWaypointSpec{}
	}
	return out, nil
}

func (s *Store) SaveManualWaypoints(key string, specs []models.ManualWaypointSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	stored := models.CloneSpecs(specs)
	if stored == nil {
		stored = []models.ManualWaypointSpec{}
	}
	s.doc.Waypoints[key] = stored
	return s.save()
}

func (s *Store) DeleteManualWaypoints(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.doc.Waypoints[key]; !ok {
		return fmt.Errorf("manual waypoints for %s: %w", key, storage.ErrNotFound)
	}
	delete(s.doc.Waypoints, key)
	return s.save()
}

func (s *Store) ListKeys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	keys := make([]string, 0, len(s.doc.Waypoints))
	for k := range s.doc.Waypoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}
