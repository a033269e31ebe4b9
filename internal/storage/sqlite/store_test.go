package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/trailpace/internal/storage"
	"github.com/julianstephens/trailpace/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "nested", "trailpace.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProvider(t *testing.T) {
	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil || !strings.Contains(err.Error(), "trailpace init") {
		t.Errorf("Load() error = %v, want init hint", err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	profile, err := store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	profile.Pace = "7:00"
	if err := store.SaveProfile(profile); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}

	if err := store.Init(); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	got, err := store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Pace != "7:00" {
		t.Errorf("Pace = %q after re-init, want 7:00", got.Pace)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trailpace.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.SaveManualWaypoints(storage.ManualPointsKey("a.gpx"), nil); err != nil {
		t.Fatalf("SaveManualWaypoints() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	keys, err := reopened.ListKeys()
	if err != nil {
		t.Fatalf("ListKeys() error = %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("ListKeys() = %v, want 1 key", keys)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", reopened.GetConfigPath(), path)
	}
	if reopened.GetDB() == nil {
		t.Error("GetDB() = nil after Load")
	}
}
