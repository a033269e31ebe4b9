package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	TEST_SERVER_TIMEOUT = 15 * time.Second
)

const courseGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="e2e" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>E2E Col</name>
    <trkseg>
      <trkpt lat="45.0000" lon="6.0000"><ele>1000</ele></trkpt>
      <trkpt lat="45.0100" lon="6.0000"><ele>1100</ele></trkpt>
      <trkpt lat="45.0200" lon="6.0000"><ele>1250</ele></trkpt>
      <trkpt lat="45.0300" lon="6.0000"><ele>1400</ele></trkpt>
      <trkpt lat="45.0400" lon="6.0000"><ele>1250</ele></trkpt>
      <trkpt lat="45.0500" lon="6.0000"><ele>1100</ele></trkpt>
      <trkpt lat="45.0600" lon="6.0000"><ele>1000</ele></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("TRAILPACE_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "trailpace")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/trailpace ./cmd/trailpace' first.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "TRAILPACE_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("TRAILPACE_STORAGE=%s", filepath.Join(tempDir, "trailpace.db")),
		"TRAILPACE_TIMEZONE=UTC",
	)

	gpxPath := filepath.Join(tempDir, "col.gpx")
	if err := os.WriteFile(gpxPath, []byte(courseGPX), 0644); err != nil {
		t.Fatalf("Failed to write GPX: %v", err)
	}

	// 2. Initialize storage and the runner profile
	t.Log("Initializing storage...")
	runCmd(t, cliPath, cleanEnv, "init")
	runCmd(t, cliPath, cleanEnv, "profile", "set", "--start", "06:30", "--pace", "6:00", "--skill", "500")

	// 3. Manual waypoints: draft, then apply
	t.Log("Adding manual waypoints...")
	runCmd(t, cliPath, cleanEnv, "waypoint", "add", "col.gpx", "3.3", "--category", "Summit", "--label", "Col", "--gate", "08:00")
	out := runCmd(t, cliPath, cleanEnv, "waypoint", "list", "col.gpx")
	if !strings.Contains(out, "No manual waypoints") {
		t.Errorf("draft waypoint should not be applied yet:\n%s", out)
	}
	runCmd(t, cliPath, cleanEnv, "waypoint", "apply", "col.gpx")
	runCmd(t, cliPath, cleanEnv, "validate", "--strict", gpxPath)

	// 4. Simulate
	t.Log("Simulating...")
	out = runCmd(t, cliPath, cleanEnv, "simulate", gpxPath)
	for _, want := range []string{"E2E Col", "START", "Summit Col", "FINISH", "6:00 /km"} {
		if !strings.Contains(out, want) {
			t.Errorf("simulate output missing %q:\n%s", want, out)
		}
	}

	out = runCmd(t, cliPath, cleanEnv, "simulate", "--json", gpxPath)
	var result struct {
		Itinerary []struct {
			Category string `json:"category"`
			Arrival  string `json:"arrival"`
		} `json:"itinerary"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("simulate --json is not JSON: %v\n%s", err, out)
	}
	if len(result.Itinerary) != 3 || result.Itinerary[0].Arrival != "06:30" {
		t.Errorf("unexpected itinerary: %+v", result.Itinerary)
	}

	// 5. Export and housekeeping
	geojsonPath := filepath.Join(tempDir, "col.geojson")
	runCmd(t, cliPath, cleanEnv, "export", "geojson", gpxPath, "-o", geojsonPath)
	if _, err := os.Stat(geojsonPath); err != nil {
		t.Errorf("GeoJSON not written: %v", err)
	}
	runCmd(t, cliPath, cleanEnv, "backup", "create")
	runCmd(t, cliPath, cleanEnv, "doctor")

	// 6. Serve the API and check it answers
	t.Log("Starting API server...")
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveCmd := exec.CommandContext(ctx, cliPath, "serve", "--listen", addr)
	serveCmd.Env = cleanEnv
	if err := serveCmd.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	defer func() {
		cancel()
		_ = serveCmd.Wait()
	}()

	body := waitForHTTP(t, "http://"+addr+"/api/tracks", TEST_SERVER_TIMEOUT)
	if !strings.Contains(body, "col.gpx") {
		t.Errorf("tracks endpoint did not list col.gpx: %s", body)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

func waitForHTTP(t *testing.T, url string, timeout time.Duration) string {
	t.Helper()
	start := time.Now()
	for {
		resp, err := http.Get(url)
		if err == nil {
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return string(data)
			}
		}
		if time.Since(start) > timeout {
			t.Fatalf("Timed out waiting for %s", url)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
