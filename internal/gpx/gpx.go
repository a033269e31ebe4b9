// Package gpx reads GPX track files into flat sample sequences.
package gpx

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/julianstephens/trailpace/internal/logger"
	"github.com/julianstephens/trailpace/internal/models"
)

// Track is a parsed track file.
type Track struct {
	Name     string
	FileName string
	Samples  []models.TrackSample
}

// ParseFile reads and flattens the GPX file at path.
func ParseFile(path string) (*Track, error) {
	gpxFile, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX file %s: %w", path, err)
	}
	return flatten(gpxFile, filepath.Base(path)), nil
}

// ParseBytes flattens an in-memory GPX document. fileName identifies the
// track for manual waypoint storage.
func ParseBytes(data []byte, fileName string) (*Track, error) {
	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX data: %w", err)
	}
	return flatten(gpxFile, fileName), nil
}

// ParseReader reads r fully and parses it as GPX.
func ParseReader(r io.Reader, fileName string) (*Track, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GPX data: %w", err)
	}
	return ParseBytes(data, fileName)
}

// flatten concatenates every track segment in document order. Route and
// standalone waypoints are ignored.
func flatten(gpxFile *gpx.GPX, fileName string) *Track {
	t := &Track{FileName: fileName, Name: gpxFile.Name}

	for _, track := range gpxFile.Tracks {
		if t.Name == "" {
			t.Name = strings.TrimSpace(track.Name)
		}
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				sample := models.TrackSample{
					Latitude:  p.Latitude,
					Longitude: p.Longitude,
				}
				if p.Elevation.NotNull() {
					ele := p.Elevation.Value()
					sample.Elevation = &ele
				}
				if !p.Timestamp.IsZero() {
					ts := p.Timestamp
					sample.Timestamp = &ts
				}
				t.Samples = append(t.Samples, sample)
			}
		}
	}

	if t.Name == "" {
		t.Name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}

	logger.Debug("Parsed GPX track", "file", fileName, "tracks", len(gpxFile.Tracks), "samples", len(t.Samples))
	return t
}
