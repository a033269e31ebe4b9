package simulator

import (
	"errors"
	"testing"

	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/models"
)

func TestSessionPreservesResultOnFailure(t *testing.T) {
	s := NewSession(nil, SessionOptions{})
	good := Input{Waypoints: threePointCourse(t), StartTime: "08:00", BasePaceSecPerKm: 360}

	first, err := s.Run(good)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	bad := good
	bad.StartTime = "8h"
	if _, err := s.Run(bad); err == nil {
		t.Fatal("expected validation error")
	}

	if s.Latest() != first {
		t.Error("Latest() changed after failed run, want previous result kept")
	}
	var ve *apperrors.ValidationError
	if !errors.As(s.LastError(), &ve) {
		t.Errorf("LastError() = %v, want ValidationError", s.LastError())
	}
	if s.Busy() {
		t.Error("Busy() = true after run finished")
	}
}

func TestSessionClearOnFailure(t *testing.T) {
	s := NewSession(New(), SessionOptions{ClearOnFailure: true})
	good := Input{Waypoints: threePointCourse(t), StartTime: "08:00", BasePaceSecPerKm: 360}

	if _, err := s.Run(good); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := s.Run(Input{}); err == nil {
		t.Fatal("expected missing input error")
	}
	if s.Latest() != nil {
		t.Error("Latest() should be nil after failed run with ClearOnFailure")
	}

	if _, err := s.Run(good); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Latest() == nil || s.LastError() != nil {
		t.Error("successful run did not replace the cleared result")
	}
}

func TestSessionOverlappingRuns(t *testing.T) {
	tests := []struct {
		name      string
		olderFail bool
	}{
		{name: "older run succeeds late", olderFail: false},
		{name: "older run fails late", olderFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(nil, SessionOptions{ClearOnFailure: true})
			entered := make(chan struct{})
			release := make(chan struct{})
			s.run = func(in Input) (*Result, error) {
				if in.StartTime == "06:00" {
					close(entered)
					<-release
					if tt.olderFail {
						return nil, errors.New("slow run failed")
					}
				}
				return &Result{BasePace: in.StartTime}, nil
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				s.Run(Input{StartTime: "06:00"})
			}()
			<-entered

			newer, err := s.Run(Input{StartTime: "07:00"})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !s.Busy() {
				t.Error("Busy() = false while the older run is still in flight")
			}
			if s.Latest() != newer {
				t.Errorf("Latest() = %+v, want the newer result", s.Latest())
			}

			close(release)
			<-done

			if s.Busy() {
				t.Error("Busy() = true after both runs finished")
			}
			if s.Latest() != newer {
				t.Errorf("Latest() = %+v after the older run finished, want the newer result", s.Latest())
			}
			if s.LastError() != nil {
				t.Errorf("LastError() = %v, want nil from the newer run", s.LastError())
			}
		})
	}
}

func TestPrepareCourse(t *testing.T) {
	samples := []models.TrackSample{
		{Latitude: 0, Longitude: 0, Elevation: ele(100)},
		{Latitude: 0, Longitude: 0.01, Elevation: ele(110)},
		{Latitude: 0, Longitude: 0.02, Elevation: ele(100)},
	}
	course, err := PrepareCourse(samples, 1, []models.ManualWaypointSpec{{DistanceKm: "1", Category: "AID"}})
	if err != nil {
		t.Fatalf("PrepareCourse() error = %v", err)
	}
	if course[1].Category != "AID" || !course[1].IsManual {
		t.Errorf("course[1] = %+v", course[1])
	}

	_, err = PrepareCourse(nil, 1, nil)
	if !errors.Is(err, apperrors.ErrEmptyTrack) {
		t.Errorf("PrepareCourse(nil) error = %v, want ErrEmptyTrack", err)
	}
}
