package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTrack is matched by every *EmptyTrackError via errors.Is.
var ErrEmptyTrack = errors.New("track contains no points")

// EmptyTrackError is returned when a track has zero samples.
type EmptyTrackError struct {
	Source string
}

func (e *EmptyTrackError) Error() string {
	if e.Source == "" {
		return ErrEmptyTrack.Error()
	}
	return fmt.Sprintf("%s: %s", e.Source, ErrEmptyTrack)
}

func (e *EmptyTrackError) Is(target error) bool {
	return target == ErrEmptyTrack
}

// ValidationError reports a malformed simulation input.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// MissingInputError reports required simulation inputs that were not supplied.
type MissingInputError struct {
	Fields []string
}

func (e *MissingInputError) Error() string {
	return "missing required input: " + strings.Join(e.Fields, ", ")
}

// IsInputError reports whether err is a validation or missing-input failure.
func IsInputError(err error) bool {
	var ve *ValidationError
	var me *MissingInputError
	return errors.As(err, &ve) || errors.As(err, &me)
}
