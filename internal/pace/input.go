package pace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/trailpace/internal/constants"
	apperrors "github.com/julianstephens/trailpace/internal/errors"
)

// Pace is a flat running pace in minutes and seconds per kilometer.
type Pace struct {
	Minutes int
	Seconds int
}

// SecondsPerKm returns the pace as seconds per kilometer.
func (p Pace) SecondsPerKm() float64 {
	return float64(p.Minutes*60 + p.Seconds)
}

// String formats the pace as "m:ss".
func (p Pace) String() string {
	return fmt.Sprintf("%d:%02d", p.Minutes, p.Seconds)
}

// FromSeconds converts seconds per km into minutes and rounded seconds.
func FromSeconds(secPerKm float64) Pace {
	m := int(math.Floor(secPerKm / 60))
	s := int(math.Round(secPerKm - float64(m)*60))
	if s == 60 {
		m++
		s = 0
	}
	return Pace{Minutes: m, Seconds: s}
}

// ParsePace parses "M:SS" where both parts are 0-59.
func ParsePace(s string) (Pace, error) {
	m, sec, err := splitClock(s, "pace", "M:SS")
	if err != nil {
		return Pace{}, err
	}
	if m < 0 || m > 59 {
		return Pace{}, &apperrors.ValidationError{Field: "pace", Value: s, Reason: "minutes must be 0-59"}
	}
	if sec < 0 || sec > 59 {
		return Pace{}, &apperrors.ValidationError{Field: "pace", Value: s, Reason: "seconds must be 0-59"}
	}
	return Pace{Minutes: m, Seconds: sec}, nil
}

// FromMarathonTime derives the flat per-km pace from a marathon finish time
// given as "H:MM".
func FromMarathonTime(s string) (Pace, error) {
	h, m, err := splitClock(s, "marathon time", "H:MM")
	if err != nil {
		return Pace{}, err
	}
	if h < 0 || m < 0 || m > 59 {
		return Pace{}, &apperrors.ValidationError{Field: "marathon time", Value: s, Reason: "expected H:MM with minutes 0-59"}
	}
	total := h*60 + m
	if total == 0 {
		return Pace{}, &apperrors.ValidationError{Field: "marathon time", Value: s, Reason: "must be greater than zero"}
	}

	minPerKm := float64(total) / constants.MarathonDistanceKm
	return FromSeconds(minPerKm * 60), nil
}

// ParseSkillIndex returns the numeric skill index, or NaN when s is empty,
// contains anything but digits, or exceeds MaxSkillIndex.
func ParseSkillIndex(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return math.NaN()
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > constants.MaxSkillIndex {
		return math.NaN()
	}
	return float64(v)
}

func splitClock(s, field, format string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || parts[0] == "" || len(parts[1]) != 2 {
		return 0, 0, &apperrors.ValidationError{Field: field, Value: s, Reason: "expected format " + format}
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, &apperrors.ValidationError{Field: field, Value: s, Reason: "not a number"}
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, &apperrors.ValidationError{Field: field, Value: s, Reason: "not a number"}
	}
	return a, b, nil
}
