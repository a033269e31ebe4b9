package simulator

import (
	"strings"
	"time"

	"github.com/julianstephens/trailpace/internal/constants"
	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/pace"
)

// InputFromProfile builds a run input for course from a stored runner
// profile. An explicit pace wins over one derived from the marathon time.
// Missing start time or pace are left empty so Run reports them.
func InputFromProfile(profile models.RunnerProfile, course []models.Waypoint) (Input, error) {
	in := Input{
		Waypoints:  course,
		StartTime:  profile.StartTime,
		FinishTime: profile.FinishTime,
		Pace:       profile.Pace,
		SkillIndex: profile.SkillIndex,
	}

	if strings.TrimSpace(in.Pace) == "" && strings.TrimSpace(profile.MarathonTime) != "" {
		p, err := pace.FromMarathonTime(profile.MarathonTime)
		if err != nil {
			return Input{}, err
		}
		in.Pace = p.String()
	}

	if profile.RaceDate != "" {
		d, err := time.Parse(constants.DateFormat, strings.TrimSpace(profile.RaceDate))
		if err != nil {
			return Input{}, &apperrors.ValidationError{Field: "race date", Value: profile.RaceDate, Reason: "expected YYYY-MM-DD"}
		}
		in.RaceDate = d
	}

	loc, err := LoadLocation(profile.Timezone)
	if err != nil {
		return Input{}, err
	}
	in.Location = loc

	return in, nil
}

// LoadLocation resolves a timezone setting. Empty means UTC and "Local" the
// machine's zone.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(strings.TrimSpace(name))
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "timezone", Value: name, Reason: "unknown IANA zone"}
	}
	return loc, nil
}
