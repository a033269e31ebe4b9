package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/trailpace/internal/constants"
	apperrors "github.com/julianstephens/trailpace/internal/errors"
	"github.com/julianstephens/trailpace/internal/models"
	"github.com/julianstephens/trailpace/internal/pace"
	"github.com/julianstephens/trailpace/internal/simulator"
)

// RunFlags override the stored runner profile for a single command.
type RunFlags struct {
	Start    string `help:"Race start time (HH:MM)."`
	Finish   string `help:"Overall cutoff shown on the finish row (HH:MM)."`
	Pace     string `help:"Flat base pace per km (M:SS)."`
	Marathon string `help:"Flat marathon finish time (H:MM), used when no pace is set."`
	Skill    string `help:"Skill index 0-1000."`
	Window   int    `help:"Elevation smoothing window."`
	Date     string `help:"Race date (YYYY-MM-DD)."`
	Timezone string `help:"IANA timezone or 'Local'."`
}

func (f RunFlags) apply(profile models.RunnerProfile) models.RunnerProfile {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&profile.StartTime, f.Start)
	set(&profile.FinishTime, f.Finish)
	set(&profile.SkillIndex, f.Skill)
	set(&profile.RaceDate, f.Date)
	set(&profile.Timezone, f.Timezone)
	if f.Pace != "" || f.Marathon != "" {
		profile.Pace = f.Pace
		profile.MarathonTime = f.Marathon
	}
	if f.Window > 0 {
		profile.SmoothingWindow = f.Window
	}
	return profile
}

// runnerProfile loads the stored profile, fills config defaults and applies
// the command's overrides.
func (c *Context) runnerProfile(flags RunFlags) (models.RunnerProfile, error) {
	profile, err := c.Store.GetProfile()
	if err != nil {
		return models.RunnerProfile{}, fmt.Errorf("failed to get runner profile: %w", err)
	}
	if profile.Timezone == "" {
		profile.Timezone = c.Config.Timezone
	}
	if profile.SmoothingWindow < 1 {
		profile.SmoothingWindow = c.Config.SmoothingWindow
	}
	return flags.apply(profile), nil
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to get runner profile: %w", err)
	}

	basePace := "-"
	if in, err := simulator.InputFromProfile(profile, nil); err == nil && in.Pace != "" {
		basePace = in.Pace + " /km"
	}

	ctx.println("Runner Profile:")
	ctx.printf("  Start Time:        %s\n", orDash(profile.StartTime))
	ctx.printf("  Finish Cutoff:     %s\n", orDash(profile.FinishTime))
	ctx.printf("  Pace:              %s\n", orDash(profile.Pace))
	ctx.printf("  Marathon Time:     %s\n", orDash(profile.MarathonTime))
	ctx.printf("  Base Pace:         %s\n", basePace)
	ctx.printf("  Skill Index:       %s\n", orDash(profile.SkillIndex))
	ctx.printf("  Smoothing Window:  %d\n", profile.SmoothingWindow)
	ctx.printf("  Race Date:         %s\n", orDash(profile.RaceDate))
	ctx.printf("  Timezone:          %s\n", orDash(profile.Timezone))
	return nil
}

type ProfileSetCmd struct {
	Start    *string `help:"Race start time (HH:MM)."`
	Finish   *string `help:"Overall cutoff (HH:MM), empty to clear."`
	Pace     *string `help:"Flat base pace per km (M:SS), empty to clear."`
	Marathon *string `help:"Flat marathon finish time (H:MM), empty to clear."`
	Skill    *string `help:"Skill index 0-1000, empty to clear."`
	Window   *int    `help:"Elevation smoothing window (>= 1)."`
	Date     *string `help:"Race date (YYYY-MM-DD), empty to clear."`
	Timezone *string `help:"IANA timezone or 'Local'."`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to get runner profile: %w", err)
	}

	updated := false
	if c.Start != nil {
		if err := checkClock("start time", *c.Start, false); err != nil {
			return err
		}
		profile.StartTime = strings.TrimSpace(*c.Start)
		updated = true
	}
	if c.Finish != nil {
		if err := checkClock("finish time", *c.Finish, true); err != nil {
			return err
		}
		profile.FinishTime = strings.TrimSpace(*c.Finish)
		updated = true
	}
	if c.Pace != nil {
		if v := strings.TrimSpace(*c.Pace); v != "" {
			if _, err := pace.ParsePace(v); err != nil {
				return err
			}
		}
		profile.Pace = strings.TrimSpace(*c.Pace)
		updated = true
	}
	if c.Marathon != nil {
		if v := strings.TrimSpace(*c.Marathon); v != "" {
			if _, err := pace.FromMarathonTime(v); err != nil {
				return err
			}
		}
		profile.MarathonTime = strings.TrimSpace(*c.Marathon)
		updated = true
	}
	if c.Skill != nil {
		v := strings.TrimSpace(*c.Skill)
		if v != "" && math.IsNaN(pace.ParseSkillIndex(v)) {
			return &apperrors.ValidationError{Field: "skill index", Value: v, Reason: fmt.Sprintf("expected a whole number 0-%d", constants.MaxSkillIndex)}
		}
		profile.SkillIndex = v
		updated = true
	}
	if c.Window != nil {
		if *c.Window < 1 {
			return &apperrors.ValidationError{Field: "smoothing window", Value: fmt.Sprint(*c.Window), Reason: "must be at least 1"}
		}
		profile.SmoothingWindow = *c.Window
		updated = true
	}
	if c.Date != nil {
		v := strings.TrimSpace(*c.Date)
		if v != "" {
			if _, err := time.Parse(constants.DateFormat, v); err != nil {
				return &apperrors.ValidationError{Field: "race date", Value: v, Reason: "expected YYYY-MM-DD"}
			}
		}
		profile.RaceDate = v
		updated = true
	}
	if c.Timezone != nil {
		if _, err := simulator.LoadLocation(*c.Timezone); err != nil {
			return err
		}
		profile.Timezone = strings.TrimSpace(*c.Timezone)
		updated = true
	}

	if !updated {
		ctx.println("No changes specified. Use 'trailpace profile show' to view the profile or flags to update it.")
		return nil
	}
	if err := ctx.Store.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to save runner profile: %w", err)
	}
	ctx.println("Runner profile updated successfully.")
	return nil
}

func checkClock(field, value string, allowEmpty bool) error {
	v := strings.TrimSpace(value)
	if v == "" && allowEmpty {
		return nil
	}
	if _, err := time.Parse(constants.TimeFormat, v); err != nil {
		return &apperrors.ValidationError{Field: field, Value: value, Reason: "expected HH:MM with hour 0-23 and minute 0-59"}
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
