package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/pace"
	"github.com/julianstephens/trailpace/internal/simulator"
)

func validClock(allowEmpty bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && allowEmpty {
			return nil
		}
		if _, err := time.Parse(constants.TimeFormat, s); err != nil {
			return errors.New("invalid time format (HH:MM)")
		}
		return nil
	}
}

// NewWaypointForm creates the add/edit form for a manual waypoint.
func NewWaypointForm(fm *WaypointFormModel, title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().
				Title("Distance (km)").
				Value(&fm.Distance).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("distance is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Category").
				Placeholder("Aid").
				Value(&fm.Category),
			huh.NewInput().
				Title("Label").
				Value(&fm.Label),
			huh.NewInput().
				Title("Rest (minutes)").
				Value(&fm.Rest),
			huh.NewInput().
				Title("Gate Time (HH:MM)").
				Value(&fm.Gate).
				Validate(validClock(true)),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewProfileForm creates the runner profile form.
func NewProfileForm(fm *ProfileFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start Time (HH:MM)").
				Value(&fm.Start).
				Validate(validClock(false)),
			huh.NewInput().
				Title("Finish Cutoff (HH:MM)").
				Value(&fm.Finish).
				Validate(validClock(true)),
			huh.NewInput().
				Title("Pace (M:SS per km)").
				Value(&fm.Pace).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := pace.ParsePace(s)
					return err
				}),
			huh.NewInput().
				Title("Marathon Time (H:MM)").
				Value(&fm.Marathon).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := pace.FromMarathonTime(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Skill Index (0-%d)", constants.MaxSkillIndex)).
				Value(&fm.Skill).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if math.IsNaN(pace.ParseSkillIndex(s)) {
						return fmt.Errorf("expected a whole number 0-%d", constants.MaxSkillIndex)
					}
					return nil
				}),
			huh.NewInput().
				Title("Smoothing Window").
				Value(&fm.Window).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return errors.New("must be a whole number of at least 1")
					}
					return nil
				}),
			huh.NewInput().
				Title("Race Date (YYYY-MM-DD)").
				Value(&fm.Date).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return errors.New("invalid date format (YYYY-MM-DD)")
					}
					return nil
				}),
			huh.NewInput().
				Title("Timezone").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					_, err := simulator.LoadLocation(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewConfirmationForm creates a yes/no form for a pending action.
func NewConfirmationForm(fm *ConfirmationFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fm.Message).
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirmed),
		),
	).WithTheme(huh.ThemeDracula())
}
