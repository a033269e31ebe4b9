package models

import (
	"fmt"

	"github.com/julianstephens/trailpace/internal/constants"
)

// MapToProfile converts a map of key-value pairs to a RunnerProfile.
func MapToProfile(data map[string]string) (RunnerProfile, error) {
	profile := RunnerProfile{}

	for key, value := range data {
		switch key {
		case constants.SettingStartTime:
			profile.StartTime = value
		case constants.SettingFinishTime:
			profile.FinishTime = value
		case constants.SettingMarathonTime:
			profile.MarathonTime = value
		case constants.SettingPace:
			profile.Pace = value
		case constants.SettingSkillIndex:
			profile.SkillIndex = value
		case constants.SettingSmoothingWindow:
			if value == "" {
				continue
			}
			if _, err := fmt.Sscanf(value, "%d", &profile.SmoothingWindow); err != nil {
				return RunnerProfile{}, fmt.Errorf("parsing smoothing_window: %w", err)
			}
		case constants.SettingRaceDate:
			profile.RaceDate = value
		case constants.SettingTimezone:
			profile.Timezone = value
		}
	}
	return profile, nil
}

// ProfileToMap converts a RunnerProfile to a map of key-value pairs.
func ProfileToMap(profile RunnerProfile) map[string]string {
	return map[string]string{
		constants.SettingStartTime:       profile.StartTime,
		constants.SettingFinishTime:      profile.FinishTime,
		constants.SettingMarathonTime:    profile.MarathonTime,
		constants.SettingPace:            profile.Pace,
		constants.SettingSkillIndex:      profile.SkillIndex,
		constants.SettingSmoothingWindow: fmt.Sprintf("%d", profile.SmoothingWindow),
		constants.SettingRaceDate:        profile.RaceDate,
		constants.SettingTimezone:        profile.Timezone,
	}
}

// ApplyDefaultProfile applies default values to missing profile fields.
func ApplyDefaultProfile(profile *RunnerProfile) {
	if profile.StartTime == "" {
		profile.StartTime = constants.DefaultStartTime
	}
	if profile.SmoothingWindow < 1 {
		profile.SmoothingWindow = constants.DefaultSmoothingWindow
	}
	if profile.Timezone == "" {
		profile.Timezone = constants.DefaultTimezone
	}
}
