package constants

const (
	// Runner profile settings
	SettingStartTime       = "start_time"
	SettingFinishTime      = "finish_time"
	SettingMarathonTime    = "marathon_time"
	SettingPace            = "pace"
	SettingSkillIndex      = "skill_index"
	SettingSmoothingWindow = "smoothing_window"
	SettingRaceDate        = "race_date"
	SettingTimezone        = "timezone"

	// Default Settings Values
	DefaultStartTime = "06:00"
	DefaultTimezone  = "Local" // Use system local timezone by default
)
