package models

// RunnerProfile holds the persisted simulation inputs for a runner
type RunnerProfile struct {
	StartTime       string `json:"start_time"`       // race start, e.g. "06:00"
	FinishTime      string `json:"finish_time"`      // overall cutoff shown on the FINISH row, e.g. "20:00"
	MarathonTime    string `json:"marathon_time"`    // flat marathon finish time, e.g. "3:30"
	Pace            string `json:"pace"`             // flat base pace per km, e.g. "5:30"
	SkillIndex      string `json:"skill_index"`      // 0-1000, empty when unknown
	SmoothingWindow int    `json:"smoothing_window"` // elevation moving-average window
	RaceDate        string `json:"race_date"`        // YYYY-MM-DD, empty for a fixed reference date
	Timezone        string `json:"timezone"`         // IANA timezone name or "Local"
}
