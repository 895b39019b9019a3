package settings

import (
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
)

// Settings is the process-wide singleton of working-time rules.
type Settings struct {
	ID                     int
	WorkingHoursPerDay     float64
	LunchBreakMinutes      int
	DinnerBreakMinutes     int
	WeeklyTargetHours      float64
	SessionTimeoutMinutes  int
	OvertimeThresholdHours float64
	OvertimeMultiplier     float64
	UpdatedAt              time.Time
}

// SingletonID is the primary key of the only settings row.
const SingletonID = 1

// FromDefaults builds the initial settings row from configuration.
func FromDefaults(d config.SettingsDefaults) Settings {
	return Settings{
		ID:                     SingletonID,
		WorkingHoursPerDay:     d.WorkingHoursPerDay,
		LunchBreakMinutes:      d.LunchBreakMinutes,
		DinnerBreakMinutes:     d.DinnerBreakMinutes,
		WeeklyTargetHours:      d.WeeklyTargetHours,
		SessionTimeoutMinutes:  d.SessionTimeoutMinutes,
		OvertimeThresholdHours: d.OvertimeThresholdHours,
		OvertimeMultiplier:     d.OvertimeMultiplier,
	}
}

// DailyThresholdMinutes is the per-day work allowance before daily overtime.
func (s Settings) DailyThresholdMinutes() int {
	return int(s.WorkingHoursPerDay * 60)
}

// WeeklyThresholdMinutes is the per-week allowance before weekly overtime.
func (s Settings) WeeklyThresholdMinutes() int {
	return int(s.OvertimeThresholdHours * 60)
}

// WeeklyTargetMinutes is the expected work per week.
func (s Settings) WeeklyTargetMinutes() int {
	return int(s.WeeklyTargetHours * 60)
}
