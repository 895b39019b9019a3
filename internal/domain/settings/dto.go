package settings

import (
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

type SettingsResponse struct {
	WorkingHoursPerDay     float64 `json:"working_hours_per_day"`
	LunchBreakMinutes      int     `json:"lunch_break_minutes"`
	DinnerBreakMinutes     int     `json:"dinner_break_minutes"`
	WeeklyTargetHours      float64 `json:"weekly_target_hours"`
	SessionTimeoutMinutes  int     `json:"session_timeout_minutes"`
	OvertimeThresholdHours float64 `json:"overtime_threshold_hours"`
	OvertimeMultiplier     float64 `json:"overtime_multiplier"`
	UpdatedAt              string  `json:"updated_at,omitempty"`
}

func ToResponse(s Settings) SettingsResponse {
	resp := SettingsResponse{
		WorkingHoursPerDay:     s.WorkingHoursPerDay,
		LunchBreakMinutes:      s.LunchBreakMinutes,
		DinnerBreakMinutes:     s.DinnerBreakMinutes,
		WeeklyTargetHours:      s.WeeklyTargetHours,
		SessionTimeoutMinutes:  s.SessionTimeoutMinutes,
		OvertimeThresholdHours: s.OvertimeThresholdHours,
		OvertimeMultiplier:     s.OvertimeMultiplier,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// UpdateSettingsRequest is a partial update; nil fields keep their value.
type UpdateSettingsRequest struct {
	WorkingHoursPerDay     *float64 `json:"working_hours_per_day,omitempty"`
	LunchBreakMinutes      *int     `json:"lunch_break_minutes,omitempty"`
	DinnerBreakMinutes     *int     `json:"dinner_break_minutes,omitempty"`
	WeeklyTargetHours      *float64 `json:"weekly_target_hours,omitempty"`
	SessionTimeoutMinutes  *int     `json:"session_timeout_minutes,omitempty"`
	OvertimeThresholdHours *float64 `json:"overtime_threshold_hours,omitempty"`
	OvertimeMultiplier     *float64 `json:"overtime_multiplier,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkingHoursPerDay != nil && (*r.WorkingHoursPerDay <= 0 || *r.WorkingHoursPerDay > 24) {
		errs.Add("working_hours_per_day", "working_hours_per_day must be between 0 and 24")
	}
	if r.LunchBreakMinutes != nil && (*r.LunchBreakMinutes < 0 || *r.LunchBreakMinutes > 480) {
		errs.Add("lunch_break_minutes", "lunch_break_minutes must be between 0 and 480")
	}
	if r.DinnerBreakMinutes != nil && (*r.DinnerBreakMinutes < 0 || *r.DinnerBreakMinutes > 480) {
		errs.Add("dinner_break_minutes", "dinner_break_minutes must be between 0 and 480")
	}
	if r.WeeklyTargetHours != nil && (*r.WeeklyTargetHours < 0 || *r.WeeklyTargetHours > 168) {
		errs.Add("weekly_target_hours", "weekly_target_hours must be between 0 and 168")
	}
	if r.SessionTimeoutMinutes != nil && *r.SessionTimeoutMinutes <= 0 {
		errs.Add("session_timeout_minutes", "session_timeout_minutes must be positive")
	}
	if r.OvertimeThresholdHours != nil && (*r.OvertimeThresholdHours < 0 || *r.OvertimeThresholdHours > 168) {
		errs.Add("overtime_threshold_hours", "overtime_threshold_hours must be between 0 and 168")
	}
	if r.OvertimeMultiplier != nil && *r.OvertimeMultiplier < 1 {
		errs.Add("overtime_multiplier", "overtime_multiplier must be at least 1")
	}

	return errs.OrNil()
}

// Apply copies the provided fields onto s.
func (r UpdateSettingsRequest) Apply(s *Settings) {
	if r.WorkingHoursPerDay != nil {
		s.WorkingHoursPerDay = *r.WorkingHoursPerDay
	}
	if r.LunchBreakMinutes != nil {
		s.LunchBreakMinutes = *r.LunchBreakMinutes
	}
	if r.DinnerBreakMinutes != nil {
		s.DinnerBreakMinutes = *r.DinnerBreakMinutes
	}
	if r.WeeklyTargetHours != nil {
		s.WeeklyTargetHours = *r.WeeklyTargetHours
	}
	if r.SessionTimeoutMinutes != nil {
		s.SessionTimeoutMinutes = *r.SessionTimeoutMinutes
	}
	if r.OvertimeThresholdHours != nil {
		s.OvertimeThresholdHours = *r.OvertimeThresholdHours
	}
	if r.OvertimeMultiplier != nil {
		s.OvertimeMultiplier = *r.OvertimeMultiplier
	}
}
