package roster

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

type RosterResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name,omitempty"`
	DayOfWeek string  `json:"day_of_week"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	WeekStart *string `json:"week_start,omitempty"`
	WeekEnd   *string `json:"week_end,omitempty"`
	IsOff     bool    `json:"is_off"`
	Notes     *string `json:"notes,omitempty"`
	RoleTitle *string `json:"role_title,omitempty"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func ToResponse(r Roster) RosterResponse {
	return RosterResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		DayOfWeek: r.DayOfWeek,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		WeekStart: formatDate(r.WeekStart),
		WeekEnd:   formatDate(r.WeekEnd),
		IsOff:     r.IsOff,
		Notes:     r.Notes,
		RoleTitle: r.RoleTitle,
	}
}

func ToResponses(rows []Roster) []RosterResponse {
	out := make([]RosterResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToResponse(r))
	}
	return out
}

func validateShift(errs *validator.ValidationErrors, day, start, end string) {
	if !IsValidDay(day) {
		errs.Add("day_of_week", ErrInvalidDay.Error())
	}
	if start != "" && !validator.IsValidClock(start) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if end != "" && !validator.IsValidClock(end) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
}

// SetShiftRequest sets one user's shift for a weekday of the current week.
type SetShiftRequest struct {
	UserID    string `json:"user_id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r *SetShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	validateShift(&errs, r.DayOfWeek, r.StartTime, r.EndTime)

	return errs.OrNil()
}

// SetShiftForAllRequest writes a template shift for every active user.
type SetShiftForAllRequest struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func (r *SetShiftForAllRequest) Validate() error {
	var errs validator.ValidationErrors

	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	validateShift(&errs, r.DayOfWeek, r.StartTime, r.EndTime)

	return errs.OrNil()
}

type BoardCell struct {
	UserID    string  `json:"user_id"`
	DayOfWeek string  `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	IsOff     bool    `json:"is_off"`
	Notes     *string `json:"notes,omitempty"`
}

// BulkWeekRequest replaces the weekly board for active staff.
type BulkWeekRequest struct {
	WeekStart string      `json:"week_start"`
	Cells     []BoardCell `json:"cells"`

	Start time.Time `json:"-"`
}

func (r *BulkWeekRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WeekStart != "" {
		if d, ok := validator.IsValidDate(r.WeekStart); !ok {
			errs.Add("week_start", "week_start must be in YYYY-MM-DD format")
		} else {
			r.Start = d
		}
	}
	for i := range r.Cells {
		c := &r.Cells[i]
		if validator.IsEmpty(c.UserID) {
			errs.Add("cells.user_id", "user_id is required")
		}
		c.StartTime = strings.TrimSpace(c.StartTime)
		c.EndTime = strings.TrimSpace(c.EndTime)
		validateShift(&errs, c.DayOfWeek, c.StartTime, c.EndTime)
	}

	return errs.OrNil()
}

type BoardResponse struct {
	WeekStart string           `json:"week_start"`
	WeekEnd   string           `json:"week_end"`
	Days      []string         `json:"days"`
	Staff     []BoardStaff     `json:"staff"`
	Entries   []RosterResponse `json:"entries"`
}

type BoardStaff struct {
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Position *string `json:"position,omitempty"`
}
