package timeentry

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

// ========================================
// RESPONSES
// ========================================

type EntryResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	UserName     string  `json:"user_name,omitempty"`
	Date         string  `json:"date"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	LunchStart   *string `json:"lunch_start,omitempty"`
	LunchEnd     *string `json:"lunch_end,omitempty"`
	DinnerStart  *string `json:"dinner_start,omitempty"`
	DinnerEnd    *string `json:"dinner_end,omitempty"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	ShiftNotes   *string `json:"shift_notes,omitempty"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	WorkMinutes  int     `json:"work_minutes"`
	BreakMinutes int     `json:"break_minutes"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func ToResponse(e TimeEntry) EntryResponse {
	work, brk := WorkAndBreakMinutes(e)
	return EntryResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		UserName:     e.UserName,
		Date:         e.Day.Format("2006-01-02"),
		ClockIn:      formatTime(e.ClockIn),
		ClockOut:     formatTime(e.ClockOut),
		LunchStart:   formatTime(e.LunchStart),
		LunchEnd:     formatTime(e.LunchEnd),
		DinnerStart:  formatTime(e.DinnerStart),
		DinnerEnd:    formatTime(e.DinnerEnd),
		Status:       string(e.Status),
		Notes:        e.Notes,
		ShiftNotes:   e.ShiftNotes,
		ApprovedBy:   e.ApprovedBy,
		ApprovedAt:   formatTime(e.ApprovedAt),
		WorkMinutes:  work,
		BreakMinutes: brk,
	}
}

type TodayResponse struct {
	Entry     EntryResponse `json:"entry"`
	WorkHours float64       `json:"work_hours"`
	IsLocked  bool          `json:"is_locked"`
}

type WeekResponse struct {
	WeekStart       string          `json:"week_start"`
	WeekEnd         string          `json:"week_end"`
	Entries         []EntryResponse `json:"entries"`
	WorkHours       float64         `json:"work_hours"`
	BreakHours      float64         `json:"break_hours"`
	TargetHours     float64         `json:"target_hours"`
	RemainingHours  float64         `json:"remaining_hours"`
	WeeklyHourLimit *float64        `json:"weekly_hour_limit,omitempty"`
	LimitRemaining  *float64        `json:"limit_remaining_hours,omitempty"`
	OverLimit       bool            `json:"over_limit"`
	IsLocked        bool            `json:"is_locked"`
}

type CalendarDay struct {
	Date         string  `json:"date"`
	WorkHours    float64 `json:"work_hours"`
	BreakMinutes int     `json:"break_minutes"`
	Status       string  `json:"status"`
}

type CalendarResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// ========================================
// REQUESTS
// ========================================

type SaveNotesRequest struct {
	ShiftNotes string `json:"shift_notes"`
}

func (r *SaveNotesRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ShiftNotes = strings.TrimSpace(r.ShiftNotes)
	if len(r.ShiftNotes) > 2000 {
		errs.Add("shift_notes", "shift_notes must not exceed 2000 characters")
	}

	return errs.OrNil()
}

// EditEntryRequest sets punch times for a user's day from HH:MM values.
// Blank fields leave the stored punch unchanged.
type EditEntryRequest struct {
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	ClockIn     string  `json:"clock_in"`
	ClockOut    string  `json:"clock_out"`
	LunchStart  string  `json:"lunch_start"`
	LunchEnd    string  `json:"lunch_end"`
	DinnerStart string  `json:"dinner_start"`
	DinnerEnd   string  `json:"dinner_end"`
	Notes       *string `json:"notes,omitempty"`

	Day time.Time `json:"-"`
}

func (r *EditEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	if day, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.Day = day
	}

	for _, c := range r.clocks() {
		if *c.value = strings.TrimSpace(*c.value); *c.value != "" && !validator.IsValidClock(*c.value) {
			errs.Add(c.field, c.field+" must be in HH:MM format")
		}
	}

	return errs.OrNil()
}

type clockField struct {
	field string
	value *string
}

func (r *EditEntryRequest) clocks() []clockField {
	return []clockField{
		{"clock_in", &r.ClockIn},
		{"clock_out", &r.ClockOut},
		{"lunch_start", &r.LunchStart},
		{"lunch_end", &r.LunchEnd},
		{"dinner_start", &r.DinnerStart},
		{"dinner_end", &r.DinnerEnd},
	}
}

// ApplyTo overwrites the punches of e named by non-blank request fields.
func (r EditEntryRequest) ApplyTo(e *TimeEntry) {
	day := *e
	set := func(dst **time.Time, hhmm string) {
		if t := clockOn(day, hhmm); t != nil {
			*dst = t
		}
	}
	set(&e.ClockIn, r.ClockIn)
	set(&e.ClockOut, r.ClockOut)
	set(&e.LunchStart, r.LunchStart)
	set(&e.LunchEnd, r.LunchEnd)
	set(&e.DinnerStart, r.DinnerStart)
	set(&e.DinnerEnd, r.DinnerEnd)
	if r.Notes != nil {
		e.Notes = r.Notes
	}
}

// ClockOn parses an HH:MM value onto the entry's day; blank or invalid gives nil.
func ClockOn(e TimeEntry, hhmm string) *time.Time {
	return clockOn(e, hhmm)
}

func clockOn(e TimeEntry, hhmm string) *time.Time {
	h, m, ok := validator.ParseClock(hhmm)
	if !ok {
		return nil
	}
	t := e.At(h, m)
	return &t
}

type ResetWeekRequest struct {
	UserID string `json:"user_id"`
}

func (r *ResetWeekRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	}
	return errs.OrNil()
}
