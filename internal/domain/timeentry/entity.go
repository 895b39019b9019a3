package timeentry

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// TimeEntry is one employee's record for one calendar day.
type TimeEntry struct {
	ID          string
	UserID      string
	Day         time.Time
	ClockIn     *time.Time
	ClockOut    *time.Time
	LunchStart  *time.Time
	LunchEnd    *time.Time
	DinnerStart *time.Time
	DinnerEnd   *time.Time
	Status      Status
	Notes       *string
	ShiftNotes  *string
	ApprovedBy  *string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	UserName string
}

// DayOf truncates t to midnight in its own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CivilDay returns t's calendar date as midnight in loc.
func CivilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay compares calendar dates, ignoring location.
func SameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// At combines the entry's date with a wall-clock hour and minute.
func (e TimeEntry) At(hour, minute int) time.Time {
	y, m, d := e.Day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, e.Day.Location())
}

// ClearPunches removes all six punch timestamps.
func (e *TimeEntry) ClearPunches() {
	e.ClockIn = nil
	e.ClockOut = nil
	e.LunchStart = nil
	e.LunchEnd = nil
	e.DinnerStart = nil
	e.DinnerEnd = nil
}

// ResetApproval puts the entry back in the review queue.
func (e *TimeEntry) ResetApproval() {
	e.Status = StatusPending
	e.ApprovedBy = nil
	e.ApprovedAt = nil
}

// IsComplete reports whether the entry has both clock-in and clock-out.
func (e TimeEntry) IsComplete() bool {
	return e.ClockIn != nil && e.ClockOut != nil
}
