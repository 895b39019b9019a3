package roster

import (
	"slices"
	"time"
)

// Days lists the roster weekdays, Monday first.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayIndex orders day names Monday first; unknown names sort last.
func DayIndex(day string) int {
	if i := slices.Index(Days, day); i >= 0 {
		return i
	}
	return len(Days)
}

func IsValidDay(day string) bool {
	return slices.Contains(Days, day)
}

// Roster is a planned shift. A nil WeekStart marks a template row that
// applies to every week.
type Roster struct {
	ID        string
	UserID    string
	DayOfWeek string
	StartTime *string
	EndTime   *string
	WeekStart *time.Time
	WeekEnd   *time.Time
	IsOff     bool
	Notes     *string
	RoleTitle *string

	// Joined fields
	UserName string
}

// SetOff marks the day off and drops its times.
func (r *Roster) SetOff(off bool) {
	r.IsOff = off
	if off {
		r.StartTime = nil
		r.EndTime = nil
	}
}

// SortByDay orders rows Monday first, week-specific rows before templates.
func SortByDay(rows []Roster) {
	slices.SortStableFunc(rows, func(a, b Roster) int {
		if d := DayIndex(a.DayOfWeek) - DayIndex(b.DayOfWeek); d != 0 {
			return d
		}
		switch {
		case a.WeekStart != nil && b.WeekStart == nil:
			return -1
		case a.WeekStart == nil && b.WeekStart != nil:
			return 1
		}
		return 0
	})
}
