package timeentry

import "time"

// ElapsedMinutes returns whole minutes from start to end. A missing endpoint
// yields 0; an end before start is read as the next calendar day.
func ElapsedMinutes(start, end *time.Time) int {
	if start == nil || end == nil {
		return 0
	}
	e := *end
	if e.Before(*start) {
		e = e.AddDate(0, 0, 1)
	}
	d := e.Sub(*start)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// BreakMinutes is lunch plus dinner.
func BreakMinutes(e TimeEntry) int {
	return ElapsedMinutes(e.LunchStart, e.LunchEnd) + ElapsedMinutes(e.DinnerStart, e.DinnerEnd)
}

// WorkAndBreakMinutes returns worked minutes (clamped at 0) and break minutes.
func WorkAndBreakMinutes(e TimeEntry) (work, brk int) {
	brk = BreakMinutes(e)
	work = ElapsedMinutes(e.ClockIn, e.ClockOut) - brk
	if work < 0 {
		work = 0
	}
	return work, brk
}

// DailyOvertimeMinutes is the work beyond the daily threshold.
func DailyOvertimeMinutes(workMinutes, thresholdMinutes int) int {
	if workMinutes > thresholdMinutes {
		return workMinutes - thresholdMinutes
	}
	return 0
}

// SplitWeekly divides total work into regular and overtime around the weekly threshold.
func SplitWeekly(totalWork, thresholdMinutes int) (regular, overtime int) {
	if thresholdMinutes < 0 {
		thresholdMinutes = 0
	}
	regular = min(totalWork, thresholdMinutes)
	overtime = max(0, totalWork-thresholdMinutes)
	return regular, overtime
}

// WeekTotals aggregates one employee's week.
type WeekTotals struct {
	WorkMinutes     int
	BreakMinutes    int
	RegularMinutes  int
	OvertimeMinutes int
	DaysWorked      int
}

// SummarizeWeek sums the entries that have a clock-in; others are non-working days.
func SummarizeWeek(entries []TimeEntry, weeklyThresholdMinutes int) WeekTotals {
	var t WeekTotals
	for _, e := range entries {
		if e.ClockIn == nil {
			continue
		}
		w, b := WorkAndBreakMinutes(e)
		t.WorkMinutes += w
		t.BreakMinutes += b
		t.DaysWorked++
	}
	t.RegularMinutes, t.OvertimeMinutes = SplitWeekly(t.WorkMinutes, weeklyThresholdMinutes)
	return t
}

// WeekRange returns the Monday and Sunday around day.
func WeekRange(day time.Time) (monday, sunday time.Time) {
	day = DayOf(day)
	offset := (int(day.Weekday()) + 6) % 7
	monday = day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// Hours converts minutes to hours.
func Hours(minutes int) float64 {
	return float64(minutes) / 60
}
