package timeentry

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC) // a Wednesday

func at(h, m int) *time.Time {
	t := day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	return &t
}

func TestElapsedMinutes(t *testing.T) {
	partial := day.Add(9*time.Hour + 59*time.Second)

	tests := []struct {
		name       string
		start, end *time.Time
		want       int
	}{
		{"missing start", nil, at(17, 0), 0},
		{"missing end", at(9, 0), nil, 0},
		{"same instant", at(9, 0), at(9, 0), 0},
		{"full day", at(9, 0), at(17, 0), 480},
		{"partial minute floors", at(9, 0), &partial, 0},
		{"crosses midnight", at(23, 30), at(0, 15), 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ElapsedMinutes(tt.start, tt.end))
		})
	}
}

func TestWorkAndBreakMinutes(t *testing.T) {
	t.Run("lunch only", func(t *testing.T) {
		e := TimeEntry{ClockIn: at(9, 0), ClockOut: at(17, 0), LunchStart: at(12, 0), LunchEnd: at(12, 30)}
		work, brk := WorkAndBreakMinutes(e)
		assert.Equal(t, 450, work)
		assert.Equal(t, 30, brk)
		assert.Equal(t, 0, DailyOvertimeMinutes(work, 480))
	})

	t.Run("lunch and dinner", func(t *testing.T) {
		e := TimeEntry{
			ClockIn: at(9, 0), ClockOut: at(21, 0),
			LunchStart: at(12, 0), LunchEnd: at(13, 0),
			DinnerStart: at(18, 0), DinnerEnd: at(18, 30),
		}
		work, brk := WorkAndBreakMinutes(e)
		assert.Equal(t, 630, work)
		assert.Equal(t, 90, brk)
	})

	t.Run("long day overtime", func(t *testing.T) {
		e := TimeEntry{ClockIn: at(9, 0), ClockOut: at(19, 0)}
		work, _ := WorkAndBreakMinutes(e)
		assert.Equal(t, 600, work)
		assert.Equal(t, 120, DailyOvertimeMinutes(work, 480))
	})

	t.Run("break longer than shift clamps to zero", func(t *testing.T) {
		e := TimeEntry{ClockIn: at(9, 0), ClockOut: at(9, 30), LunchStart: at(10, 0), LunchEnd: at(11, 0)}
		work, brk := WorkAndBreakMinutes(e)
		assert.Equal(t, 0, work)
		assert.Equal(t, 60, brk)
	})

	t.Run("open shift counts nothing", func(t *testing.T) {
		work, brk := WorkAndBreakMinutes(TimeEntry{ClockIn: at(9, 0)})
		assert.Equal(t, 0, work)
		assert.Equal(t, 0, brk)
	})
}

func TestSummarizeWeek(t *testing.T) {
	full := func() TimeEntry { return TimeEntry{ClockIn: at(8, 0), ClockOut: at(18, 0)} }
	entries := []TimeEntry{full(), full(), full(), full(), full(), {}}

	totals := SummarizeWeek(entries, 40*60)
	assert.Equal(t, 3000, totals.WorkMinutes)
	assert.Equal(t, 2400, totals.RegularMinutes)
	assert.Equal(t, 600, totals.OvertimeMinutes)
	assert.Equal(t, 5, totals.DaysWorked)

	under := SummarizeWeek(entries[:1], 40*60)
	assert.Equal(t, 600, under.RegularMinutes)
	assert.Equal(t, 0, under.OvertimeMinutes)
}

func TestWeekRange(t *testing.T) {
	monday, sunday := WeekRange(day.Add(15 * time.Hour))
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), monday)
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), sunday)

	m2, s2 := WeekRange(time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, monday, m2)
	assert.Equal(t, sunday, s2)
}

func TestApply(t *testing.T) {
	var e TimeEntry

	assert.ErrorIs(t, e.Apply(ActionClockOut, *at(17, 0)), ErrNotClockedIn)
	assert.ErrorIs(t, e.Apply(ActionLunchEnd, *at(12, 0)), ErrLunchEndBeforeStart)

	require.NoError(t, e.Apply(ActionClockIn, *at(9, 0)))
	assert.ErrorIs(t, e.Apply(ActionClockIn, *at(9, 5)), ErrAlreadyClockedIn)

	require.NoError(t, e.Apply(ActionLunchStart, *at(12, 0)))
	assert.ErrorIs(t, e.Apply(ActionLunchEnd, *at(12, 0)), ErrLunchEndBeforeStart)
	require.NoError(t, e.Apply(ActionLunchEnd, *at(12, 30)))

	require.NoError(t, e.Apply(ActionDinnerStart, *at(18, 0)))
	require.NoError(t, e.Apply(ActionDinnerStart, *at(18, 10)))
	assert.Equal(t, *at(18, 10), *e.DinnerStart)
	require.NoError(t, e.Apply(ActionDinnerEnd, *at(18, 40)))
	assert.Equal(t, 30, ElapsedMinutes(e.DinnerStart, e.DinnerEnd))
	assert.Equal(t, ElapsedMinutes(e.LunchStart, e.LunchEnd)+ElapsedMinutes(e.DinnerStart, e.DinnerEnd), BreakMinutes(e))
	assert.Equal(t, 60, BreakMinutes(e))

	assert.ErrorIs(t, e.Apply(ActionClockOut, *at(9, 0)), ErrClockOutBeforeClockIn)

	approver := "admin"
	e.Status = StatusApproved
	e.ApprovedBy = &approver
	require.NoError(t, e.Apply(ActionClockOut, *at(20, 0)))
	assert.Equal(t, StatusPending, e.Status)
	assert.Nil(t, e.ApprovedBy)

	work, brk := WorkAndBreakMinutes(e)
	assert.Equal(t, ElapsedMinutes(e.ClockIn, e.ClockOut)-brk, work)
	assert.Equal(t, 600, work)
	assert.Equal(t, 60, brk)

	assert.ErrorIs(t, e.Apply(Action("teleport"), *at(20, 0)), ErrUnknownAction)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("lunch_start")
	require.NoError(t, err)
	assert.Equal(t, "LUNCH_START", a.AuditCode())

	_, err = ParseAction("CLOCK_IN")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestValidateOrder(t *testing.T) {
	require.NoError(t, ValidateOrder(TimeEntry{ClockIn: at(9, 0), ClockOut: at(17, 0)}))

	err := ValidateOrder(TimeEntry{
		ClockIn: at(9, 0), ClockOut: at(9, 0),
		LunchStart: at(13, 0), LunchEnd: at(12, 0),
		DinnerStart: at(19, 0), DinnerEnd: at(19, 0),
	})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 3)
	assert.Contains(t, verrs.ToMap(), "clock_out")
	assert.Contains(t, verrs.ToMap(), "lunch_end")
	assert.Contains(t, verrs.ToMap(), "dinner_end")
}

func TestIsStateConflict(t *testing.T) {
	assert.True(t, IsStateConflict(ErrAlreadyClockedIn))
	assert.False(t, IsStateConflict(ErrUnknownAction))
}
