package weeklock

import (
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
)

type State string

const (
	StateUnlocked State = "unlocked"
	StateLocked   State = "locked"
)

type Event string

const (
	EventLock   Event = "lock"
	EventUnlock Event = "unlock"
)

// transitions lists every allowed (state, event) pair. Unlock has no entry:
// a locked week stays locked.
var transitions = map[State]map[Event]State{
	StateUnlocked: {EventLock: StateLocked},
	StateLocked:   {EventLock: StateLocked},
}

// Next returns the state reached by firing ev from s.
func Next(s State, ev Event) (State, error) {
	next, ok := transitions[s][ev]
	if !ok {
		return s, ErrInvalidTransition
	}
	return next, nil
}

// WeekApproval is the lock record of one employee's Monday-Sunday week.
type WeekApproval struct {
	ID         string
	UserID     string
	WeekStart  time.Time
	WeekEnd    time.Time
	State      State
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (w WeekApproval) IsLocked() bool {
	return w.State == StateLocked
}

// Week identifies a Monday-Sunday period.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the week containing day.
func WeekOf(day time.Time) Week {
	start, end := timeentry.WeekRange(day)
	return Week{Start: start, End: end}
}

// Contains reports whether day falls inside the week.
func (w Week) Contains(day time.Time) bool {
	d := timeentry.DayOf(day)
	return !d.Before(w.Start) && !d.After(w.End)
}
