package timeentry

import "time"

// Action is a punch event name as used on the wire.
type Action string

const (
	ActionClockIn     Action = "clock_in"
	ActionLunchStart  Action = "lunch_start"
	ActionLunchEnd    Action = "lunch_end"
	ActionDinnerStart Action = "dinner_start"
	ActionDinnerEnd   Action = "dinner_end"
	ActionClockOut    Action = "clock_out"
)

var actions = map[Action]string{
	ActionClockIn:     "CLOCK_IN",
	ActionLunchStart:  "LUNCH_START",
	ActionLunchEnd:    "LUNCH_END",
	ActionDinnerStart: "DINNER_START",
	ActionDinnerEnd:   "DINNER_END",
	ActionClockOut:    "CLOCK_OUT",
}

func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := actions[a]; !ok {
		return "", ErrUnknownAction
	}
	return a, nil
}

// AuditCode is the activity log code recorded for the action.
func (a Action) AuditCode() string {
	return actions[a]
}

// Apply stamps now onto the entry according to the punch rules.
func (e *TimeEntry) Apply(a Action, now time.Time) error {
	switch a {
	case ActionClockIn:
		if e.ClockIn != nil {
			return ErrAlreadyClockedIn
		}
		e.ClockIn = &now
	case ActionLunchStart:
		e.LunchStart = &now
	case ActionLunchEnd:
		if e.LunchStart == nil || !now.After(*e.LunchStart) {
			return ErrLunchEndBeforeStart
		}
		e.LunchEnd = &now
	case ActionDinnerStart:
		e.DinnerStart = &now
	case ActionDinnerEnd:
		if e.DinnerStart == nil || !now.After(*e.DinnerStart) {
			return ErrDinnerEndBeforeStart
		}
		e.DinnerEnd = &now
	case ActionClockOut:
		if e.ClockIn == nil {
			return ErrNotClockedIn
		}
		if !now.After(*e.ClockIn) {
			return ErrClockOutBeforeClockIn
		}
		e.ClockOut = &now
		e.ResetApproval()
	default:
		return ErrUnknownAction
	}
	return nil
}
