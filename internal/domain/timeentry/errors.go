package timeentry

import "errors"

var (
	ErrTimeEntryNotFound     = errors.New("time entry not found")
	ErrUnknownAction         = errors.New("unknown punch action")
	ErrAlreadyClockedIn      = errors.New("already clocked in today")
	ErrNotClockedIn          = errors.New("not clocked in")
	ErrClockOutBeforeClockIn = errors.New("clock out must be after clock in")
	ErrLunchEndBeforeStart   = errors.New("lunch end requires a lunch start before it")
	ErrDinnerEndBeforeStart  = errors.New("dinner end requires a dinner start before it")
	ErrNotComplete           = errors.New("time entry needs both clock in and clock out")
)

// IsStateConflict reports punch errors caused by the entry's current state.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn) ||
		errors.Is(err, ErrClockOutBeforeClockIn) ||
		errors.Is(err, ErrLunchEndBeforeStart) ||
		errors.Is(err, ErrDinnerEndBeforeStart) ||
		errors.Is(err, ErrNotComplete)
}
