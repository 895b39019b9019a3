package roster

import "errors"

var (
	ErrRosterNotFound = errors.New("roster entry not found")
	ErrInvalidDay     = errors.New("day_of_week must be a weekday name")
)
