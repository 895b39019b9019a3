package weeklock

import "errors"

var (
	ErrWeekLocked        = errors.New("this week is locked and can no longer be changed")
	ErrInvalidTransition = errors.New("week lock transition not allowed")
)
