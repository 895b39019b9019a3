package weeklock

import (
	"context"
	"time"
)

// Ledger answers and records week locks.
type Ledger interface {
	IsLocked(ctx context.Context, userID string, day time.Time) (bool, error)
	// EnsureUnlocked returns ErrWeekLocked when day's week is locked for the user.
	EnsureUnlocked(ctx context.Context, userID string, day time.Time) error
	// Lock fires the lock event for the user's week containing day.
	Lock(ctx context.Context, userID string, day time.Time, by string, at time.Time) (WeekApproval, error)
	// LockedUsers returns the set of users whose week starting at weekStart is locked.
	LockedUsers(ctx context.Context, weekStart time.Time) (map[string]bool, error)
}
