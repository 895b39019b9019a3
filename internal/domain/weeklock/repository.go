package weeklock

import (
	"context"
	"time"
)

type WeekApprovalRepository interface {
	// GetByUserWeek returns nil when no row exists for the week.
	GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (*WeekApproval, error)
	// Upsert inserts or replaces the row keyed by (user, week start).
	Upsert(ctx context.Context, w WeekApproval) (WeekApproval, error)
	ListByWeek(ctx context.Context, weekStart time.Time) ([]WeekApproval, error)
	DeleteByUser(ctx context.Context, userID string) error
}
