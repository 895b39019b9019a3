package timeentry

import (
	"context"
	"time"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, e TimeEntry) (TimeEntry, error)
	GetByID(ctx context.Context, id string) (TimeEntry, error)
	// GetByUserAndDay returns nil when the user has no entry for day.
	GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*TimeEntry, error)
	Update(ctx context.Context, e TimeEntry) error
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]TimeEntry, error)
	ListByDay(ctx context.Context, day time.Time) ([]TimeEntry, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]TimeEntry, error)
	// ListPendingReview returns complete entries not yet approved, newest first.
	ListPendingReview(ctx context.Context) ([]TimeEntry, error)
	DeleteByUserRange(ctx context.Context, userID string, from, to time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
