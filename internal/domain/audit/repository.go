package audit

import "context"

type ActivityLogRepository interface {
	Create(ctx context.Context, l ActivityLog) error
	// ListLatest returns up to limit rows, newest first.
	ListLatest(ctx context.Context, limit int) ([]ActivityLog, error)
}
