package timesheet

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type TimesheetService interface {
	// ListPending returns complete entries whose status is not approved.
	ListPending(ctx context.Context, actor user.Actor) ([]PendingTimesheet, error)
	// Review approves or rejects one entry, optionally locking its week on approval.
	Review(ctx context.Context, actor user.Actor, req ReviewRequest) (ReviewResponse, error)
}
