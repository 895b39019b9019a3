package roster

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type RosterService interface {
	// MyWeek returns the actor's rows for the current week and template rows, Monday first.
	MyWeek(ctx context.Context, actor user.Actor) ([]RosterResponse, error)
	SetShift(ctx context.Context, actor user.Actor, req SetShiftRequest) (RosterResponse, error)
	SetShiftForAll(ctx context.Context, actor user.Actor, req SetShiftForAllRequest) (int, error)
	BulkUpsertWeek(ctx context.Context, actor user.Actor, req BulkWeekRequest) (BoardResponse, error)
	// WeekBoard lists the staff board for the week containing day (zero means this week).
	WeekBoard(ctx context.Context, actor user.Actor, day time.Time) (BoardResponse, error)
}
