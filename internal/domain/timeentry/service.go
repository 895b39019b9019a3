package timeentry

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type TimeEntryService interface {
	// Today returns the actor's entry for the current business day, creating it when absent.
	Today(ctx context.Context, actor user.Actor) (TodayResponse, error)

	// Punch applies one punch action to today's entry.
	Punch(ctx context.Context, actor user.Actor, action Action) (EntryResponse, error)

	SaveNotes(ctx context.Context, actor user.Actor, req SaveNotesRequest) (EntryResponse, error)

	// Week summarizes the actor's Monday-Sunday week around day (zero means today).
	Week(ctx context.Context, actor user.Actor, day time.Time) (WeekResponse, error)

	Calendar(ctx context.Context, actor user.Actor, year int, month time.Month) (CalendarResponse, error)

	// ResetEntry clears the punches of an entry owned by the actor (admins may reset any).
	ResetEntry(ctx context.Context, actor user.Actor, entryID string) (EntryResponse, error)

	// EditEntry is the admin manual write; order violations roll back.
	EditEntry(ctx context.Context, actor user.Actor, req EditEntryRequest) (EntryResponse, error)

	// ResetWeek deletes the user's entries of the current week.
	ResetWeek(ctx context.Context, actor user.Actor, req ResetWeekRequest) (int64, error)
}
