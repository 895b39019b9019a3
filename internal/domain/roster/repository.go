package roster

import (
	"context"
	"time"
)

type RosterRepository interface {
	// Upsert writes the row keyed by (user, day of week, week start or template).
	Upsert(ctx context.Context, r Roster) (Roster, error)
	// Find returns nil when no row matches the key.
	Find(ctx context.Context, userID, dayOfWeek string, weekStart *time.Time) (*Roster, error)
	// ListForUserWeek returns the user's rows for weekStart plus template rows.
	ListForUserWeek(ctx context.Context, userID string, weekStart time.Time) ([]Roster, error)
	ListByWeek(ctx context.Context, weekStart time.Time) ([]Roster, error)
	DeleteByUser(ctx context.Context, userID string) error
}
