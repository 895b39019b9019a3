package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
)

type rosterRepository struct {
	s *Store
}

func (s *Store) Rosters() roster.RosterRepository {
	return &rosterRepository{s: s}
}

func sameWeek(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return dateKey(*a) == dateKey(*b)
}

func (r *rosterRepository) find(userID, day string, weekStart *time.Time) (string, bool) {
	for id, row := range r.s.st.rosters {
		if row.UserID == userID && row.DayOfWeek == day && sameWeek(row.WeekStart, weekStart) {
			return id, true
		}
	}
	return "", false
}

func (r *rosterRepository) Upsert(ctx context.Context, row roster.Roster) (roster.Roster, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if id, ok := r.find(row.UserID, row.DayOfWeek, row.WeekStart); ok {
		row.ID = id
	} else {
		row.ID = newID()
	}
	row.UserName = ""
	put(ctx, r.s.st.rosters, row.ID, row)
	row.UserName = r.s.userName(row.UserID)
	return row, nil
}

func (r *rosterRepository) Find(ctx context.Context, userID, dayOfWeek string, weekStart *time.Time) (*roster.Roster, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.find(userID, dayOfWeek, weekStart)
	if !ok {
		return nil, nil
	}
	row := r.s.st.rosters[id]
	row.UserName = r.s.userName(row.UserID)
	return &row, nil
}

func (r *rosterRepository) ListForUserWeek(ctx context.Context, userID string, weekStart time.Time) ([]roster.Roster, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []roster.Roster
	for _, row := range r.s.st.rosters {
		if row.UserID != userID {
			continue
		}
		if row.WeekStart == nil || dateKey(*row.WeekStart) == dateKey(weekStart) {
			row.UserName = r.s.userName(row.UserID)
			out = append(out, row)
		}
	}
	roster.SortByDay(out)
	return out, nil
}

func (r *rosterRepository) ListByWeek(ctx context.Context, weekStart time.Time) ([]roster.Roster, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []roster.Roster
	for _, row := range r.s.st.rosters {
		if row.WeekStart != nil && dateKey(*row.WeekStart) == dateKey(weekStart) {
			row.UserName = r.s.userName(row.UserID)
			out = append(out, row)
		}
	}
	roster.SortByDay(out)
	return out, nil
}

func (r *rosterRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, row := range r.s.st.rosters {
		if row.UserID == userID {
			remove(ctx, r.s.st.rosters, id)
		}
	}
	return nil
}
