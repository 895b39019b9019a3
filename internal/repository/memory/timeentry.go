package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
)

type timeEntryRepository struct {
	s *Store
}

func (s *Store) TimeEntries() timeentry.TimeEntryRepository {
	return &timeEntryRepository{s: s}
}

func (r *timeEntryRepository) withName(e timeentry.TimeEntry) timeentry.TimeEntry {
	e.UserName = r.s.userName(e.UserID)
	return e
}

func (r *timeEntryRepository) Create(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.st.entries {
		if existing.UserID == e.UserID && timeentry.SameDay(existing.Day, e.Day) {
			return r.withName(existing), nil
		}
	}

	e.ID = newID()
	if e.Status == "" {
		e.Status = timeentry.StatusPending
	}
	e.CreatedAt = r.s.now()
	e.UpdatedAt = e.CreatedAt
	put(ctx, r.s.st.entries, e.ID, e)
	return r.withName(e), nil
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.st.entries[id]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
	}
	return r.withName(e), nil
}

func (r *timeEntryRepository) GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.st.entries {
		if e.UserID == userID && timeentry.SameDay(e.Day, day) {
			e = r.withName(e)
			return &e, nil
		}
	}
	return nil, nil
}

func (r *timeEntryRepository) Update(ctx context.Context, e timeentry.TimeEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.entries[e.ID]; !ok {
		return timeentry.ErrTimeEntryNotFound
	}
	e.UpdatedAt = r.s.now()
	e.UserName = ""
	put(ctx, r.s.st.entries, e.ID, e)
	return nil
}

func (r *timeEntryRepository) list(keep func(timeentry.TimeEntry) bool) []timeentry.TimeEntry {
	var out []timeentry.TimeEntry
	for _, e := range r.s.st.entries {
		if keep(e) {
			out = append(out, r.withName(e))
		}
	}
	slices.SortFunc(out, func(a, b timeentry.TimeEntry) int {
		if c := strings.Compare(dateKey(a.Day), dateKey(b.Day)); c != 0 {
			return c
		}
		return strings.Compare(a.UserName, b.UserName)
	})
	return out
}

func (r *timeEntryRepository) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(e timeentry.TimeEntry) bool {
		return e.UserID == userID && inRange(e.Day, from, to)
	}), nil
}

func (r *timeEntryRepository) ListByDay(ctx context.Context, day time.Time) ([]timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(e timeentry.TimeEntry) bool {
		return timeentry.SameDay(e.Day, day)
	}), nil
}

func (r *timeEntryRepository) ListByRange(ctx context.Context, from, to time.Time) ([]timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(e timeentry.TimeEntry) bool {
		return inRange(e.Day, from, to)
	}), nil
}

func (r *timeEntryRepository) ListPendingReview(ctx context.Context) ([]timeentry.TimeEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := r.list(func(e timeentry.TimeEntry) bool {
		return e.Status != timeentry.StatusApproved && e.IsComplete()
	})
	slices.Reverse(out)
	return out, nil
}

func (r *timeEntryRepository) DeleteByUserRange(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, e := range r.s.st.entries {
		if e.UserID == userID && inRange(e.Day, from, to) {
			remove(ctx, r.s.st.entries, id)
			n++
		}
	}
	return n, nil
}

func (r *timeEntryRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, e := range r.s.st.entries {
		if e.UserID == userID {
			remove(ctx, r.s.st.entries, id)
		}
	}
	return nil
}
