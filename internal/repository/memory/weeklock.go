package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
)

type weekApprovalRepository struct {
	s *Store
}

func (s *Store) WeekApprovals() weeklock.WeekApprovalRepository {
	return &weekApprovalRepository{s: s}
}

func (r *weekApprovalRepository) GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (*weeklock.WeekApproval, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, w := range r.s.st.weeks {
		if w.UserID == userID && dateKey(w.WeekStart) == dateKey(weekStart) {
			return &w, nil
		}
	}
	return nil, nil
}

func (r *weekApprovalRepository) Upsert(ctx context.Context, w weeklock.WeekApproval) (weeklock.WeekApproval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for id, existing := range r.s.st.weeks {
		if existing.UserID == w.UserID && dateKey(existing.WeekStart) == dateKey(w.WeekStart) {
			w.ID = id
			w.CreatedAt = existing.CreatedAt
			w.UpdatedAt = now
			put(ctx, r.s.st.weeks, id, w)
			return w, nil
		}
	}

	w.ID = newID()
	w.CreatedAt = now
	w.UpdatedAt = now
	put(ctx, r.s.st.weeks, w.ID, w)
	return w, nil
}

func (r *weekApprovalRepository) ListByWeek(ctx context.Context, weekStart time.Time) ([]weeklock.WeekApproval, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []weeklock.WeekApproval
	for _, w := range r.s.st.weeks {
		if dateKey(w.WeekStart) == dateKey(weekStart) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *weekApprovalRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, w := range r.s.st.weeks {
		if w.UserID == userID {
			remove(ctx, r.s.st.weeks, id)
		}
	}
	return nil
}
