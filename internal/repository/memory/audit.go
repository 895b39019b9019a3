package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
)

type activityLogRepository struct {
	s *Store
}

func (s *Store) ActivityLogs() audit.ActivityLogRepository {
	return &activityLogRepository{s: s}
}

func (r *activityLogRepository) Create(ctx context.Context, l audit.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l.ID = newID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.s.now()
	}
	r.s.st.logs = append(r.s.st.logs, l)
	record(ctx, func() {
		r.s.st.logs = slices.DeleteFunc(r.s.st.logs, func(x audit.ActivityLog) bool { return x.ID == l.ID })
	})
	return nil
}

func (r *activityLogRepository) ListLatest(ctx context.Context, limit int) ([]audit.ActivityLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]audit.ActivityLog, 0, min(limit, len(r.s.st.logs)))
	for i := len(r.s.st.logs) - 1; i >= 0 && len(out) < limit; i-- {
		l := r.s.st.logs[i]
		if l.UserID != nil {
			if u, ok := r.s.st.users[*l.UserID]; ok {
				name := u.Name
				l.UserName = &name
			}
		}
		out = append(out, l)
	}
	return out, nil
}
