package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
)

type handoverRepository struct {
	s *Store
}

func (s *Store) Handovers() handover.MessageRepository {
	return &handoverRepository{s: s}
}

func (r *handoverRepository) Create(ctx context.Context, m handover.Message) (handover.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m.ID = newID()
	m.CreatedAt = r.s.now()
	r.s.st.handovers = append(r.s.st.handovers, m)
	record(ctx, func() {
		r.s.st.handovers = slices.DeleteFunc(r.s.st.handovers, func(x handover.Message) bool { return x.ID == m.ID })
	})
	m.UserName = r.s.userName(m.UserID)
	return m, nil
}

func (r *handoverRepository) ListLatest(ctx context.Context, limit int) ([]handover.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]handover.Message, 0, min(limit, len(r.s.st.handovers)))
	for i := len(r.s.st.handovers) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.s.st.handovers[i]
		m.UserName = r.s.userName(m.UserID)
		out = append(out, m)
	}
	return out, nil
}

func (r *handoverRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	type removed struct {
		at int
		m  handover.Message
	}
	var gone []removed
	kept := make([]handover.Message, 0, len(r.s.st.handovers))
	for i, m := range r.s.st.handovers {
		if m.UserID == userID {
			gone = append(gone, removed{at: i, m: m})
			continue
		}
		kept = append(kept, m)
	}
	r.s.st.handovers = kept
	if len(gone) > 0 {
		record(ctx, func() {
			for _, g := range gone {
				r.s.st.handovers = slices.Insert(r.s.st.handovers, min(g.at, len(r.s.st.handovers)), g.m)
			}
		})
	}
	return nil
}
