package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
)

type correctionRepository struct {
	s *Store
}

func (s *Store) Corrections() correction.CorrectionRepository {
	return &correctionRepository{s: s}
}

func (r *correctionRepository) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = newID()
	c.CreatedAt = r.s.now()
	put(ctx, r.s.st.corrections, c.ID, c)
	c.UserName = r.s.userName(c.UserID)
	return c, nil
}

func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.st.corrections[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
	}
	c.UserName = r.s.userName(c.UserID)
	return c, nil
}

func (r *correctionRepository) list(keep func(correction.CorrectionRequest) bool) []correction.CorrectionRequest {
	var out []correction.CorrectionRequest
	for _, c := range r.s.st.corrections {
		if keep(c) {
			c.UserName = r.s.userName(c.UserID)
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b correction.CorrectionRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (r *correctionRepository) ListByUser(ctx context.Context, userID string) ([]correction.CorrectionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(c correction.CorrectionRequest) bool { return c.UserID == userID }), nil
}

func (r *correctionRepository) ListPending(ctx context.Context) ([]correction.CorrectionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(c correction.CorrectionRequest) bool { return c.IsPending() }), nil
}

func (r *correctionRepository) UpdateStatus(ctx context.Context, c correction.CorrectionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.st.corrections[c.ID]
	if !ok {
		return correction.ErrCorrectionNotFound
	}
	existing.Status = c.Status
	existing.ReviewedBy = c.ReviewedBy
	existing.ReviewedAt = c.ReviewedAt
	put(ctx, r.s.st.corrections, c.ID, existing)
	return nil
}

func (r *correctionRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, c := range r.s.st.corrections {
		if c.UserID == userID {
			remove(ctx, r.s.st.corrections, id)
		}
	}
	return nil
}
