package memory

import (
	"context"
	"slices"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	s *Store
}

func (s *Store) LeaveRequests() leave.LeaveRequestRepository {
	return &leaveRequestRepository{s: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request.ID = newID()
	request.CreatedAt = r.s.now()
	put(ctx, r.s.st.leaves, request.ID, request)
	request.UserName = r.s.userName(request.UserID)
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.st.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	l.UserName = r.s.userName(l.UserID)
	return l, nil
}

func (r *leaveRequestRepository) list(keep func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	var out []leave.LeaveRequest
	for _, l := range r.s.st.leaves {
		if keep(l) {
			l.UserName = r.s.userName(l.UserID)
			out = append(out, l)
		}
	}
	slices.SortFunc(out, func(a, b leave.LeaveRequest) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (r *leaveRequestRepository) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(l leave.LeaveRequest) bool { return l.UserID == userID }), nil
}

func (r *leaveRequestRepository) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.list(func(l leave.LeaveRequest) bool { return l.IsPending() }), nil
}

func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.st.leaves[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	existing.Status = request.Status
	existing.ReviewedBy = request.ReviewedBy
	existing.ReviewedAt = request.ReviewedAt
	put(ctx, r.s.st.leaves, request.ID, existing)
	return nil
}

func (r *leaveRequestRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, l := range r.s.st.leaves {
		if l.UserID == userID {
			remove(ctx, r.s.st.leaves, id)
		}
	}
	return nil
}
