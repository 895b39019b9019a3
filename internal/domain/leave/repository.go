package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
	ListPending(ctx context.Context) ([]LeaveRequest, error)
	UpdateStatus(ctx context.Context, request LeaveRequest) error
	DeleteByUser(ctx context.Context, userID string) error
}
