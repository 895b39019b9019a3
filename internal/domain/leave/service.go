package leave

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, actor user.Actor, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, actor user.Actor) ([]LeaveRequestResponse, error)
	ListPendingLeaveRequests(ctx context.Context, actor user.Actor) ([]LeaveRequestResponse, error)
	ReviewLeaveRequest(ctx context.Context, actor user.Actor, req ReviewLeaveRequest) (LeaveRequestResponse, error)
}
