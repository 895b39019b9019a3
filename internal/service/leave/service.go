package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	audit   audit.Recorder
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLeaveService builds the leave workflow. Approval records the decision
// only; time entries are never written from here.
func NewLeaveService(repo leave.LeaveRequestRepository, recorder audit.Recorder, m *metrics.Metrics) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: repo,
		audit:                  recorder,
		metrics:                m,
		now:                    time.Now,
	}
}

func toResponses(items []leave.LeaveRequest) []leave.LeaveRequestResponse {
	resp := make([]leave.LeaveRequestResponse, 0, len(items))
	for _, l := range items {
		resp = append(resp, leave.ToResponse(l))
	}
	return resp
}

func (s *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, actor user.Actor, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := actor.Require(user.PermissionLeaveOwn); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		UserID:    actor.UserID,
		LeaveType: leave.Type(req.LeaveType),
		StartDate: req.Start,
		EndDate:   req.End,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionLeaveRequested, fmt.Sprintf(
		"%s leave %s to %s", req.LeaveType, req.StartDate, req.EndDate))
	return leave.ToResponse(created), nil
}

func (s *LeaveServiceImpl) ListMyLeaveRequests(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	if err := actor.Require(user.PermissionLeaveOwn); err != nil {
		return nil, err
	}
	items, err := s.LeaveRequestRepository.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(items), nil
}

func (s *LeaveServiceImpl) ListPendingLeaveRequests(ctx context.Context, actor user.Actor) ([]leave.LeaveRequestResponse, error) {
	if err := actor.Require(user.PermissionLeaveApprove); err != nil {
		return nil, err
	}
	items, err := s.LeaveRequestRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return toResponses(items), nil
}

func (s *LeaveServiceImpl) ReviewLeaveRequest(ctx context.Context, actor user.Actor, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := actor.Require(user.PermissionLeaveApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !request.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	request.Status = leave.StatusRejected
	if req.Decision == leave.DecisionApprove {
		request.Status = leave.StatusApproved
	}
	reviewer := actor.UserID
	reviewedAt := s.now().Truncate(time.Second)
	request.ReviewedBy = &reviewer
	request.ReviewedAt = &reviewedAt

	if err := s.LeaveRequestRepository.UpdateStatus(ctx, request); err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	s.metrics.ObserveReview("leave", string(req.Decision))
	s.audit.Record(ctx, actor.UserID, audit.ActionLeaveReviewed, fmt.Sprintf(
		"Leave %s for %s (%s to %s)", request.Status, request.UserName,
		request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")))
	return leave.ToResponse(request), nil
}
