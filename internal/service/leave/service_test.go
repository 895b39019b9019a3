package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveWorkflow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	emp, err := store.Users().Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	adm, err := store.Users().Create(ctx, user.User{Name: "Boss", Role: user.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	svc := NewLeaveService(store.LeaveRequests(), auditService.NewAuditService(store.ActivityLogs()), nil)

	created, err := svc.CreateLeaveRequest(ctx, emp.Actor(), leave.CreateLeaveRequestRequest{
		LeaveType: "Annual", StartDate: "2024-03-11", EndDate: "2024-03-13",
	})
	require.NoError(t, err)
	assert.Equal(t, "annual", created.LeaveType)
	assert.Equal(t, 3, created.TotalDays)
	assert.Equal(t, string(leave.StatusPending), created.Status)

	_, err = svc.ReviewLeaveRequest(ctx, emp.Actor(), leave.ReviewLeaveRequest{ID: created.ID, Decision: leave.DecisionApprove})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	approved, err := svc.ReviewLeaveRequest(ctx, adm.Actor(), leave.ReviewLeaveRequest{ID: created.ID, Decision: leave.DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), approved.Status)
	require.NotNil(t, approved.ReviewedBy)

	_, err = svc.ReviewLeaveRequest(ctx, adm.Actor(), leave.ReviewLeaveRequest{ID: created.ID, Decision: leave.DecisionReject})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)

	from := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	entries, err := store.TimeEntries().ListByUserRange(ctx, emp.ID, from, from.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateLeaveRequest_Validation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	emp, err := store.Users().Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	svc := NewLeaveService(store.LeaveRequests(), auditService.NewAuditService(store.ActivityLogs()), nil)

	tests := []struct {
		name string
		req  leave.CreateLeaveRequestRequest
	}{
		{"unknown type", leave.CreateLeaveRequestRequest{LeaveType: "sabbatical", StartDate: "2024-03-11", EndDate: "2024-03-11"}},
		{"end before start", leave.CreateLeaveRequestRequest{LeaveType: "sick", StartDate: "2024-03-11", EndDate: "2024-03-10"}},
		{"bad date", leave.CreateLeaveRequestRequest{LeaveType: "sick", StartDate: "11/03/2024", EndDate: "2024-03-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLeaveRequest(ctx, emp.Actor(), tt.req)
			assert.Error(t, err)
		})
	}

	mine, err := svc.ListMyLeaveRequests(ctx, emp.Actor())
	require.NoError(t, err)
	assert.Empty(t, mine)
}
