package timesheet

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	settingsService "github.com/cmlabs-hris/timekeeper-go/internal/service/settings"
	weeklockService "github.com/cmlabs-hris/timekeeper-go/internal/service/weeklock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wednesday = time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	reviewAt  = time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)
)

type fixture struct {
	store    *memory.Store
	svc      timesheet.TimesheetService
	ledger   weeklock.Ledger
	employee user.User
	admin    user.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	emp, err := store.Users().Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	adm, err := store.Users().Create(ctx, user.User{Name: "Boss", Role: user.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	recorder := auditService.NewAuditService(store.ActivityLogs())
	settingsSvc := settingsService.NewSettingsService(store.Settings(), config.SettingsDefaults{
		WorkingHoursPerDay: 8, OvertimeThresholdHours: 40, OvertimeMultiplier: 1.5, WeeklyTargetHours: 48,
	}, recorder)
	ledger := weeklockService.NewLedger(store.WeekApprovals())

	svc := NewTimesheetService(store.Transactor(), store.TimeEntries(), settingsSvc, ledger, recorder, nil, time.UTC)
	svc.(*TimesheetServiceImpl).now = func() time.Time { return reviewAt }

	return &fixture{store: store, svc: svc, ledger: ledger, employee: emp, admin: adm.Actor()}
}

func (f *fixture) completeEntry(t *testing.T, day time.Time, in, out string) timeentry.TimeEntry {
	t.Helper()
	ctx := context.Background()
	e, err := f.store.TimeEntries().Create(ctx, timeentry.TimeEntry{UserID: f.employee.ID, Day: day})
	require.NoError(t, err)
	e.ClockIn = timeentry.ClockOn(e, in)
	e.ClockOut = timeentry.ClockOn(e, out)
	require.NoError(t, f.store.TimeEntries().Update(ctx, e))
	return e
}

func TestListPending_OnlyCompleteUnapproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.completeEntry(t, wednesday, "09:00", "19:00")
	_, err := f.store.TimeEntries().Create(ctx, timeentry.TimeEntry{UserID: f.employee.ID, Day: wednesday.AddDate(0, 0, 1)})
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 120, pending[0].OvertimeMinutes)
	assert.Equal(t, "2024-03-04", pending[0].WeekStart)
	assert.Equal(t, "2024-03-10", pending[0].WeekEnd)
	assert.False(t, pending[0].IsLocked)

	_, err = f.svc.ListPending(ctx, f.employee.Actor())
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestReview_ApproveAndLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.completeEntry(t, wednesday, "09:00", "17:00")

	notes := "ok"
	resp, err := f.svc.Review(ctx, f.admin, timesheet.ReviewRequest{
		EntryID: e.ID, Decision: timesheet.DecisionApprove, Notes: &notes, LockWeek: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.WeekLocked)
	assert.Equal(t, string(timeentry.StatusApproved), resp.Entry.Status)
	require.NotNil(t, resp.Entry.ApprovedBy)
	assert.Equal(t, f.admin.UserID, *resp.Entry.ApprovedBy)

	week, err := f.store.WeekApprovals().GetByUserWeek(ctx, f.employee.ID, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, week)
	assert.True(t, week.IsLocked())
	require.NotNil(t, week.ApprovedAt)
	assert.True(t, week.ApprovedAt.Equal(reviewAt))
	assert.Equal(t, f.admin.UserID, *week.ApprovedBy)

	pending, err := f.svc.ListPending(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReview_RejectNeverLocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.completeEntry(t, wednesday, "09:00", "17:00")

	resp, err := f.svc.Review(ctx, f.admin, timesheet.ReviewRequest{
		EntryID: e.ID, Decision: timesheet.DecisionReject, LockWeek: true,
	})
	require.NoError(t, err)
	assert.False(t, resp.WeekLocked)
	assert.Equal(t, string(timeentry.StatusRejected), resp.Entry.Status)

	locked, err := f.ledger.IsLocked(ctx, f.employee.ID, wednesday)
	require.NoError(t, err)
	assert.False(t, locked)

	pending, err := f.svc.ListPending(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestReview_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Review(ctx, f.admin, timesheet.ReviewRequest{EntryID: "x", Decision: "maybe"})
	assert.Error(t, err)

	_, err = f.svc.Review(ctx, f.admin, timesheet.ReviewRequest{EntryID: "missing", Decision: timesheet.DecisionApprove})
	assert.ErrorIs(t, err, timeentry.ErrTimeEntryNotFound)
}

func TestReview_IncompleteEntryRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.store.TimeEntries().Create(ctx, timeentry.TimeEntry{
		UserID: f.employee.ID, Day: wednesday, Status: timeentry.StatusPending,
	})
	require.NoError(t, err)
	e.ClockIn = timeentry.ClockOn(e, "09:00")
	require.NoError(t, f.store.TimeEntries().Update(ctx, e))

	_, err = f.svc.Review(ctx, f.admin, timesheet.ReviewRequest{
		EntryID: e.ID, Decision: timesheet.DecisionApprove, LockWeek: true,
	})
	assert.ErrorIs(t, err, timeentry.ErrNotComplete)

	stored, err := f.store.TimeEntries().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusPending, stored.Status)
	assert.Nil(t, stored.ApprovedBy)

	locked, err := f.ledger.IsLocked(ctx, f.employee.ID, wednesday)
	require.NoError(t, err)
	assert.False(t, locked)
}
