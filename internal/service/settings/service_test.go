package settings

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = config.SettingsDefaults{
	WorkingHoursPerDay:     8,
	LunchBreakMinutes:      60,
	DinnerBreakMinutes:     30,
	WeeklyTargetHours:      48,
	SessionTimeoutMinutes:  480,
	OvertimeThresholdHours: 40,
	OvertimeMultiplier:     1.5,
}

func TestSettings_LazyDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	audits := auditService.NewAuditService(store.ActivityLogs())
	svc := NewSettingsService(store.Settings(), defaults, audits)
	admin := user.Actor{UserID: "a1", Role: user.RoleAdmin, IsActive: true}

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.SingletonID, current.ID)
	assert.Equal(t, 480, current.DailyThresholdMinutes())
	assert.Equal(t, 2400, current.WeeklyThresholdMinutes())

	threshold, multiplier := 38.0, 2.0
	resp, err := svc.Update(ctx, admin, settings.UpdateSettingsRequest{
		OvertimeThresholdHours: &threshold,
		OvertimeMultiplier:     &multiplier,
	})
	require.NoError(t, err)
	assert.Equal(t, 38.0, resp.OvertimeThresholdHours)
	assert.Equal(t, 2.0, resp.OvertimeMultiplier)
	assert.Equal(t, 8.0, resp.WorkingHoursPerDay)

	logs, err := audits.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "OVERTIME_RULES_UPDATED", logs[0].Action)
}

func TestSettings_Guards(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewSettingsService(store.Settings(), defaults, auditService.NewAuditService(store.ActivityLogs()))

	employee := user.Actor{UserID: "e1", Role: user.RoleEmployee, IsActive: true}
	_, err := svc.Get(ctx, employee)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	admin := user.Actor{UserID: "a1", Role: user.RoleAdmin, IsActive: true}
	bad := 0.5
	_, err = svc.Update(ctx, admin, settings.UpdateSettingsRequest{OvertimeMultiplier: &bad})
	assert.Error(t, err)

	got, err := svc.Get(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got.OvertimeMultiplier)
}
