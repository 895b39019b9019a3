package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, l audit.ActivityLog) error {
	return errors.New("disk full")
}

func (failingRepo) ListLatest(ctx context.Context, limit int) ([]audit.ActivityLog, error) {
	return nil, errors.New("disk full")
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	emp, err := store.Users().Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	adm, err := store.Users().Create(ctx, user.User{Name: "Boss", Role: user.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	svc := NewAuditService(store.ActivityLogs())
	svc.Record(ctx, emp.ID, audit.ActionLogin, "Logged in")
	svc.Record(ctx, "", audit.ActionSystemInit, "System initialized")

	_, err = svc.List(ctx, emp.Actor())
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	logs, err := svc.List(ctx, adm.Actor())
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, audit.ActionSystemInit, logs[0].Action)
	assert.Nil(t, logs[0].UserID)
	assert.Equal(t, audit.ActionLogin, logs[1].Action)
	require.NotNil(t, logs[1].UserName)
	assert.Equal(t, "Ana", *logs[1].UserName)
}

func TestList_CapsAtLatestRows(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	adm, err := store.Users().Create(ctx, user.User{Name: "Boss", Role: user.RoleAdmin, IsActive: true})
	require.NoError(t, err)

	svc := NewAuditService(store.ActivityLogs())
	for i := 0; i < audit.DefaultListLimit+5; i++ {
		svc.Record(ctx, adm.ID, audit.ActionLogin, fmt.Sprintf("login %d", i))
	}

	logs, err := svc.List(ctx, adm.Actor())
	require.NoError(t, err)
	assert.Len(t, logs, audit.DefaultListLimit)
	assert.Equal(t, fmt.Sprintf("login %d", audit.DefaultListLimit+4), logs[0].Details)
}

func TestRecord_StorageFailureIsSwallowed(t *testing.T) {
	svc := NewAuditService(failingRepo{})
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), "u1", audit.ActionLogin, "Logged in")
	})

	_, err := svc.List(context.Background(), user.Actor{UserID: "a", Role: user.RoleAdmin, IsActive: true})
	assert.Error(t, err)
}
