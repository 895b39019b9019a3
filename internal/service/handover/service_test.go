package handover

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandover_PostAndList(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	u, err := store.Users().Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)

	svc := NewHandoverService(store.Handovers(), sse.NewHub(), time.UTC)
	svc.(*HandoverServiceImpl).now = func() time.Time { return time.Date(2024, 3, 6, 22, 0, 0, 0, time.UTC) }

	first, err := svc.Post(ctx, u.Actor(), handover.PostMessageRequest{Message: "  keg 3 is empty  "})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", first.ShiftDate)
	assert.Equal(t, "keg 3 is empty", first.Message)

	_, err = svc.Post(ctx, u.Actor(), handover.PostMessageRequest{Message: "deliveries at 7", ShiftDate: "2024-03-07"})
	require.NoError(t, err)

	_, err = svc.Post(ctx, u.Actor(), handover.PostMessageRequest{Message: "   "})
	assert.Error(t, err)

	msgs, err := svc.List(ctx, u.Actor())
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "deliveries at 7", msgs[0].Message)
	assert.Equal(t, "Ana", msgs[0].UserName)
}

func TestHandover_SubscribeReceivesPosts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	u, err := store.Users().Create(ctx, user.User{Name: "Ana", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)

	svc := NewHandoverService(store.Handovers(), sse.NewHub(), time.UTC)
	events, cleanup, err := svc.Subscribe(ctx, u.Actor())
	require.NoError(t, err)
	defer cleanup()

	posted, err := svc.Post(ctx, u.Actor(), handover.PostMessageRequest{Message: "fridge door sticks"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, handover.EventPosted, ev.Event)
		assert.Equal(t, posted, ev.Data)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	_, _, err = svc.Subscribe(ctx, user.Actor{UserID: u.ID, Role: user.RoleEmployee})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}
