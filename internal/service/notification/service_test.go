package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/queue"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu         sync.Mutex
	failures   int
	configured bool
	sent       []notification.Message
	calls      int
	done       chan struct{}
}

func newFakeSender(failures int) *fakeSender {
	return &fakeSender{failures: failures, done: make(chan struct{}, 16)}
}

func (f *fakeSender) Send(_ context.Context, msg notification.Message) error {
	f.mu.Lock()
	defer func() {
		f.mu.Unlock()
		f.done <- struct{}{}
	}()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for send %d of %d", i+1, n)
		}
	}
}

func TestNotify_QueuesMessage(t *testing.T) {
	q := queue.NewInMemory(4)
	mail := newFakeSender(0)
	d := NewDispatcher(q, map[notification.Channel]notification.Sender{notification.ChannelEmail: mail}, nil, Config{})
	fixed := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	err := d.Notify(context.Background(), notification.Message{
		Channel: notification.ChannelEmail,
		To:      "ana@example.com",
		Subject: "Daily summary",
		Body:    "You worked 8h",
	})
	require.NoError(t, err)
	require.Equal(t, 1, q.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := q.Consume(ctx)
	require.NoError(t, err)
	raw := <-ch
	assert.Equal(t, MessageType, raw.Type)

	var msg notification.Message
	require.NoError(t, json.Unmarshal(raw.Body, &msg))
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, fixed, msg.CreatedAt)
	assert.Equal(t, 0, msg.Attempt)
	assert.Empty(t, mail.sent)
}

func TestNotify_Rejects(t *testing.T) {
	q := queue.NewInMemory(1)
	d := NewDispatcher(q, map[notification.Channel]notification.Sender{notification.ChannelEmail: newFakeSender(0)}, nil, Config{})
	ctx := context.Background()

	err := d.Notify(ctx, notification.Message{Channel: notification.ChannelEmail})
	assert.ErrorIs(t, err, notification.ErrNoRecipient)

	err = d.Notify(ctx, notification.Message{Channel: notification.ChannelSMS, To: "+15550100"})
	assert.ErrorIs(t, err, notification.ErrUnknownChannel)

	require.NoError(t, d.Notify(ctx, notification.Message{Channel: notification.ChannelEmail, To: "a@example.com"}))
	err = d.Notify(ctx, notification.Message{Channel: notification.ChannelEmail, To: "b@example.com"})
	assert.ErrorIs(t, err, queue.ErrFull)
}

func TestConfigured(t *testing.T) {
	mail := newFakeSender(0)
	mail.configured = true
	d := NewDispatcher(queue.NewInMemory(1), map[notification.Channel]notification.Sender{
		notification.ChannelEmail: mail,
		notification.ChannelSMS:   newFakeSender(0),
	}, nil, Config{})

	assert.True(t, d.Configured(notification.ChannelEmail))
	assert.False(t, d.Configured(notification.ChannelSMS))
	assert.False(t, d.Configured(notification.Channel("pager")))
}

func TestRun_DeliversAndRetries(t *testing.T) {
	q := queue.NewInMemory(8)
	mail := newFakeSender(1)
	sms := newFakeSender(0)
	m := metrics.New()
	d := NewDispatcher(q, map[notification.Channel]notification.Sender{
		notification.ChannelEmail: mail,
		notification.ChannelSMS:   sms,
	}, m, Config{WorkerCount: 2, MaxAttempts: 3, RetryDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.NoError(t, d.Notify(ctx, notification.Message{Channel: notification.ChannelEmail, To: "ana@example.com", Body: "hi"}))
	require.NoError(t, d.Notify(ctx, notification.Message{Channel: notification.ChannelSMS, To: "+15550100", Body: "hi"}))

	mail.wait(t, 2)
	sms.wait(t, 1)
	cancel()
	require.NoError(t, <-done)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, 1, mail.sent[0].Attempt)
	require.Len(t, sms.sent, 1)
	assert.Equal(t, 0, sms.sent[0].Attempt)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("email", "retried")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("email", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sms", "sent")))
}

func TestRun_GivesUpAfterMaxAttempts(t *testing.T) {
	q := queue.NewInMemory(8)
	mail := newFakeSender(10)
	m := metrics.New()
	d := NewDispatcher(q, map[notification.Channel]notification.Sender{notification.ChannelEmail: mail}, m,
		Config{WorkerCount: 1, MaxAttempts: 2, RetryDelay: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.NoError(t, d.Notify(ctx, notification.Message{Channel: notification.ChannelEmail, To: "ana@example.com"}))
	mail.wait(t, 2)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.Notifications.WithLabelValues("email", "failed")) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, mail.sent)
	assert.Equal(t, 0, q.Len())
}
