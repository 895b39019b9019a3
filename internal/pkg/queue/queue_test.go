package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_PublishConsume(t *testing.T) {
	q := NewInMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Publish(ctx, Message{Type: "notification", Body: json.RawMessage(`{"to":"a"}`)}))
	assert.Equal(t, 1, q.Len())

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, "notification", msg.Type)
		assert.JSONEq(t, `{"to":"a"}`, string(msg.Body))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestInMemory_Full(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, Message{Type: "a"}))
	assert.ErrorIs(t, q.Publish(ctx, Message{Type: "b"}), ErrFull)
}

func TestInMemory_ConsumeStopsOnCancel(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-msgs:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}
