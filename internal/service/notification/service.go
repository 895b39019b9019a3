package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/queue"
	"github.com/google/uuid"
)

// MessageType tags notification payloads on the shared queue.
const MessageType = "notification"

// Config holds dispatcher configuration
type Config struct {
	WorkerCount int           // default: 2
	MaxAttempts int           // default: 3
	RetryDelay  time.Duration // default: 2 seconds, multiplied by the attempt number
}

// Dispatcher publishes notifications to a queue and, when running, drains
// that queue into the channel senders.
type Dispatcher struct {
	queue   queue.Queue
	senders map[notification.Channel]notification.Sender
	metrics *metrics.Metrics
	config  Config
	now     func() time.Time

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Senders missing from the map make
// messages for that channel fail permanently.
func NewDispatcher(q queue.Queue, senders map[notification.Channel]notification.Sender, m *metrics.Metrics, cfg Config) *Dispatcher {
	// Set defaults
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	return &Dispatcher{
		queue:   q,
		senders: senders,
		metrics: m,
		config:  cfg,
		now:     time.Now,
	}
}

var _ notification.Notifier = (*Dispatcher)(nil)

// Notify queues msg for delivery.
func (d *Dispatcher) Notify(ctx context.Context, msg notification.Message) error {
	if msg.To == "" {
		return notification.ErrNoRecipient
	}
	if _, ok := d.senders[msg.Channel]; !ok {
		return fmt.Errorf("%w: %q", notification.ErrUnknownChannel, msg.Channel)
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = d.now().UTC()
	}
	if err := d.publish(ctx, msg); err != nil {
		d.metrics.ObserveNotification(string(msg.Channel), "dropped")
		return fmt.Errorf("failed to queue notification: %w", err)
	}
	d.metrics.ObserveNotification(string(msg.Channel), "queued")
	return nil
}

// Configured reports whether ch reaches a real provider.
func (d *Dispatcher) Configured(ch notification.Channel) bool {
	s, ok := d.senders[ch]
	return ok && s.Configured()
}

func (d *Dispatcher) publish(ctx context.Context, msg notification.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return d.queue.Publish(ctx, queue.Message{Type: MessageType, Body: body})
}

// Run starts the workers and blocks until ctx is cancelled and every
// in-flight delivery has returned.
func (d *Dispatcher) Run(ctx context.Context) error {
	messages, err := d.queue.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to consume notification queue: %w", err)
	}

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i, messages)
	}
	slog.Info("Notification dispatcher started", "workers", d.config.WorkerCount, "max_attempts", d.config.MaxAttempts)

	d.wg.Wait()
	slog.Info("Notification dispatcher stopped")
	return nil
}

func (d *Dispatcher) worker(ctx context.Context, id int, messages <-chan queue.Message) {
	defer d.wg.Done()

	for m := range messages {
		if m.Type != MessageType {
			slog.Warn("skipping foreign queue message", "worker", id, "type", m.Type)
			continue
		}
		var msg notification.Message
		if err := json.Unmarshal(m.Body, &msg); err != nil {
			slog.Error("dropping malformed notification", "worker", id, "error", err)
			continue
		}
		d.deliver(ctx, id, msg)
	}
}

// deliver sends msg once. A failed send is re-queued with a linear backoff
// until MaxAttempts is reached.
func (d *Dispatcher) deliver(ctx context.Context, id int, msg notification.Message) {
	sender, ok := d.senders[msg.Channel]
	if !ok {
		slog.Error("no sender for notification channel", "worker", id, "channel", msg.Channel, "id", msg.ID)
		d.metrics.ObserveNotification(string(msg.Channel), "failed")
		return
	}

	// Delivery must not be torn down halfway by shutdown.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	err := sender.Send(sendCtx, msg)
	if err == nil {
		d.metrics.ObserveNotification(string(msg.Channel), "sent")
		return
	}

	msg.Attempt++
	if msg.Attempt >= d.config.MaxAttempts || errors.Is(err, notification.ErrNoRecipient) {
		slog.Error("notification delivery failed",
			"worker", id, "channel", msg.Channel, "id", msg.ID, "attempts", msg.Attempt, "error", err)
		d.metrics.ObserveNotification(string(msg.Channel), "failed")
		return
	}

	slog.Warn("notification delivery failed, retrying",
		"worker", id, "channel", msg.Channel, "id", msg.ID, "attempt", msg.Attempt, "error", err)
	d.metrics.ObserveNotification(string(msg.Channel), "retried")

	select {
	case <-time.After(d.config.RetryDelay * time.Duration(msg.Attempt)):
	case <-ctx.Done():
	}
	if err := d.publish(sendCtx, msg); err != nil {
		slog.Error("failed to requeue notification", "worker", id, "id", msg.ID, "error", err)
		d.metrics.ObserveNotification(string(msg.Channel), "dropped")
	}
}
