package notification

import "context"

// Sender delivers a message over one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	// Configured reports whether the sender reaches a real provider.
	Configured() bool
}

// Notifier hands messages to the delivery queue without waiting for delivery.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
	// Configured reports whether ch delivers anywhere but the log.
	Configured(ch Channel) bool
}
