package handover

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/sse"
)

// Topic is the live feed new handover notes are published on.
const Topic = "handover"

// EventPosted is the SSE event name for a new note.
const EventPosted = "handover.posted"

type HandoverService interface {
	Post(ctx context.Context, actor user.Actor, req PostMessageRequest) (MessageResponse, error)
	List(ctx context.Context, actor user.Actor) ([]MessageResponse, error)
	// Subscribe streams notes posted after the call until cleanup runs.
	Subscribe(ctx context.Context, actor user.Actor) (<-chan sse.Event, func(), error)
}
