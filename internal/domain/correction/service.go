package correction

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type CorrectionService interface {
	// Submit creates a pending request; a locked week creates nothing.
	Submit(ctx context.Context, actor user.Actor, req SubmitRequest) (CorrectionResponse, error)
	ListMine(ctx context.Context, actor user.Actor) ([]CorrectionResponse, error)
	ListPending(ctx context.Context, actor user.Actor) ([]CorrectionResponse, error)
	// Review approves or rejects. A failed approval leaves the request pending.
	Review(ctx context.Context, actor user.Actor, req ReviewRequest) (CorrectionResponse, error)
}
