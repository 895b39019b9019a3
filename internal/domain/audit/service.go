package audit

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

// DefaultListLimit is the number of rows shown on the audit page.
const DefaultListLimit = 300

// Recorder writes activity rows. Failures are logged and never returned.
type Recorder interface {
	Record(ctx context.Context, userID string, action, details string)
}

type AuditService interface {
	Recorder
	List(ctx context.Context, actor user.Actor) ([]ActivityLogResponse, error)
}
