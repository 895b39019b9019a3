package correction

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CorrectionRequest proposes replacement punch times for one past day.
// Blank HH:MM fields leave the entry untouched on approval.
type CorrectionRequest struct {
	ID                  string
	UserID              string
	Day                 time.Time
	RequestedClockIn    *string
	RequestedClockOut   *string
	RequestedLunchStart *string
	RequestedLunchEnd   *string
	Reason              string
	Status              Status
	ReviewedBy          *string
	ReviewedAt          *time.Time
	CreatedAt           time.Time

	// Joined fields
	UserName string
}

func (c CorrectionRequest) IsPending() bool {
	return c.Status == StatusPending
}
