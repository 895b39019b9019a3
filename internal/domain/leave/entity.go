package leave

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Type is the kind of leave requested.
type Type string

const (
	TypeAnnual   Type = "annual"
	TypeSick     Type = "sick"
	TypePersonal Type = "personal"
	TypeUnpaid   Type = "unpaid"
	TypeOther    Type = "other"
)

var validTypes = []string{
	string(TypeAnnual), string(TypeSick), string(TypePersonal), string(TypeUnpaid), string(TypeOther),
}

// LeaveRequest is an employee's leave submission. Approval never writes time entries.
type LeaveRequest struct {
	ID         string
	UserID     string
	LeaveType  Type
	StartDate  time.Time
	EndDate    time.Time
	Reason     *string
	Status     Status
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time

	// Joined fields
	UserName string
}

func (l LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

// Days is the inclusive calendar length of the request.
func (l LeaveRequest) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}
