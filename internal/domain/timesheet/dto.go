package timesheet

import (
	"strings"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// PendingTimesheet is a completed day awaiting review.
type PendingTimesheet struct {
	Entry           timeentry.EntryResponse `json:"entry"`
	WorkHours       float64                 `json:"work_hours"`
	OvertimeMinutes int                     `json:"overtime_minutes"`
	WeekStart       string                  `json:"week_start"`
	WeekEnd         string                  `json:"week_end"`
	IsLocked        bool                    `json:"is_locked"`
}

type ReviewRequest struct {
	EntryID  string   `json:"-"`
	Decision Decision `json:"decision"`
	Notes    *string  `json:"notes,omitempty"`
	LockWeek bool     `json:"lock_week"`
}

func (r *ReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs.Add("entry_id", "entry_id is required")
	}
	r.Decision = Decision(strings.ToLower(string(r.Decision)))
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs.Add("decision", "decision must be approve or reject")
	}
	if r.Notes != nil {
		n := strings.TrimSpace(*r.Notes)
		r.Notes = &n
	}

	return errs.OrNil()
}

type ReviewResponse struct {
	Entry      timeentry.EntryResponse `json:"entry"`
	WeekLocked bool                    `json:"week_locked"`
}
