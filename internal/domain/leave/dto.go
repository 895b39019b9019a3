package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

type LeaveRequestResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name,omitempty"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalDays  int     `json:"total_days"`
	Reason     *string `json:"reason,omitempty"`
	Status     string  `json:"status"`
	ReviewedBy *string `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func ToResponse(l LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		UserName:   l.UserName,
		LeaveType:  string(l.LeaveType),
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.Days(),
		Reason:     l.Reason,
		Status:     string(l.Status),
		ReviewedBy: l.ReviewedBy,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.ReviewedAt != nil {
		s := l.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type CreateLeaveRequestRequest struct {
	LeaveType string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	r.LeaveType = strings.ToLower(strings.TrimSpace(r.LeaveType))
	if r.LeaveType == "" {
		errs.Add("leave_type", "leave_type is required")
	} else if !validator.IsInSlice(r.LeaveType, validTypes) {
		errs.Add("leave_type", "leave_type must be one of "+strings.Join(validTypes, ", "))
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK {
		if end.Before(start) {
			errs.Add("end_date", "end_date must be on or after start_date")
		}
		r.Start, r.End = start, end
	}

	if r.Reason != nil {
		reason := strings.TrimSpace(*r.Reason)
		if len(reason) > 1000 {
			errs.Add("reason", "reason must not exceed 1000 characters")
		}
		r.Reason = &reason
	}

	return errs.OrNil()
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type ReviewLeaveRequest struct {
	ID       string   `json:"-"`
	Decision Decision `json:"decision"`
}

func (r *ReviewLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	r.Decision = Decision(strings.ToLower(string(r.Decision)))
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs.Add("decision", "decision must be approve or reject")
	}

	return errs.OrNil()
}
