package correction

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

type CorrectionResponse struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	UserName            string  `json:"user_name,omitempty"`
	Date                string  `json:"date"`
	RequestedClockIn    *string `json:"requested_clock_in,omitempty"`
	RequestedClockOut   *string `json:"requested_clock_out,omitempty"`
	RequestedLunchStart *string `json:"requested_lunch_start,omitempty"`
	RequestedLunchEnd   *string `json:"requested_lunch_end,omitempty"`
	Reason              string  `json:"reason"`
	Status              string  `json:"status"`
	ReviewedBy          *string `json:"reviewed_by,omitempty"`
	ReviewedAt          *string `json:"reviewed_at,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

func ToResponse(c CorrectionRequest) CorrectionResponse {
	resp := CorrectionResponse{
		ID:                  c.ID,
		UserID:              c.UserID,
		UserName:            c.UserName,
		Date:                c.Day.Format("2006-01-02"),
		RequestedClockIn:    c.RequestedClockIn,
		RequestedClockOut:   c.RequestedClockOut,
		RequestedLunchStart: c.RequestedLunchStart,
		RequestedLunchEnd:   c.RequestedLunchEnd,
		Reason:              c.Reason,
		Status:              string(c.Status),
		ReviewedBy:          c.ReviewedBy,
		CreatedAt:           c.CreatedAt.Format(time.RFC3339),
	}
	if c.ReviewedAt != nil {
		s := c.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}

type SubmitRequest struct {
	Date       string `json:"date"`
	ClockIn    string `json:"clock_in"`
	ClockOut   string `json:"clock_out"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
	Reason     string `json:"reason"`

	Day time.Time `json:"-"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if day, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.Day = day
	}

	fields := []struct {
		name  string
		value *string
	}{
		{"clock_in", &r.ClockIn},
		{"clock_out", &r.ClockOut},
		{"lunch_start", &r.LunchStart},
		{"lunch_end", &r.LunchEnd},
	}
	provided := 0
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			continue
		}
		provided++
		if !validator.IsValidClock(*f.value) {
			errs.Add(f.name, f.name+" must be in HH:MM format")
		}
	}
	if provided == 0 {
		errs.Add("clock_in", "at least one corrected time is required")
	}

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.OrNil()
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type ReviewRequest struct {
	ID       string   `json:"-"`
	Decision Decision `json:"decision"`
}

func (r *ReviewRequest) Validate() error {
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

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToEntity builds the pending request for userID.
func (r SubmitRequest) ToEntity(userID string) CorrectionRequest {
	return CorrectionRequest{
		UserID:              userID,
		Day:                 r.Day,
		RequestedClockIn:    optional(r.ClockIn),
		RequestedClockOut:   optional(r.ClockOut),
		RequestedLunchStart: optional(r.LunchStart),
		RequestedLunchEnd:   optional(r.LunchEnd),
		Reason:              r.Reason,
		Status:              StatusPending,
	}
}
