package handover

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

type MessageResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Message   string `json:"message"`
	ShiftDate string `json:"shift_date"`
	CreatedAt string `json:"created_at"`
}

func ToResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  m.UserName,
		Message:   m.Message,
		ShiftDate: m.ShiftDate.Format("2006-01-02"),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

type PostMessageRequest struct {
	Message   string `json:"message"`
	ShiftDate string `json:"shift_date"`

	Day time.Time `json:"-"`
}

func (r *PostMessageRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		errs.Add("message", "message is required")
	} else if len(r.Message) > 5000 {
		errs.Add("message", "message must not exceed 5000 characters")
	}
	if r.ShiftDate != "" {
		if d, ok := validator.IsValidDate(r.ShiftDate); !ok {
			errs.Add("shift_date", "shift_date must be in YYYY-MM-DD format")
		} else {
			r.Day = d
		}
	}

	return errs.OrNil()
}
