package audit

import "time"

type ActivityLogResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	Action    string  `json:"action"`
	Details   string  `json:"details"`
	CreatedAt string  `json:"created_at"`
}

func ToResponse(l ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		UserName:  l.UserName,
		Action:    l.Action,
		Details:   l.Details,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}
