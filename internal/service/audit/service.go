package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type AuditServiceImpl struct {
	audit.ActivityLogRepository
}

func NewAuditService(repo audit.ActivityLogRepository) audit.AuditService {
	return &AuditServiceImpl{ActivityLogRepository: repo}
}

// Record stores an activity row. A storage failure is logged and dropped.
func (s *AuditServiceImpl) Record(ctx context.Context, userID string, action, details string) {
	entry := audit.ActivityLog{Action: action, Details: details}
	if userID != "" {
		entry.UserID = &userID
	}
	if err := s.ActivityLogRepository.Create(ctx, entry); err != nil {
		slog.Error("failed to record activity", "action", action, "user_id", userID, "error", err)
	}
}

func (s *AuditServiceImpl) List(ctx context.Context, actor user.Actor) ([]audit.ActivityLogResponse, error) {
	if err := actor.Require(user.PermissionAuditView); err != nil {
		return nil, err
	}

	logs, err := s.ActivityLogRepository.ListLatest(ctx, audit.DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	resp := make([]audit.ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, audit.ToResponse(l))
	}
	return resp, nil
}
