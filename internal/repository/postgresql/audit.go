package postgresql

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
)

type activityLogRepositoryImpl struct {
	db *database.DB
}

func NewActivityLogRepository(db *database.DB) audit.ActivityLogRepository {
	return &activityLogRepositoryImpl{db: db}
}

// Create implements audit.ActivityLogRepository.
func (r *activityLogRepositoryImpl) Create(ctx context.Context, l audit.ActivityLog) error {
	q := GetQuerier(ctx, r.db)

	userID := l.UserID
	if userID != nil && !validID(*userID) {
		userID = nil
	}
	if l.CreatedAt.IsZero() {
		_, err := q.Exec(ctx, `INSERT INTO activity_logs (user_id, action, details) VALUES ($1, $2, $3)`,
			userID, l.Action, l.Details)
		return err
	}
	_, err := q.Exec(ctx, `INSERT INTO activity_logs (user_id, action, details, created_at) VALUES ($1, $2, $3, $4)`,
		userID, l.Action, l.Details, l.CreatedAt)
	return err
}

// ListLatest implements audit.ActivityLogRepository.
func (r *activityLogRepositoryImpl) ListLatest(ctx context.Context, limit int) ([]audit.ActivityLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.user_id, a.action, a.details, a.created_at, u.name
		FROM activity_logs a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC
		LIMIT $1
	`
	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]audit.ActivityLog, 0, limit)
	for rows.Next() {
		var l audit.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.CreatedAt, &l.UserName); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
