package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
)

type handoverRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewHandoverRepository(db *database.DB, loc *time.Location) handover.MessageRepository {
	return &handoverRepositoryImpl{db: db, loc: loc}
}

// Create implements handover.MessageRepository.
func (r *handoverRepositoryImpl) Create(ctx context.Context, m handover.Message) (handover.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO handover_messages (user_id, message, shift_date)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, message, shift_date, created_at
		)
		SELECT i.id, i.user_id, i.message, i.shift_date, i.created_at, u.name
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`
	var created handover.Message
	err := q.QueryRow(ctx, query, m.UserID, m.Message, dateArg(m.ShiftDate)).Scan(
		&created.ID,
		&created.UserID,
		&created.Message,
		&created.ShiftDate,
		&created.CreatedAt,
		&created.UserName,
	)
	if err != nil {
		return handover.Message{}, err
	}
	created.ShiftDate = civil(created.ShiftDate, r.loc)
	return created, nil
}

// ListLatest implements handover.MessageRepository.
func (r *handoverRepositoryImpl) ListLatest(ctx context.Context, limit int) ([]handover.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT h.id, h.user_id, h.message, h.shift_date, h.created_at, u.name
		FROM handover_messages h
		JOIN users u ON u.id = h.user_id
		ORDER BY h.created_at DESC
		LIMIT $1
	`
	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []handover.Message
	for rows.Next() {
		var m handover.Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Message, &m.ShiftDate, &m.CreatedAt, &m.UserName); err != nil {
			return nil, err
		}
		m.ShiftDate = civil(m.ShiftDate, r.loc)
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteByUser implements handover.MessageRepository.
func (r *handoverRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "handover_messages", userID)
}
