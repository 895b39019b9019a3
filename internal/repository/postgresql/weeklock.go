package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const weekApprovalColumns = `
	id, user_id, week_start, week_end, state, approved_by, approved_at, created_at, updated_at`

type weekApprovalRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewWeekApprovalRepository(db *database.DB, loc *time.Location) weeklock.WeekApprovalRepository {
	return &weekApprovalRepositoryImpl{db: db, loc: loc}
}

func (r *weekApprovalRepositoryImpl) scan(row pgx.Row) (weeklock.WeekApproval, error) {
	var w weeklock.WeekApproval
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.WeekStart,
		&w.WeekEnd,
		&w.State,
		&w.ApprovedBy,
		&w.ApprovedAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return weeklock.WeekApproval{}, err
	}
	w.WeekStart = civil(w.WeekStart, r.loc)
	w.WeekEnd = civil(w.WeekEnd, r.loc)
	return w, nil
}

// GetByUserWeek implements weeklock.WeekApprovalRepository.
func (r *weekApprovalRepositoryImpl) GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (*weeklock.WeekApproval, error) {
	if !validID(userID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + weekApprovalColumns + ` FROM week_approvals WHERE user_id = $1 AND week_start = $2`
	w, err := r.scan(q.QueryRow(ctx, query, userID, dateArg(weekStart)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Upsert implements weeklock.WeekApprovalRepository.
func (r *weekApprovalRepositoryImpl) Upsert(ctx context.Context, w weeklock.WeekApproval) (weeklock.WeekApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO week_approvals (user_id, week_start, week_end, state, approved_by, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, week_start)
		DO UPDATE SET week_end = EXCLUDED.week_end, state = EXCLUDED.state,
			approved_by = EXCLUDED.approved_by, approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
		RETURNING` + weekApprovalColumns

	return r.scan(q.QueryRow(ctx, query,
		w.UserID,
		dateArg(w.WeekStart),
		dateArg(w.WeekEnd),
		w.State,
		w.ApprovedBy,
		w.ApprovedAt,
	))
}

// ListByWeek implements weeklock.WeekApprovalRepository.
func (r *weekApprovalRepositoryImpl) ListByWeek(ctx context.Context, weekStart time.Time) ([]weeklock.WeekApproval, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT`+weekApprovalColumns+` FROM week_approvals WHERE week_start = $1`, dateArg(weekStart))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []weeklock.WeekApproval
	for rows.Next() {
		w, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// DeleteByUser implements weeklock.WeekApprovalRepository.
func (r *weekApprovalRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "week_approvals", userID)
}
