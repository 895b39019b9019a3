package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const correctionSelect = `
	SELECT c.id, c.user_id, c.day, c.requested_clock_in, c.requested_clock_out,
		   c.requested_lunch_start, c.requested_lunch_end, c.reason, c.status,
		   c.reviewed_by, c.reviewed_at, c.created_at, u.name
	FROM correction_requests c
	JOIN users u ON u.id = c.user_id`

type correctionRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewCorrectionRepository(db *database.DB, loc *time.Location) correction.CorrectionRepository {
	return &correctionRepositoryImpl{db: db, loc: loc}
}

func (r *correctionRepositoryImpl) scan(row pgx.Row) (correction.CorrectionRequest, error) {
	var c correction.CorrectionRequest
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Day,
		&c.RequestedClockIn,
		&c.RequestedClockOut,
		&c.RequestedLunchStart,
		&c.RequestedLunchEnd,
		&c.Reason,
		&c.Status,
		&c.ReviewedBy,
		&c.ReviewedAt,
		&c.CreatedAt,
		&c.UserName,
	)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	c.Day = civil(c.Day, r.loc)
	return c, nil
}

func (r *correctionRepositoryImpl) list(ctx context.Context, where string, args ...any) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, correctionSelect+" WHERE "+where+" ORDER BY c.created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []correction.CorrectionRequest
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	if c.Status == "" {
		c.Status = correction.StatusPending
	}
	query := `
		INSERT INTO correction_requests (
			user_id, day, requested_clock_in, requested_clock_out,
			requested_lunch_start, requested_lunch_end, reason, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		c.UserID,
		dateArg(c.Day),
		c.RequestedClockIn,
		c.RequestedClockOut,
		c.RequestedLunchStart,
		c.RequestedLunchEnd,
		c.Reason,
		c.Status,
	).Scan(&id)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	if !validID(id) {
		return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
	}
	q := GetQuerier(ctx, r.db)

	c, err := r.scan(q.QueryRow(ctx, correctionSelect+" WHERE c.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
		}
		return correction.CorrectionRequest{}, err
	}
	return c, nil
}

// ListByUser implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]correction.CorrectionRequest, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.list(ctx, "c.user_id = $1", userID)
}

// ListPending implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) ListPending(ctx context.Context) ([]correction.CorrectionRequest, error) {
	return r.list(ctx, "c.status = $1", correction.StatusPending)
}

// UpdateStatus implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) UpdateStatus(ctx context.Context, c correction.CorrectionRequest) error {
	if !validID(c.ID) {
		return correction.ErrCorrectionNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE correction_requests SET status = $2, reviewed_by = $3, reviewed_at = $4 WHERE id = $1`,
		c.ID, c.Status, c.ReviewedBy, c.ReviewedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionNotFound
	}
	return nil
}

// DeleteByUser implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "correction_requests", userID)
}
