package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestSelect = `
	SELECT lr.id, lr.user_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason,
		   lr.status, lr.reviewed_by, lr.reviewed_at, lr.created_at, u.name
	FROM leave_requests lr
	JOIN users u ON u.id = lr.user_id`

type leaveRequestRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewLeaveRequestRepository(db *database.DB, loc *time.Location) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db, loc: loc}
}

func (r *leaveRequestRepositoryImpl) scan(row pgx.Row) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.LeaveType,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&l.Status,
		&l.ReviewedBy,
		&l.ReviewedAt,
		&l.CreatedAt,
		&l.UserName,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	l.StartDate = civil(l.StartDate, r.loc)
	l.EndDate = civil(l.EndDate, r.loc)
	return l, nil
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, where string, args ...any) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, leaveRequestSelect+" WHERE "+where+" ORDER BY lr.created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []leave.LeaveRequest
	for rows.Next() {
		l, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.Status == "" {
		request.Status = leave.StatusPending
	}
	query := `
		INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		request.UserID,
		request.LeaveType,
		dateArg(request.StartDate),
		dateArg(request.EndDate),
		request.Reason,
		request.Status,
	).Scan(&id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if !validID(id) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	l, err := r.scan(q.QueryRow(ctx, leaveRequestSelect+" WHERE lr.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return l, nil
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.list(ctx, "lr.user_id = $1", userID)
}

// ListPending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListPending(ctx context.Context) ([]leave.LeaveRequest, error) {
	return r.list(ctx, "lr.status = $1", leave.StatusPending)
}

// UpdateStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest) error {
	if !validID(request.ID) {
		return leave.ErrLeaveRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE leave_requests SET status = $2, reviewed_by = $3, reviewed_at = $4 WHERE id = $1`,
		request.ID, request.Status, request.ReviewedBy, request.ReviewedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// DeleteByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "leave_requests", userID)
}
