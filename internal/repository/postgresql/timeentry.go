package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const timeEntrySelect = `
	SELECT e.id, e.user_id, e.day, e.clock_in, e.clock_out, e.lunch_start, e.lunch_end,
		   e.dinner_start, e.dinner_end, e.status, e.notes, e.shift_notes,
		   e.approved_by, e.approved_at, e.created_at, e.updated_at, u.name
	FROM time_entries e
	JOIN users u ON u.id = e.user_id`

type timeEntryRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

// NewTimeEntryRepository returns entries whose Day is midnight in loc.
func NewTimeEntryRepository(db *database.DB, loc *time.Location) timeentry.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db, loc: loc}
}

func (r *timeEntryRepositoryImpl) scan(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Day,
		&e.ClockIn,
		&e.ClockOut,
		&e.LunchStart,
		&e.LunchEnd,
		&e.DinnerStart,
		&e.DinnerEnd,
		&e.Status,
		&e.Notes,
		&e.ShiftNotes,
		&e.ApprovedBy,
		&e.ApprovedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.UserName,
	)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	e.Day = civil(e.Day, r.loc)
	for _, p := range []**time.Time{&e.ClockIn, &e.ClockOut, &e.LunchStart, &e.LunchEnd, &e.DinnerStart, &e.DinnerEnd, &e.ApprovedAt} {
		if *p != nil {
			t := (*p).In(r.loc)
			*p = &t
		}
	}
	return e, nil
}

func (r *timeEntryRepositoryImpl) query(ctx context.Context, where string, args ...any) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, timeEntrySelect+" WHERE "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timeentry.TimeEntry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create implements timeentry.TimeEntryRepository. An existing row for the
// same user and day is returned unchanged.
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	if e.Status == "" {
		e.Status = timeentry.StatusPending
	}
	query := `
		INSERT INTO time_entries (user_id, day, status, notes, shift_notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, day) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, e.UserID, dateArg(e.Day), e.Status, e.Notes, e.ShiftNotes); err != nil {
		return timeentry.TimeEntry{}, err
	}

	created, err := r.GetByUserAndDay(ctx, e.UserID, e.Day)
	if err != nil {
		return timeentry.TimeEntry{}, err
	}
	if created == nil {
		return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
	}
	return *created, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	if !validID(id) {
		return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
	}
	q := GetQuerier(ctx, r.db)

	e, err := r.scan(q.QueryRow(ctx, timeEntrySelect+" WHERE e.id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return timeentry.TimeEntry{}, timeentry.ErrTimeEntryNotFound
		}
		return timeentry.TimeEntry{}, err
	}
	return e, nil
}

// GetByUserAndDay implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetByUserAndDay(ctx context.Context, userID string, day time.Time) (*timeentry.TimeEntry, error) {
	if !validID(userID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	e, err := r.scan(q.QueryRow(ctx, timeEntrySelect+" WHERE e.user_id = $1 AND e.day = $2", userID, dateArg(day)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Update implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Update(ctx context.Context, e timeentry.TimeEntry) error {
	if !validID(e.ID) {
		return timeentry.ErrTimeEntryNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET clock_in = $2, clock_out = $3, lunch_start = $4, lunch_end = $5,
			dinner_start = $6, dinner_end = $7, status = $8, notes = $9, shift_notes = $10,
			approved_by = $11, approved_at = $12, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		e.ID,
		e.ClockIn,
		e.ClockOut,
		e.LunchStart,
		e.LunchEnd,
		e.DinnerStart,
		e.DinnerEnd,
		e.Status,
		e.Notes,
		e.ShiftNotes,
		e.ApprovedBy,
		e.ApprovedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrTimeEntryNotFound
	}
	return nil
}

// ListByUserRange implements timeentry.TimeEntryRepository. Both bounds are inclusive.
func (r *timeEntryRepositoryImpl) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]timeentry.TimeEntry, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.query(ctx, "e.user_id = $1 AND e.day BETWEEN $2 AND $3 ORDER BY e.day, u.name",
		userID, dateArg(from), dateArg(to))
}

// ListByDay implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) ListByDay(ctx context.Context, day time.Time) ([]timeentry.TimeEntry, error) {
	return r.query(ctx, "e.day = $1 ORDER BY u.name", dateArg(day))
}

// ListByRange implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) ListByRange(ctx context.Context, from, to time.Time) ([]timeentry.TimeEntry, error) {
	return r.query(ctx, "e.day BETWEEN $1 AND $2 ORDER BY e.day, u.name", dateArg(from), dateArg(to))
}

// ListPendingReview implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) ListPendingReview(ctx context.Context) ([]timeentry.TimeEntry, error) {
	return r.query(ctx, `e.status <> 'approved' AND e.clock_in IS NOT NULL AND e.clock_out IS NOT NULL
		ORDER BY e.day DESC, u.name DESC`)
}

// DeleteByUserRange implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) DeleteByUserRange(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	if !validID(userID) {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM time_entries WHERE user_id = $1 AND day BETWEEN $2 AND $3`,
		userID, dateArg(from), dateArg(to))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteByUser implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "time_entries", userID)
}

// deleteByUser removes every row of table owned by userID.
func deleteByUser(ctx context.Context, db *database.DB, table, userID string) error {
	if !validID(userID) {
		return nil
	}
	q := GetQuerier(ctx, db)

	_, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID)
	return err
}
