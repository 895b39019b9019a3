package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const rosterSelect = `
	SELECT r.id, r.user_id, r.day_of_week, r.start_time, r.end_time, r.week_start, r.week_end,
		   r.is_off, r.notes, r.role_title, u.name
	FROM rosters r
	JOIN users u ON u.id = r.user_id`

type rosterRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewRosterRepository(db *database.DB, loc *time.Location) roster.RosterRepository {
	return &rosterRepositoryImpl{db: db, loc: loc}
}

func (r *rosterRepositoryImpl) scan(row pgx.Row) (roster.Roster, error) {
	var ro roster.Roster
	err := row.Scan(
		&ro.ID,
		&ro.UserID,
		&ro.DayOfWeek,
		&ro.StartTime,
		&ro.EndTime,
		&ro.WeekStart,
		&ro.WeekEnd,
		&ro.IsOff,
		&ro.Notes,
		&ro.RoleTitle,
		&ro.UserName,
	)
	if err != nil {
		return roster.Roster{}, err
	}
	ro.WeekStart = civilPtr(ro.WeekStart, r.loc)
	ro.WeekEnd = civilPtr(ro.WeekEnd, r.loc)
	return ro, nil
}

func (r *rosterRepositoryImpl) list(ctx context.Context, where string, args ...any) ([]roster.Roster, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, rosterSelect+" WHERE "+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Roster
	for rows.Next() {
		ro, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	roster.SortByDay(out)
	return out, nil
}

// Upsert implements roster.RosterRepository.
func (r *rosterRepositoryImpl) Upsert(ctx context.Context, ro roster.Roster) (roster.Roster, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rosters (user_id, day_of_week, start_time, end_time, week_start, week_end, is_off, notes, role_title)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, day_of_week, (COALESCE(week_start, DATE '0001-01-01')))
		DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
			week_end = EXCLUDED.week_end, is_off = EXCLUDED.is_off,
			notes = EXCLUDED.notes, role_title = EXCLUDED.role_title
		RETURNING id
	`
	var id string
	err := q.QueryRow(ctx, query,
		ro.UserID,
		ro.DayOfWeek,
		ro.StartTime,
		ro.EndTime,
		dateArgPtr(ro.WeekStart),
		dateArgPtr(ro.WeekEnd),
		ro.IsOff,
		ro.Notes,
		ro.RoleTitle,
	).Scan(&id)
	if err != nil {
		return roster.Roster{}, err
	}

	saved, err := r.scan(q.QueryRow(ctx, rosterSelect+" WHERE r.id = $1", id))
	if err != nil {
		return roster.Roster{}, err
	}
	return saved, nil
}

// Find implements roster.RosterRepository.
func (r *rosterRepositoryImpl) Find(ctx context.Context, userID, dayOfWeek string, weekStart *time.Time) (*roster.Roster, error) {
	if !validID(userID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := rosterSelect + ` WHERE r.user_id = $1 AND r.day_of_week = $2 AND r.week_start IS NOT DISTINCT FROM $3::date`
	ro, err := r.scan(q.QueryRow(ctx, query, userID, dayOfWeek, dateArgPtr(weekStart)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ro, nil
}

// ListForUserWeek implements roster.RosterRepository.
func (r *rosterRepositoryImpl) ListForUserWeek(ctx context.Context, userID string, weekStart time.Time) ([]roster.Roster, error) {
	if !validID(userID) {
		return nil, nil
	}
	return r.list(ctx, "r.user_id = $1 AND (r.week_start IS NULL OR r.week_start = $2)", userID, dateArg(weekStart))
}

// ListByWeek implements roster.RosterRepository. Template rows are excluded.
func (r *rosterRepositoryImpl) ListByWeek(ctx context.Context, weekStart time.Time) ([]roster.Roster, error) {
	return r.list(ctx, "r.week_start = $1 ORDER BY u.name", dateArg(weekStart))
}

// DeleteByUser implements roster.RosterRepository.
func (r *rosterRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "rosters", userID)
}
