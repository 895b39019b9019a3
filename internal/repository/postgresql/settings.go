package postgresql

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const settingsColumns = `
	id, working_hours_per_day, lunch_break_minutes, dinner_break_minutes, weekly_target_hours,
	session_timeout_minutes, overtime_threshold_hours, overtime_multiplier, updated_at`

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

func scanSettings(row pgx.Row) (settings.Settings, error) {
	var s settings.Settings
	err := row.Scan(
		&s.ID,
		&s.WorkingHoursPerDay,
		&s.LunchBreakMinutes,
		&s.DinnerBreakMinutes,
		&s.WeeklyTargetHours,
		&s.SessionTimeoutMinutes,
		&s.OvertimeThresholdHours,
		&s.OvertimeMultiplier,
		&s.UpdatedAt,
	)
	return s, err
}

// GetOrCreate implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) GetOrCreate(ctx context.Context, defaults settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	insert := `
		INSERT INTO system_settings (
			id, working_hours_per_day, lunch_break_minutes, dinner_break_minutes, weekly_target_hours,
			session_timeout_minutes, overtime_threshold_hours, overtime_multiplier
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := q.Exec(ctx, insert,
		settings.SingletonID,
		defaults.WorkingHoursPerDay,
		defaults.LunchBreakMinutes,
		defaults.DinnerBreakMinutes,
		defaults.WeeklyTargetHours,
		defaults.SessionTimeoutMinutes,
		defaults.OvertimeThresholdHours,
		defaults.OvertimeMultiplier,
	)
	if err != nil {
		return settings.Settings{}, err
	}

	return scanSettings(q.QueryRow(ctx, `SELECT`+settingsColumns+` FROM system_settings WHERE id = $1`, settings.SingletonID))
}

// Update implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO system_settings (
			id, working_hours_per_day, lunch_break_minutes, dinner_break_minutes, weekly_target_hours,
			session_timeout_minutes, overtime_threshold_hours, overtime_multiplier
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			working_hours_per_day = EXCLUDED.working_hours_per_day,
			lunch_break_minutes = EXCLUDED.lunch_break_minutes,
			dinner_break_minutes = EXCLUDED.dinner_break_minutes,
			weekly_target_hours = EXCLUDED.weekly_target_hours,
			session_timeout_minutes = EXCLUDED.session_timeout_minutes,
			overtime_threshold_hours = EXCLUDED.overtime_threshold_hours,
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			updated_at = NOW()
		RETURNING` + settingsColumns

	return scanSettings(q.QueryRow(ctx, query,
		settings.SingletonID,
		s.WorkingHoursPerDay,
		s.LunchBreakMinutes,
		s.DinnerBreakMinutes,
		s.WeeklyTargetHours,
		s.SessionTimeoutMinutes,
		s.OvertimeThresholdHours,
		s.OvertimeMultiplier,
	))
}
