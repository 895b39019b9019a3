package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// setupTestData connects, truncates, and registers cleanup. Tests skip when
// no database is configured.
func setupTestData(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

func createTestUser(t *testing.T, repo user.UserRepository, name string, role user.Role) user.User {
	t.Helper()
	u, err := repo.Create(context.Background(), user.User{
		Name:         name,
		Email:        strPtr(name + "@example.com"),
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository(t *testing.T) {
	setup := setupTestData(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	ana := createTestUser(t, repo, "ana", user.RoleEmployee)
	assert.NotEmpty(t, ana.ID)
	createTestUser(t, repo, "boss", user.RoleAdmin)

	t.Run("unique name and email", func(t *testing.T) {
		_, err := repo.Create(ctx, user.User{Name: "ANA", PasswordHash: "x", Role: user.RoleEmployee})
		assert.ErrorIs(t, err, user.ErrUsernameExists)

		_, err = repo.Create(ctx, user.User{Name: "other", Email: strPtr("Ana@Example.com"), PasswordHash: "x", Role: user.RoleEmployee})
		assert.ErrorIs(t, err, user.ErrEmailExists)
	})

	t.Run("login by name or email", func(t *testing.T) {
		got, err := repo.GetByLogin(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, ana.ID, got.ID)

		got, err = repo.GetByLogin(ctx, "ANA@example.com")
		require.NoError(t, err)
		assert.Equal(t, ana.ID, got.ID)

		_, err = repo.GetByLogin(ctx, "nobody")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("list filter and counts", func(t *testing.T) {
		role := user.RoleEmployee
		users, err := repo.List(ctx, user.UserFilter{Role: &role, ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "ana", users[0].Name)

		admins, err := repo.CountAdmins(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, admins)

		total, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("update and delete", func(t *testing.T) {
		ana.Phone = strPtr("+15550100")
		require.NoError(t, repo.Update(ctx, ana))

		got, err := repo.GetByPhone(ctx, "+15550100")
		require.NoError(t, err)
		assert.Equal(t, ana.ID, got.ID)

		require.NoError(t, repo.Delete(ctx, ana.ID))
		assert.ErrorIs(t, repo.Delete(ctx, ana.ID), user.ErrUserNotFound)
	})
}

func TestTimeEntryRepository(t *testing.T) {
	setup := setupTestData(t)
	ctx := context.Background()
	loc := time.UTC
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewTimeEntryRepository(setup.DB, loc)
	ana := createTestUser(t, users, "ana", user.RoleEmployee)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, loc)
	e, err := repo.Create(ctx, timeentry.TimeEntry{UserID: ana.ID, Day: day})
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusPending, e.Status)
	assert.Equal(t, "ana", e.UserName)

	again, err := repo.Create(ctx, timeentry.TimeEntry{UserID: ana.ID, Day: day})
	require.NoError(t, err)
	assert.Equal(t, e.ID, again.ID)

	in := e.At(9, 0)
	out := e.At(17, 0)
	e.ClockIn, e.ClockOut = &in, &out
	require.NoError(t, repo.Update(ctx, e))

	got, err := repo.GetByUserAndDay(ctx, ana.ID, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ClockIn.Equal(in))
	assert.True(t, got.Day.Equal(day))

	pending, err := repo.ListPendingReview(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	week, err := repo.ListByUserRange(ctx, ana.ID, day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, week, 1)

	n, err := repo.DeleteByUserRange(ctx, ana.ID, day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRosterRepository_TemplateSlot(t *testing.T) {
	setup := setupTestData(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewRosterRepository(setup.DB, time.UTC)
	ana := createTestUser(t, users, "ana", user.RoleEmployee)

	first, err := repo.Upsert(ctx, roster.Roster{UserID: ana.ID, DayOfWeek: "Monday", StartTime: strPtr("09:00"), EndTime: strPtr("17:00")})
	require.NoError(t, err)
	second, err := repo.Upsert(ctx, roster.Roster{UserID: ana.ID, DayOfWeek: "Monday", StartTime: strPtr("10:00"), EndTime: strPtr("18:00")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err = repo.Upsert(ctx, roster.Roster{UserID: ana.ID, DayOfWeek: "Monday", WeekStart: &monday, IsOff: true})
	require.NoError(t, err)

	rows, err := repo.ListForUserWeek(ctx, ana.ID, monday)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotNil(t, rows[0].WeekStart)

	tmpl, err := repo.Find(ctx, ana.ID, "Monday", nil)
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, "10:00", *tmpl.StartTime)
}

func TestWeekApprovalAndSettings(t *testing.T) {
	setup := setupTestData(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	weeks := postgresql.NewWeekApprovalRepository(setup.DB, time.UTC)
	ana := createTestUser(t, users, "ana", user.RoleEmployee)

	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	w, err := weeks.Upsert(ctx, weeklock.WeekApproval{UserID: ana.ID, WeekStart: monday, WeekEnd: monday.AddDate(0, 0, 6), State: weeklock.StateLocked})
	require.NoError(t, err)
	assert.True(t, w.IsLocked())

	got, err := weeks.GetByUserWeek(ctx, ana.ID, monday)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, w.ID, got.ID)

	repo := postgresql.NewSettingsRepository(setup.DB)
	s, err := repo.GetOrCreate(ctx, settings.Settings{WorkingHoursPerDay: 8, OvertimeThresholdHours: 40})
	require.NoError(t, err)
	assert.Equal(t, settings.SingletonID, s.ID)

	s.WorkingHoursPerDay = 7.5
	_, err = repo.Update(ctx, s)
	require.NoError(t, err)
	s, err = repo.GetOrCreate(ctx, settings.Settings{WorkingHoursPerDay: 8})
	require.NoError(t, err)
	assert.Equal(t, 7.5, s.WorkingHoursPerDay)
}

func TestResetTokenRepository(t *testing.T) {
	setup := setupTestData(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(setup.DB)
	repo := postgresql.NewResetTokenRepository(setup.DB)
	ana := createTestUser(t, users, "ana", user.RoleEmployee)

	tok, err := repo.Create(ctx, passwordreset.Token{UserID: ana.ID, Token: "plain-token"})
	require.NoError(t, err)

	got, err := repo.GetByToken(ctx, "plain-token")
	require.NoError(t, err)
	assert.Equal(t, tok.ID, got.ID)

	require.NoError(t, repo.MarkUsed(ctx, tok.ID))
	assert.True(t, errors.Is(repo.MarkUsed(ctx, tok.ID), passwordreset.ErrTokenUsed))

	n, err := repo.DeleteStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByToken(ctx, "plain-token")
	assert.ErrorIs(t, err, passwordreset.ErrTokenInvalid)
}
