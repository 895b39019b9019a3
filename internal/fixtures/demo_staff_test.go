package fixtures

import (
	"testing"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRows(t *testing.T) {
	rows := AfternoonShift().TemplateRows("u1", "Waiter")
	require.Len(t, rows, 7)

	assert.Equal(t, "Monday", rows[0].DayOfWeek)
	assert.True(t, rows[0].IsOff)
	assert.Nil(t, rows[0].StartTime)

	assert.Equal(t, "Tuesday", rows[1].DayOfWeek)
	assert.False(t, rows[1].IsOff)
	require.NotNil(t, rows[1].StartTime)
	assert.Equal(t, "14:00", *rows[1].StartTime)
	assert.Equal(t, "22:00", *rows[1].EndTime)
	assert.Equal(t, "Waiter", *rows[1].RoleTitle)

	for _, r := range rows {
		assert.Nil(t, r.WeekStart)
		assert.Equal(t, "u1", r.UserID)
	}
}

func TestGetDemoStaff(t *testing.T) {
	staff := GetDemoStaff()
	require.NotEmpty(t, staff)

	codes := map[string]bool{}
	admins := 0
	for _, m := range staff {
		assert.False(t, codes[m.EmployeeCode], "duplicate code %s", m.EmployeeCode)
		codes[m.EmployeeCode] = true
		u := m.User()
		if u.Role == user.RoleAdmin {
			admins++
		}
		assert.True(t, u.IsActive)
	}
	assert.Positive(t, admins)

	abhi := staff[0].User()
	assert.Equal(t, "abhi@company.com", *abhi.Email)
	assert.Equal(t, "abhi123", staff[0].Password())
}
