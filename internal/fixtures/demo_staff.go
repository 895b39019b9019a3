package fixtures

import (
	"slices"
	"strings"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// ==========================================
// SHIFT PATTERNS
// ==========================================

// ShiftPattern is a weekly template applied to new demo staff.
type ShiftPattern struct {
	Name  string
	Start string
	End   string
	Days  []string
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// StandardShift returns standard hours (Mon-Fri 09:00-18:00)
func StandardShift() ShiftPattern {
	return ShiftPattern{Name: "Standard Hours", Start: "09:00", End: "18:00", Days: weekdays}
}

// AfternoonShift returns afternoon hours (Tue-Sat 14:00-22:00)
func AfternoonShift() ShiftPattern {
	return ShiftPattern{
		Name:  "Afternoon Shift",
		Start: "14:00",
		End:   "22:00",
		Days:  []string{"Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	}
}

// NightShift returns overnight hours (Mon-Fri 22:00-06:00 next day)
func NightShift() ShiftPattern {
	return ShiftPattern{Name: "Night Shift", Start: "22:00", End: "06:00", Days: weekdays}
}

// TemplateRows expands p into week-less roster rows for userID. Days outside
// the pattern are marked off.
func (p ShiftPattern) TemplateRows(userID, roleTitle string) []roster.Roster {
	rows := make([]roster.Roster, 0, len(roster.Days))
	for _, day := range roster.Days {
		row := roster.Roster{
			UserID:    userID,
			DayOfWeek: day,
			StartTime: strPtr(p.Start),
			EndTime:   strPtr(p.End),
		}
		if roleTitle != "" {
			row.RoleTitle = strPtr(roleTitle)
		}
		row.SetOff(!slices.Contains(p.Days, day))
		rows = append(rows, row)
	}
	return rows
}

// ==========================================
// DEMO STAFF
// ==========================================

// DemoMember describes one seeded account.
type DemoMember struct {
	Name         string
	EmployeeCode string
	Department   string
	Position     string
	Admin        bool
	Staff        bool
	Shift        ShiftPattern
}

// Email is the demo address derived from the member name.
func (m DemoMember) Email() string {
	return strings.ToLower(m.Name) + "@company.com"
}

// Password is the demo login password. Demo data is for local use only.
func (m DemoMember) Password() string {
	return strings.ToLower(m.Name) + "123"
}

// User builds the account row; the caller sets PasswordHash.
func (m DemoMember) User() user.User {
	role := user.RoleEmployee
	if m.Admin {
		role = user.RoleAdmin
	}
	return user.User{
		Name:         m.Name,
		Email:        strPtr(m.Email()),
		EmployeeCode: strPtr(m.EmployeeCode),
		Department:   strPtr(m.Department),
		Position:     strPtr(m.Position),
		Role:         role,
		IsActive:     true,
		IsStaff:      m.Staff,
	}
}

// GetDemoStaff returns the demo roster of a small hospitality venue.
func GetDemoStaff() []DemoMember {
	return []DemoMember{
		{Name: "Abhi", EmployeeCode: "EMP001", Department: "Operations", Position: "Bartender", Admin: true, Staff: true, Shift: AfternoonShift()},
		{Name: "Rutul", EmployeeCode: "EMP002", Department: "Floor", Position: "Floor Manager", Admin: true, Shift: StandardShift()},
		{Name: "Geetika", EmployeeCode: "EMP003", Department: "Floor", Position: "Supervisor", Admin: true, Shift: StandardShift()},
		{Name: "Palpasa", EmployeeCode: "EMP004", Department: "Floor", Position: "Supervisor", Admin: true, Shift: NightShift()},
		{Name: "Aman", EmployeeCode: "EMP005", Department: "Service", Position: "Waiter", Staff: true, Shift: AfternoonShift()},
		{Name: "Udita", EmployeeCode: "EMP006", Department: "Service", Position: "Waiter", Staff: true, Shift: AfternoonShift()},
		{Name: "Sneha", EmployeeCode: "EMP007", Department: "Service", Position: "Waiter", Staff: true, Shift: StandardShift()},
		{Name: "Suraj", EmployeeCode: "EMP008", Department: "Service", Position: "Waiter", Staff: true, Shift: NightShift()},
		{Name: "Rohisa", EmployeeCode: "EMP009", Department: "Service", Position: "Waiter", Staff: true, Shift: StandardShift()},
	}
}
