package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Punches, requests corrections and leave
	RoleAdmin    Role = "admin"    // Approves, edits, exports
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

type User struct {
	ID              string
	Name            string
	Email           *string
	PasswordHash    string
	EmployeeCode    *string
	Department      *string
	Role            Role
	Phone           *string
	ProfilePicture  *string
	IsActive        bool
	IsStaff         bool
	Position        *string
	VisaType        *string
	WeeklyHourLimit *float64
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor builds the request-scoped authorization context for u.
func (u *User) Actor() Actor {
	return Actor{
		UserID:   u.ID,
		Name:     u.Name,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
