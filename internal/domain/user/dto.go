package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           *string  `json:"email,omitempty"`
	EmployeeCode    *string  `json:"employee_code,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Role            string   `json:"role"`
	Phone           *string  `json:"phone,omitempty"`
	ProfilePicture  *string  `json:"profile_picture,omitempty"`
	IsActive        bool     `json:"is_active"`
	IsStaff         bool     `json:"is_staff"`
	Position        *string  `json:"position,omitempty"`
	VisaType        *string  `json:"visa_type,omitempty"`
	WeeklyHourLimit *float64 `json:"weekly_hour_limit,omitempty"`
	LastLoginAt     *string  `json:"last_login_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

// ToResponse maps a user entity to its API shape.
func ToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		EmployeeCode:    u.EmployeeCode,
		Department:      u.Department,
		Role:            string(u.Role),
		Phone:           u.Phone,
		ProfilePicture:  u.ProfilePicture,
		IsActive:        u.IsActive,
		IsStaff:         u.IsStaff,
		Position:        u.Position,
		VisaType:        u.VisaType,
		WeeklyHourLimit: u.WeeklyHourLimit,
		CreatedAt:       u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}

// CreateEmployeeRequest represents request to add a new employee
type CreateEmployeeRequest struct {
	Name            string   `json:"name"`
	Email           *string  `json:"email,omitempty"`
	EmployeeCode    *string  `json:"employee_code,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Position        *string  `json:"position,omitempty"`
	VisaType        *string  `json:"visa_type,omitempty"`
	WeeklyHourLimit *float64 `json:"weekly_hour_limit,omitempty"`
	Role            string   `json:"role"`
	IsStaff         bool     `json:"is_staff"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if !validator.IsValidUsername(r.Name) {
		errs.Add("name", "name may contain letters, digits, spaces, dots, dashes and underscores")
	}

	if r.Email != nil && !validator.IsEmpty(*r.Email) && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}

	if r.Role == "" {
		r.Role = string(RoleEmployee)
	}
	if !Role(r.Role).IsValid() {
		errs.Add("role", "role must be employee or admin")
	}

	if r.WeeklyHourLimit != nil && (*r.WeeklyHourLimit <= 0 || *r.WeeklyHourLimit > 168) {
		errs.Add("weekly_hour_limit", "weekly_hour_limit must be between 0 and 168")
	}

	return errs.OrNil()
}

// CreateEmployeeResponse carries the generated temporary password exactly once.
type CreateEmployeeResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password"`
}

// UpdateEmployeeRequest replaces the editable profile fields of a user.
type UpdateEmployeeRequest struct {
	ID              string   `json:"-"`
	Email           *string  `json:"email,omitempty"`
	EmployeeCode    *string  `json:"employee_code,omitempty"`
	Department      *string  `json:"department,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Position        *string  `json:"position,omitempty"`
	VisaType        *string  `json:"visa_type,omitempty"`
	WeeklyHourLimit *float64 `json:"weekly_hour_limit,omitempty"`
	Role            *string  `json:"role,omitempty"`
	IsStaff         bool     `json:"is_staff"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Email != nil && !validator.IsEmpty(*r.Email) && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "invalid email format")
	}
	if r.Role != nil && !Role(*r.Role).IsValid() {
		errs.Add("role", "role must be employee or admin")
	}
	if r.WeeklyHourLimit != nil && (*r.WeeklyHourLimit <= 0 || *r.WeeklyHourLimit > 168) {
		errs.Add("weekly_hour_limit", "weekly_hour_limit must be between 0 and 168")
	}

	return errs.OrNil()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CurrentPassword == "" {
		errs.Add("current_password", "current_password is required")
	}
	if len(r.NewPassword) < MinPasswordLength {
		errs.Add("new_password", "password must be at least 6 characters")
	}
	if r.NewPassword != r.ConfirmPassword {
		errs.Add("confirm_password", "new passwords don't match")
	}

	return errs.OrNil()
}

type ChangeUsernameRequest struct {
	Name string `json:"name"`
}

func (r *ChangeUsernameRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "username cannot be empty")
	} else if !validator.IsValidUsername(r.Name) {
		errs.Add("name", "name may contain letters, digits, spaces, dots, dashes and underscores")
	}

	return errs.OrNil()
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}

func (r *UpdateEmailRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs.Add("email", "invalid email format")
	}

	return errs.OrNil()
}

type UpdatePhoneRequest struct {
	Phone string `json:"phone"`
}
