package user

import (
	"context"
	"io"
)

// EmployeeService is the admin-facing employee management surface.
type EmployeeService interface {
	List(ctx context.Context, actor Actor) ([]UserResponse, error)
	Create(ctx context.Context, actor Actor, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	Update(ctx context.Context, actor Actor, req UpdateEmployeeRequest) (UserResponse, error)
	ToggleActive(ctx context.Context, actor Actor, userID string) (UserResponse, error)
	// Delete removes a non-admin user together with their time entries and rosters.
	Delete(ctx context.Context, actor Actor, userID string) error
}

// AccountService covers the self-service settings page.
type AccountService interface {
	Me(ctx context.Context, actor Actor) (UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error
	ChangeUsername(ctx context.Context, actor Actor, req ChangeUsernameRequest) (UserResponse, error)
	UpdateEmail(ctx context.Context, actor Actor, req UpdateEmailRequest) (UserResponse, error)
	UpdatePhone(ctx context.Context, actor Actor, req UpdatePhoneRequest) (UserResponse, error)
	UploadProfilePicture(ctx context.Context, actor Actor, file io.Reader, filename string) (UserResponse, error)
}
