package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUsernameExists          = errors.New("username already taken")
	ErrEmailExists             = errors.New("email already registered")
	ErrEmployeeCodeExists      = errors.New("employee code already registered")
	ErrAccountInactive         = errors.New("account is deactivated")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCannotModifyAdmin       = errors.New("admin accounts cannot be deactivated or deleted")
	ErrLastAdmin               = errors.New("cannot remove the last admin")
	ErrIncorrectPassword       = errors.New("current password is incorrect")
	ErrInvalidImage            = errors.New("invalid image file: use a real PNG, JPG, or GIF")
)
