package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoDeliveryChannel  = errors.New("no email or phone on file for this account")
	ErrInitDisabled       = errors.New("initialization is disabled")
	ErrInitForbidden      = errors.New("invalid initialization token")
)
