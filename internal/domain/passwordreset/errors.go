package passwordreset

import "errors"

var (
	ErrTokenInvalid = errors.New("invalid or expired reset link")
	ErrTokenUsed    = errors.New("reset link already used")
)
