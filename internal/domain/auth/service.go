package auth

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes the presented access token.
	Logout(ctx context.Context, actor user.Actor, token string) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	// Init seeds settings and the first admin. actor may be nil for token-based calls.
	Init(ctx context.Context, actor *user.Actor, req InitRequest) (InitResponse, error)
	// PurgeResetTokens removes used and expired reset tokens.
	PurgeResetTokens(ctx context.Context) (int64, error)
}
