package auth

import (
	"strings"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

// LoginRequest accepts either the user name or the email as identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Username = strings.TrimSpace(r.Username)
	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}

	return errs.OrNil()
}

type TokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int64             `json:"expires_in"`
	User        user.UserResponse `json:"user"`
}

// ForgotPasswordRequest identifies the account by email, name or phone.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Identifier = strings.TrimSpace(r.Identifier)
	if r.Identifier == "" {
		errs.Add("identifier", "email, username or phone is required")
	}

	return errs.OrNil()
}

type ForgotPasswordResponse struct {
	Channel string `json:"channel"`
	// ResetLink is only echoed when no delivery channel is configured and the
	// deployment allows it.
	ResetLink *string `json:"reset_link,omitempty"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs.Add("token", "token is required")
	}
	if len(r.Password) < user.MinPasswordLength {
		errs.Add("password", "password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		errs.Add("confirm_password", "passwords don't match")
	}

	return errs.OrNil()
}

// InitRequest bootstraps an empty installation.
type InitRequest struct {
	Token string `json:"token"`
}

type InitResponse struct {
	SettingsReady bool    `json:"settings_ready"`
	AdminCreated  bool    `json:"admin_created"`
	AdminName     *string `json:"admin_name,omitempty"`
	// TemporaryPassword is set when no INIT_ADMIN_PASSWORD was configured.
	TemporaryPassword *string `json:"temporary_password,omitempty"`
	DemoUsersCreated  int     `json:"demo_users_created"`
}
