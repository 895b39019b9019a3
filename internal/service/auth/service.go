package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/fixtures"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

const (
	resetTokenBytes = 32
	appName         = "TimeTracker"
)

type AuthServiceImpl struct {
	db database.Transactor
	user.UserRepository
	passwordreset.TokenRepository
	roster.RosterRepository
	jwt.Service
	settings  settings.SettingsService
	notifier  notification.Notifier
	audit     audit.Recorder
	cfg       config.AuthConfig
	publicURL string
	now       func() time.Time
}

func NewAuthService(
	db database.Transactor,
	users user.UserRepository,
	tokens passwordreset.TokenRepository,
	rosters roster.RosterRepository,
	jwtService jwt.Service,
	settingsService settings.SettingsService,
	notifier notification.Notifier,
	recorder audit.Recorder,
	cfg config.AuthConfig,
	publicURL string,
) auth.AuthService {
	return &AuthServiceImpl{
		db:               db,
		UserRepository:   users,
		TokenRepository:  tokens,
		RosterRepository: rosters,
		Service:          jwtService,
		settings:         settingsService,
		notifier:         notifier,
		audit:            recorder,
		cfg:              cfg,
		publicURL:        strings.TrimRight(publicURL, "/"),
		now:              time.Now,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by login: %w", err)
	}

	if !utils.CheckPassword(userData.PasswordHash, req.Password) {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, user.ErrAccountInactive
	}

	err = a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		admins, err := a.UserRepository.CountAdmins(ctx)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins == 0 {
			userData.Role = user.RoleAdmin
			if err := a.UserRepository.Update(ctx, userData); err != nil {
				return fmt.Errorf("failed to promote user: %w", err)
			}
			a.audit.Record(ctx, userData.ID, audit.ActionAdminBootstrap, userData.Name+" promoted to admin (no admins found)")
		}
		return a.UserRepository.UpdateLastLogin(ctx, userData.ID)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData.ID, userData.Name, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	a.audit.Record(ctx, userData.ID, audit.ActionLogin, fmt.Sprintf("User %s logged in", userData.Name))
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt - a.now().Unix(),
		User:        user.ToResponse(userData),
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, actor user.Actor, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token)
	a.audit.Record(ctx, actor.UserID, audit.ActionLogout, fmt.Sprintf("User %s logged out", actor.Name))
	return nil
}

// findAccount resolves an identifier by name or email, then by phone number.
func (a *AuthServiceImpl) findAccount(ctx context.Context, identifier string) (user.User, error) {
	u, err := a.UserRepository.GetByLogin(ctx, identifier)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if phone := validator.NormalizePhone(identifier); phone != "" {
		u, err = a.UserRepository.GetByPhone(ctx, phone)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, fmt.Errorf("failed to look up user: %w", err)
		}
	}
	return user.User{}, auth.ErrUserNotFound
}

// resetChannel prefers email unless the caller identified themselves by a
// bare phone number.
func resetChannel(identifier string, u user.User) (notification.Channel, string, bool) {
	if u.Email != nil && (strings.Contains(identifier, "@") || !validator.IsNumeric(identifier)) {
		return notification.ChannelEmail, *u.Email, true
	}
	if u.Phone != nil {
		return notification.ChannelSMS, *u.Phone, true
	}
	return "", "", false
}

// ForgotPassword implements auth.AuthService.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (auth.ForgotPasswordResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.ForgotPasswordResponse{}, err
	}

	account, err := a.findAccount(ctx, req.Identifier)
	if err != nil {
		return auth.ForgotPasswordResponse{}, err
	}

	channel, to, ok := resetChannel(req.Identifier, account)
	if !ok {
		return auth.ForgotPasswordResponse{}, auth.ErrNoDeliveryChannel
	}

	secret, err := utils.RandomToken(resetTokenBytes)
	if err != nil {
		return auth.ForgotPasswordResponse{}, err
	}
	if _, err := a.TokenRepository.Create(ctx, passwordreset.Token{UserID: account.ID, Token: secret}); err != nil {
		return auth.ForgotPasswordResponse{}, fmt.Errorf("failed to store reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password/%s", a.publicURL, secret)
	msg := notification.Message{
		Channel: channel,
		To:      to,
		Data:    map[string]string{"Name": account.Name, "ResetLink": link},
	}
	if channel == notification.ChannelEmail {
		msg.Subject = "Password Reset Request"
		msg.Template = notification.TemplatePasswordReset
		msg.Body = fmt.Sprintf("Hello %s,\n\nYou requested to reset your password. Click the link below:\n\n%s\n\nThis link expires in 24 hours.\n\nIf you didn't request this, ignore this email.\n\nBest regards,\n%s Team", account.Name, link, appName)
	} else {
		msg.Body = fmt.Sprintf("Reset your %s password: %s", appName, link)
	}
	if err := a.notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
		return auth.ForgotPasswordResponse{}, fmt.Errorf("failed to queue reset link: %w", err)
	}

	resp := auth.ForgotPasswordResponse{Channel: string(channel)}
	if a.cfg.ShowResetLink && !a.notifier.Configured(channel) {
		resp.ResetLink = &link
	}

	a.audit.Record(ctx, account.ID, audit.ActionForgotPasswordRequest, fmt.Sprintf("Password reset requested for %s via %s", account.Name, channel))
	return resp, nil
}

// ResetPassword implements auth.AuthService.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	token, err := a.TokenRepository.GetByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, passwordreset.ErrTokenInvalid) {
			return auth.ErrInvalidToken
		}
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if !token.Usable(a.now(), a.cfg.ResetTokenTTL) {
		return auth.ErrInvalidToken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	var account user.User
	err = a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.TokenRepository.MarkUsed(ctx, token.ID); err != nil {
			if errors.Is(err, passwordreset.ErrTokenUsed) {
				return auth.ErrInvalidToken
			}
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		if err := a.UserRepository.UpdatePassword(ctx, token.UserID, hash); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		account, err = a.UserRepository.GetByID(ctx, token.UserID)
		return err
	})
	if err != nil {
		return err
	}

	if account.Email != nil {
		msg := notification.Message{
			Channel:  notification.ChannelEmail,
			To:       *account.Email,
			Subject:  "Password Reset Success",
			Template: notification.TemplatePasswordResetSuccess,
			Body:     fmt.Sprintf("Hi %s, your password has been reset successfully.", account.Name),
			Data:     map[string]string{"Name": account.Name},
		}
		if err := a.notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
			slog.Warn("failed to queue password reset confirmation", "user_id", account.ID, "error", err)
		}
	}

	a.audit.Record(ctx, account.ID, audit.ActionPasswordReset, "Password reset completed")
	return nil
}

// Init implements auth.AuthService.
func (a *AuthServiceImpl) Init(ctx context.Context, actor *user.Actor, req auth.InitRequest) (auth.InitResponse, error) {
	if !a.cfg.InitEnabled {
		return auth.InitResponse{}, auth.ErrInitDisabled
	}
	if actor == nil || !actor.Can(user.PermissionSettingsManage) {
		if a.cfg.InitToken == "" || subtle.ConstantTimeCompare([]byte(req.Token), []byte(a.cfg.InitToken)) != 1 {
			return auth.InitResponse{}, auth.ErrInitForbidden
		}
	}

	if _, err := a.settings.Current(ctx); err != nil {
		return auth.InitResponse{}, err
	}
	resp := auth.InitResponse{SettingsReady: true}

	err := a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		count, err := a.UserRepository.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if count > 0 {
			return nil
		}
		if a.cfg.InitSeedDemo {
			resp.DemoUsersCreated, err = a.seedDemoStaff(ctx)
			resp.AdminCreated = resp.DemoUsersCreated > 0
			return err
		}
		return a.createInitialAdmin(ctx, &resp)
	})
	if err != nil {
		return auth.InitResponse{}, err
	}

	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	a.audit.Record(ctx, actorID, audit.ActionSystemInit, fmt.Sprintf("System initialized (admin created: %t, demo users: %d)", resp.AdminCreated, resp.DemoUsersCreated))
	return resp, nil
}

func (a *AuthServiceImpl) createInitialAdmin(ctx context.Context, resp *auth.InitResponse) error {
	password := a.cfg.InitAdminPassword
	if password == "" {
		generated, err := utils.TemporaryPassword(12)
		if err != nil {
			return err
		}
		password = generated
		resp.TemporaryPassword = &generated
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := user.User{
		Name:         a.cfg.InitAdminName,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsActive:     true,
	}
	if a.cfg.InitAdminEmail != "" {
		email := a.cfg.InitAdminEmail
		admin.Email = &email
	}
	created, err := a.UserRepository.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create initial admin: %w", err)
	}
	resp.AdminCreated = true
	resp.AdminName = &created.Name
	return nil
}

func (a *AuthServiceImpl) seedDemoStaff(ctx context.Context) (int, error) {
	created := 0
	for _, member := range fixtures.GetDemoStaff() {
		hash, err := utils.HashPassword(member.Password())
		if err != nil {
			return created, err
		}
		u := member.User()
		u.PasswordHash = hash
		u, err = a.UserRepository.Create(ctx, u)
		if err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", member.Name, err)
		}
		for _, row := range member.Shift.TemplateRows(u.ID, member.Position) {
			if _, err := a.RosterRepository.Upsert(ctx, row); err != nil {
				return created, fmt.Errorf("failed to seed roster for %s: %w", member.Name, err)
			}
		}
		created++
	}
	return created, nil
}

// PurgeResetTokens implements auth.AuthService.
func (a *AuthServiceImpl) PurgeResetTokens(ctx context.Context) (int64, error) {
	n, err := a.TokenRepository.DeleteStale(ctx, a.now().Add(-a.cfg.ResetTokenTTL))
	if err != nil {
		return 0, fmt.Errorf("failed to purge reset tokens: %w", err)
	}
	return n, nil
}
