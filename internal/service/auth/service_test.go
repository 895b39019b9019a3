package auth

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timekeeper-go/internal/repository/memory"
	auditService "github.com/cmlabs-hris/timekeeper-go/internal/service/audit"
	settingsService "github.com/cmlabs-hris/timekeeper-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test-secret-key-for-jwt"
	testAccessExp = "1h"
	testInitToken = "let-me-in"
)

type recordingNotifier struct {
	mu         sync.Mutex
	sent       []notification.Message
	configured bool
}

func (n *recordingNotifier) Notify(ctx context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) Configured(ch notification.Channel) bool { return n.configured }

func (n *recordingNotifier) last(t *testing.T) notification.Message {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

func newService(t *testing.T, cfg config.AuthConfig) (*memory.Store, auth.AuthService, *jwt.JWTService, *recordingNotifier) {
	t.Helper()
	store := memory.NewStore()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	recorder := auditService.NewAuditService(store.ActivityLogs())
	settings := settingsService.NewSettingsService(store.Settings(), config.SettingsDefaults{
		WorkingHoursPerDay: 8, WeeklyTargetHours: 40, OvertimeThresholdHours: 40, OvertimeMultiplier: 1.5,
	}, recorder)

	if cfg.ResetTokenTTL == 0 {
		cfg.ResetTokenTTL = 24 * time.Hour
	}
	if cfg.InitAdminName == "" {
		cfg.InitAdminName = "admin"
	}
	svc := NewAuthService(store.Transactor(), store.Users(), store.ResetTokens(), store.Rosters(),
		jwtService, settings, notifier, recorder, cfg, "https://tt.example.com/")
	return store, svc, jwtService, notifier
}

func createUser(t *testing.T, store *memory.Store, u user.User, password string) user.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u.PasswordHash = hash
	created, err := store.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }

func TestLogin(t *testing.T) {
	store, svc, jwtService, _ := newService(t, config.AuthConfig{})
	ctx := context.Background()
	createUser(t, store, user.User{Name: "Geetika", Role: user.RoleAdmin, IsActive: true}, "admin123")
	createUser(t, store, user.User{Name: "Rutul", Email: strPtr("rutul@example.com"), Role: user.RoleEmployee, IsActive: true}, "password123")

	t.Run("by email", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginRequest{Username: "rutul@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, "Rutul", resp.User.Name)
		assert.Equal(t, "employee", resp.User.Role)
		assert.InDelta(t, 3600, resp.ExpiresIn, 5)

		decoded, err := jwtService.JWTAuth().Decode(resp.AccessToken)
		require.NoError(t, err)
		name, _ := decoded.Get("name")
		assert.Equal(t, "Rutul", name)
	})

	t.Run("by name", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "Rutul", Password: "password123"})
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "Rutul", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{Username: "ghost", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginRequest{})
		assert.Error(t, err)
	})
}

func TestLogin_InactiveAccountRefused(t *testing.T) {
	store, svc, _, _ := newService(t, config.AuthConfig{})
	createUser(t, store, user.User{Name: "Aman", Role: user.RoleEmployee, IsActive: false}, "aman123")

	_, err := svc.Login(context.Background(), auth.LoginRequest{Username: "Aman", Password: "aman123"})
	assert.ErrorIs(t, err, user.ErrAccountInactive)
}

func TestLogin_PromotesWhenNoAdminExists(t *testing.T) {
	store, svc, _, _ := newService(t, config.AuthConfig{})
	ctx := context.Background()
	u := createUser(t, store, user.User{Name: "Sneha", Role: user.RoleEmployee, IsActive: true}, "sneha123")

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: "Sneha", Password: "sneha123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)

	stored, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, stored.Role)
	assert.NotNil(t, stored.LastLoginAt)

	logs, err := store.ActivityLogs().ListLatest(ctx, 10)
	require.NoError(t, err)
	actions := []string{}
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	assert.Contains(t, actions, "ADMIN_BOOTSTRAP")
	assert.Contains(t, actions, "LOGIN")
}

func TestLogout_RevokesToken(t *testing.T) {
	store, svc, jwtService, _ := newService(t, config.AuthConfig{})
	u := createUser(t, store, user.User{Name: "Geetika", Role: user.RoleAdmin, IsActive: true}, "admin123")

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Username: "Geetika", Password: "admin123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), u.Actor(), resp.AccessToken))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))
	assert.ErrorIs(t, svc.Logout(context.Background(), u.Actor(), ""), auth.ErrInvalidToken)
}

func resetSecret(msg notification.Message) string {
	return path.Base(msg.Data["ResetLink"])
}

func TestForgotAndResetPassword(t *testing.T) {
	store, svc, _, notifier := newService(t, config.AuthConfig{})
	ctx := context.Background()
	createUser(t, store, user.User{Name: "Geetika", Role: user.RoleAdmin, IsActive: true}, "admin123")
	createUser(t, store, user.User{Name: "Rutul", Email: strPtr("rutul@example.com"), Role: user.RoleEmployee, IsActive: true}, "old-pass")

	resp, err := svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "Rutul"})
	require.NoError(t, err)
	assert.Equal(t, "email", resp.Channel)
	assert.Nil(t, resp.ResetLink)

	msg := notifier.last(t)
	assert.Equal(t, "rutul@example.com", msg.To)
	assert.Equal(t, "Password Reset Request", msg.Subject)
	assert.Contains(t, msg.Body, "https://tt.example.com/reset-password/")
	secret := resetSecret(msg)

	err = svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: secret, Password: "new-pass", ConfirmPassword: "other"})
	assert.Error(t, err)

	require.NoError(t, svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: secret, Password: "new-pass", ConfirmPassword: "new-pass"}))
	assert.Equal(t, "Password Reset Success", notifier.last(t).Subject)

	_, err = svc.Login(ctx, auth.LoginRequest{Username: "Rutul", Password: "new-pass"})
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: secret, Password: "again1", ConfirmPassword: "again1"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestForgotPassword_Channels(t *testing.T) {
	store, svc, _, notifier := newService(t, config.AuthConfig{ShowResetLink: true})
	ctx := context.Background()
	createUser(t, store, user.User{Name: "Aman", Email: strPtr("aman@example.com"), Phone: strPtr("+61412345678"), Role: user.RoleEmployee, IsActive: true}, "x123456")
	createUser(t, store, user.User{Name: "Suraj", Role: user.RoleEmployee, IsActive: true}, "x123456")

	resp, err := svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "+61 412 345 678"})
	require.NoError(t, err)
	assert.Equal(t, "email", resp.Channel)

	_, err = svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "61412345678"})
	require.ErrorIs(t, err, auth.ErrUserNotFound)

	_, err = svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "Suraj"})
	assert.ErrorIs(t, err, auth.ErrNoDeliveryChannel)

	_, err = svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "nobody"})
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	resp, err = svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "aman@example.com"})
	require.NoError(t, err)
	require.NotNil(t, resp.ResetLink)
	assert.Equal(t, notifier.last(t).Data["ResetLink"], *resp.ResetLink)
}

func TestForgotPassword_SMSForNumericIdentifier(t *testing.T) {
	store, svc, _, notifier := newService(t, config.AuthConfig{})
	createUser(t, store, user.User{Name: "Udita", Email: strPtr("udita@example.com"), Phone: strPtr("0412345678"), Role: user.RoleEmployee, IsActive: true}, "x123456")

	resp, err := svc.ForgotPassword(context.Background(), auth.ForgotPasswordRequest{Identifier: "0412345678"})
	require.NoError(t, err)
	assert.Equal(t, "sms", resp.Channel)
	msg := notifier.last(t)
	assert.Equal(t, "0412345678", msg.To)
	assert.Contains(t, msg.Body, "Reset your TimeTracker password: ")
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	store, svc, _, notifier := newService(t, config.AuthConfig{ResetTokenTTL: time.Hour})
	ctx := context.Background()
	createUser(t, store, user.User{Name: "Rutul", Email: strPtr("rutul@example.com"), Role: user.RoleEmployee, IsActive: true}, "old-pass")

	store.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	_, err := svc.ForgotPassword(ctx, auth.ForgotPasswordRequest{Identifier: "rutul@example.com"})
	require.NoError(t, err)
	store.SetClock(time.Now)

	err = svc.ResetPassword(ctx, auth.ResetPasswordRequest{Token: resetSecret(notifier.last(t)), Password: "new-pass", ConfirmPassword: "new-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	n, err := svc.PurgeResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInit(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		_, svc, _, _ := newService(t, config.AuthConfig{})
		_, err := svc.Init(ctx, nil, auth.InitRequest{Token: testInitToken})
		assert.ErrorIs(t, err, auth.ErrInitDisabled)
	})

	t.Run("wrong token", func(t *testing.T) {
		_, svc, _, _ := newService(t, config.AuthConfig{InitEnabled: true, InitToken: testInitToken})
		_, err := svc.Init(ctx, nil, auth.InitRequest{Token: "guess"})
		assert.ErrorIs(t, err, auth.ErrInitForbidden)
	})

	t.Run("creates admin once", func(t *testing.T) {
		store, svc, _, _ := newService(t, config.AuthConfig{InitEnabled: true, InitToken: testInitToken, InitAdminPassword: "admin123"})
		resp, err := svc.Init(ctx, nil, auth.InitRequest{Token: testInitToken})
		require.NoError(t, err)
		assert.True(t, resp.SettingsReady)
		assert.True(t, resp.AdminCreated)
		require.NotNil(t, resp.AdminName)
		assert.Equal(t, "admin", *resp.AdminName)
		assert.Nil(t, resp.TemporaryPassword)

		_, err = svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: "admin123"})
		require.NoError(t, err)

		resp, err = svc.Init(ctx, nil, auth.InitRequest{Token: testInitToken})
		require.NoError(t, err)
		assert.False(t, resp.AdminCreated)
		n, err := store.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("generated password", func(t *testing.T) {
		_, svc, _, _ := newService(t, config.AuthConfig{InitEnabled: true, InitToken: testInitToken})
		resp, err := svc.Init(ctx, nil, auth.InitRequest{Token: testInitToken})
		require.NoError(t, err)
		require.NotNil(t, resp.TemporaryPassword)

		_, err = svc.Login(ctx, auth.LoginRequest{Username: "admin", Password: *resp.TemporaryPassword})
		assert.NoError(t, err)
	})

	t.Run("admin actor skips token", func(t *testing.T) {
		store, svc, _, _ := newService(t, config.AuthConfig{InitEnabled: true, InitToken: testInitToken})
		admin := createUser(t, store, user.User{Name: "Geetika", Role: user.RoleAdmin, IsActive: true}, "admin123")
		actor := admin.Actor()
		resp, err := svc.Init(ctx, &actor, auth.InitRequest{})
		require.NoError(t, err)
		assert.False(t, resp.AdminCreated)
	})

	t.Run("demo staff", func(t *testing.T) {
		store, svc, _, _ := newService(t, config.AuthConfig{InitEnabled: true, InitToken: testInitToken, InitSeedDemo: true})
		resp, err := svc.Init(ctx, nil, auth.InitRequest{Token: testInitToken})
		require.NoError(t, err)
		assert.Equal(t, 9, resp.DemoUsersCreated)

		login, err := svc.Login(ctx, auth.LoginRequest{Username: "Abhi", Password: "abhi123"})
		require.NoError(t, err)
		assert.Equal(t, "admin", login.User.Role)

		rows, err := store.Rosters().ListForUserWeek(ctx, login.User.ID, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, rows, 7)
	})
}
