package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "8h", cfg.JWT.AccessExpiration)
	assert.Equal(t, "memory", cfg.Queue.Backend)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, 8.0, cfg.Settings.WorkingHoursPerDay)
	assert.Equal(t, 60, cfg.Settings.LunchBreakMinutes)
	assert.Equal(t, 30, cfg.Settings.DinnerBreakMinutes)
	assert.Equal(t, 48.0, cfg.Settings.WeeklyTargetHours)
	assert.Equal(t, 480, cfg.Settings.SessionTimeoutMinutes)
	assert.Equal(t, 40.0, cfg.Settings.OvertimeThresholdHours)
	assert.Equal(t, 1.5, cfg.Settings.OvertimeMultiplier)
	assert.Equal(t, "24h0m0s", cfg.Auth.ResetTokenTTL.String())
	assert.False(t, cfg.SMTP.Configured())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"DB_DRIVER": "memory"}},
		{"postgres without password", map[string]string{"JWT_SECRET_KEY": "x", "DB_DRIVER": "postgres"}},
		{"bad port", map[string]string{"JWT_SECRET_KEY": "x", "DB_DRIVER": "memory", "APP_PORT": "eighty"}},
		{"unknown queue", map[string]string{"JWT_SECRET_KEY": "x", "DB_DRIVER": "memory", "QUEUE_BACKEND": "kafka"}},
		{"init without token", map[string]string{"JWT_SECRET_KEY": "x", "DB_DRIVER": "memory", "INIT_ENABLED": "true"}},
		{"bad timezone", map[string]string{"JWT_SECRET_KEY": "x", "DB_DRIVER": "memory", "APP_TIMEZONE": "Mars/Base"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "tk", Password: "secret", Name: "timekeeper", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://tk:secret@db:5432/timekeeper?sslmode=disable", cfg.DatabaseURL())
}

func TestSMTPConfigured(t *testing.T) {
	assert.False(t, SMTPConfig{}.Configured())
	assert.False(t, SMTPConfig{Host: "smtp.example.com"}.Configured())
	assert.True(t, SMTPConfig{Host: "smtp.example.com", Username: "bot@example.com"}.Configured())
}
