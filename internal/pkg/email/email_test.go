package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer(t *testing.T, cfg config.SMTPConfig, fn sendMailFunc) *Mailer {
	t.Helper()
	m, err := NewMailer(cfg)
	require.NoError(t, err)
	m.sendMail = fn
	m.backoff = 0
	return m
}

var smtpCfg = config.SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "bot@example.com", From: "bot@example.com", FromName: "TimeTracker"}

func TestMailer_UnconfiguredLogsOnly(t *testing.T) {
	called := false
	m := newTestMailer(t, config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	err := m.Send(context.Background(), notification.Message{To: "a@b.co", Subject: "hi", Body: "x"})
	require.NoError(t, err)
	assert.False(t, called)
	assert.False(t, m.Configured())
}

func TestMailer_RendersTemplate(t *testing.T) {
	var sent string
	m := newTestMailer(t, smtpCfg, func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "smtp.example.com:587", addr)
		assert.Equal(t, []string{"ana@example.com"}, to)
		sent = string(msg)
		return nil
	})

	err := m.Send(context.Background(), notification.Message{
		Channel:  notification.ChannelEmail,
		To:       "ana@example.com",
		Subject:  "Daily Work Summary",
		Template: notification.TemplateDailySummary,
		Data:     map[string]string{"Name": "Ana", "Date": "2024-03-04", "WorkedHours": "7.50", "BreakMinutes": "30"},
	})
	require.NoError(t, err)
	assert.Contains(t, sent, "Subject: Daily Work Summary")
	assert.Contains(t, sent, "text/html")
	assert.Contains(t, sent, "7.50h")
	assert.Contains(t, sent, "30m")
}

func TestMailer_RetriesThenFails(t *testing.T) {
	attempts := 0
	m := newTestMailer(t, smtpCfg, func(string, smtp.Auth, string, []string, []byte) error {
		attempts++
		return errors.New("connection refused")
	})

	err := m.Send(context.Background(), notification.Message{To: "a@b.co", Subject: "s", Body: "b"})
	require.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestMailer_NoRecipient(t *testing.T) {
	m := newTestMailer(t, smtpCfg, nil)
	err := m.Send(context.Background(), notification.Message{Body: "b"})
	assert.ErrorIs(t, err, notification.ErrNoRecipient)
}
