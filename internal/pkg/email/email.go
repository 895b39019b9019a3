package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers email notifications over SMTP. Without a configured server
// it writes the message to the log instead.
type Mailer struct {
	cfg       config.SMTPConfig
	templates *template.Template
	sendMail  sendMailFunc
	backoff   time.Duration
}

// NewMailer creates a new SMTP sender
func NewMailer(cfg config.SMTPConfig) (*Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &Mailer{
		cfg:       cfg,
		templates: tmpl,
		sendMail:  smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// Send renders msg and hands it to the SMTP server.
func (m *Mailer) Send(ctx context.Context, msg notification.Message) error {
	if msg.To == "" {
		return notification.ErrNoRecipient
	}

	contentType := "text/plain"
	body := msg.Body
	if msg.Template != "" {
		var buf bytes.Buffer
		if err := m.templates.ExecuteTemplate(&buf, string(msg.Template)+".html", msg.Data); err != nil {
			return fmt.Errorf("failed to execute template: %w", err)
		}
		contentType = "text/html"
		body = buf.String()
	}

	if !m.Configured() {
		slog.Info("SMTP not configured, email written to log",
			"to", msg.To,
			"subject", msg.Subject,
			"body", body,
		)
		return nil
	}

	return m.send(ctx, msg.To, msg.Subject, contentType, body)
}

func (m *Mailer) send(ctx context.Context, to, subject, contentType, body string) error {
	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	headers := fmt.Sprintf("From: %s <%s>\r\n", m.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	headers += "\r\n"

	message := []byte(headers + body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := m.sendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Exponential backoff: 1x, 2x, 4x
		if attempt < maxRetries {
			select {
			case <-time.After(m.backoff * time.Duration(1<<(attempt-1))):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
