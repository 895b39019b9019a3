package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
)

// Sender posts text messages to an HTTP SMS gateway. When SMS is disabled it
// writes them to the log.
type Sender struct {
	cfg    config.SMSConfig
	client *http.Client
}

func NewSender(cfg config.SMSConfig) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *Sender) Configured() bool {
	return s.cfg.Enabled && s.cfg.WebhookURL != ""
}

type webhookPayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (s *Sender) Send(ctx context.Context, msg notification.Message) error {
	if msg.To == "" {
		return notification.ErrNoRecipient
	}
	if !s.Configured() {
		slog.Info("SMS disabled, message written to log", "to", msg.To, "body", msg.Body)
		return nil
	}

	payload, err := json.Marshal(webhookPayload{To: msg.To, Message: msg.Body})
	if err != nil {
		return fmt.Errorf("failed to encode sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}

	slog.Info("SMS sent successfully", "to", msg.To)
	return nil
}
