package notification

import "time"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Template names an HTML email layout; empty means plain text.
type Template string

const (
	TemplateDailySummary         Template = "daily_summary"
	TemplatePasswordReset        Template = "password_reset"
	TemplatePasswordResetSuccess Template = "password_reset_success"
)

// Message is one outbound notification travelling through the queue.
type Message struct {
	ID        string            `json:"id"`
	Channel   Channel           `json:"channel"`
	To        string            `json:"to"`
	Subject   string            `json:"subject,omitempty"`
	Body      string            `json:"body"`
	Template  Template          `json:"template,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	Attempt   int               `json:"attempt"`
	CreatedAt time.Time         `json:"created_at"`
}
