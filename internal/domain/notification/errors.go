package notification

import "errors"

var (
	ErrUnknownChannel = errors.New("unknown notification channel")
	ErrNoRecipient    = errors.New("notification has no recipient")
	ErrNotConfigured  = errors.New("notification channel not configured")
)
