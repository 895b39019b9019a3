package handover

import "context"

type MessageRepository interface {
	Create(ctx context.Context, m Message) (Message, error)
	ListLatest(ctx context.Context, limit int) ([]Message, error)
	DeleteByUser(ctx context.Context, userID string) error
}
