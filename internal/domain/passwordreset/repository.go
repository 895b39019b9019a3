package passwordreset

import (
	"context"
	"time"
)

type TokenRepository interface {
	Create(ctx context.Context, t Token) (Token, error)
	// GetByToken returns ErrTokenInvalid when the token does not exist.
	GetByToken(ctx context.Context, token string) (Token, error)
	// MarkUsed flips used only if it is still false; ErrTokenUsed otherwise.
	MarkUsed(ctx context.Context, id string) error
	// DeleteStale removes used tokens and tokens created before cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteByUser(ctx context.Context, userID string) error
}
