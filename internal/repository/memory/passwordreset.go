package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
)

type tokenRepository struct {
	s *Store
}

func (s *Store) ResetTokens() passwordreset.TokenRepository {
	return &tokenRepository{s: s}
}

func (r *tokenRepository) Create(ctx context.Context, t passwordreset.Token) (passwordreset.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t.ID = newID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.s.now()
	}
	put(ctx, r.s.st.tokens, t.ID, t)
	return t, nil
}

func (r *tokenRepository) GetByToken(ctx context.Context, token string) (passwordreset.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.st.tokens {
		if t.Token == token {
			return t, nil
		}
	}
	return passwordreset.Token{}, passwordreset.ErrTokenInvalid
}

func (r *tokenRepository) MarkUsed(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.st.tokens[id]
	if !ok {
		return passwordreset.ErrTokenInvalid
	}
	if t.Used {
		return passwordreset.ErrTokenUsed
	}
	t.Used = true
	put(ctx, r.s.st.tokens, id, t)
	return nil
}

func (r *tokenRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.st.tokens {
		if t.Used || t.CreatedAt.Before(cutoff) {
			remove(ctx, r.s.st.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *tokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.st.tokens {
		if t.UserID == userID {
			remove(ctx, r.s.st.tokens, id)
		}
	}
	return nil
}
