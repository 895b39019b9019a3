package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
)

type resetTokenRepositoryImpl struct {
	db *database.DB
}

// NewResetTokenRepository stores only a hash of each token; the plain value
// lives in the reset link.
func NewResetTokenRepository(db *database.DB) passwordreset.TokenRepository {
	return &resetTokenRepositoryImpl{db: db}
}

// hashToken hashes the input string using SHA256 and encodes the result in base64.
func hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// Create implements passwordreset.TokenRepository.
func (r *resetTokenRepositoryImpl) Create(ctx context.Context, t passwordreset.Token) (passwordreset.Token, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO password_reset_tokens (user_id, token_hash)
		VALUES ($1, $2)
		RETURNING id, used, created_at
	`
	if err := q.QueryRow(ctx, query, t.UserID, hashToken(t.Token)).Scan(&t.ID, &t.Used, &t.CreatedAt); err != nil {
		return passwordreset.Token{}, err
	}
	return t, nil
}

// GetByToken implements passwordreset.TokenRepository.
func (r *resetTokenRepositoryImpl) GetByToken(ctx context.Context, token string) (passwordreset.Token, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, user_id, used, created_at FROM password_reset_tokens WHERE token_hash = $1`
	t := passwordreset.Token{Token: token}
	err := q.QueryRow(ctx, query, hashToken(token)).Scan(&t.ID, &t.UserID, &t.Used, &t.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return passwordreset.Token{}, passwordreset.ErrTokenInvalid
		}
		return passwordreset.Token{}, err
	}
	return t, nil
}

// MarkUsed implements passwordreset.TokenRepository.
func (r *resetTokenRepositoryImpl) MarkUsed(ctx context.Context, id string) error {
	if !validID(id) {
		return passwordreset.ErrTokenInvalid
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE password_reset_tokens SET used = TRUE WHERE id = $1 AND NOT used`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return passwordreset.ErrTokenUsed
	}
	return nil
}

// DeleteStale implements passwordreset.TokenRepository.
func (r *resetTokenRepositoryImpl) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM password_reset_tokens WHERE used OR created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteByUser implements passwordreset.TokenRepository.
func (r *resetTokenRepositoryImpl) DeleteByUser(ctx context.Context, userID string) error {
	return deleteByUser(ctx, r.db, "password_reset_tokens", userID)
}
