package passwordreset

import "time"

// Token is a single-use password reset credential.
type Token struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	Used      bool
}

// Expired reports whether the token is older than ttl at now.
func (t Token) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) >= ttl
}

// Usable reports whether the token can still be redeemed.
func (t Token) Usable(now time.Time, ttl time.Duration) bool {
	return !t.Used && !t.Expired(now, ttl)
}
