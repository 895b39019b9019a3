package jwt

import (
	"sync"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(userID string, name string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	// RevokeToken denies token until its own expiry.
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
	// PurgeRevoked forgets revoked tokens that have expired anyway.
	PurgeRevoked(now time.Time) int
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService builds an HS256 issuer. accessTokenExpirationTime is a Go duration such as "8h".
func NewJWTService(secretKey string, accessTokenExpirationTime string) (*JWTService, error) {
	exp, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpirationTime: exp,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, name string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"name":    name,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) RevokeToken(token string) {
	expiresAt := j.now().Add(j.accessTokenExpirationTime).Unix()
	if t, err := j.tokenAuth.Decode(token); err == nil && !t.Expiration().IsZero() {
		expiresAt = t.Expiration().Unix()
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PurgeRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	purged := 0
	for token, exp := range j.revokedTokens {
		if exp <= now.Unix() {
			delete(j.revokedTokens, token)
			purged++
		}
	}
	return purged
}
