package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken("u-1", "geetika", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	uid, _ := decoded.Get("user_id")
	role, _ := decoded.Get("role")
	typ, _ := decoded.Get("type")
	assert.Equal(t, "u-1", uid)
	assert.Equal(t, "admin", role)
	assert.Equal(t, TokenTypeAccess, typ)
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("s", "forever")
	assert.Error(t, err)
}

func TestRevokeAndPurge(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken("u-1", "bo", user.RoleEmployee)
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))

	assert.Equal(t, 0, svc.PurgeRevoked(time.Now()))
	assert.Equal(t, 1, svc.PurgeRevoked(time.Now().Add(2*time.Hour)))
	assert.False(t, svc.IsTokenRevoked(token))
}
