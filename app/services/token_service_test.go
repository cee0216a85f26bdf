package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-key-0123456789abcdef"

func newTestService(t *testing.T, ttl time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(ttl, "queueline", "queueline-api", testSecret)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(time.Hour, "queueline", "queueline-api", "")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.GenerateToken(TokenIdentity{
		UserID:   "USER-20250314093000_x7kq",
		Username: "jdoe",
		UserType: "teller",
		Name:     "Jane Doe",
		Role:     "Teller",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "USER-20250314093000_x7kq", claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "teller", claims.UserType)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.Equal(t, "Teller", claims.Role)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	token, err := svc.GenerateToken(TokenIdentity{UserID: "USER-1", Username: "jdoe", UserType: "teller"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenSignedWithOtherKey(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := NewTokenService(time.Hour, "queueline", "queueline-api", "a-completely-different-secret-key-xyz")
	require.NoError(t, err)

	token, err := other.GenerateToken(TokenIdentity{UserID: "USER-1", Username: "jdoe", UserType: "teller"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenWrongAudience(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := NewTokenService(time.Hour, "queueline", "some-other-api", testSecret)
	require.NoError(t, err)

	token, err := other.GenerateToken(TokenIdentity{UserID: "USER-1", Username: "jdoe", UserType: "teller"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
