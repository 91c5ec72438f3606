package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerGenerateValidate(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")

	access, refresh, err := m.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	sub, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)

	sub, err = m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestTokenManagerCrossSecrets(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")

	access, refresh, err := m.Generate("user-123")
	require.NoError(t, err)

	// access-токен не проходит как refresh и наоборот — секреты разные
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestTokenManagerWrongSecret(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")
	other := NewTokenManager("another-secret", "another-refresh")

	access, _, err := m.Generate("user-123")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(access)
	assert.Error(t, err)
}

func TestTokenManagerExpired(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-123",
		"exp":  time.Now().Add(-time.Minute).Unix(),
		"type": "access",
	})
	tokenStr, err := expired.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(tokenStr)
	assert.Error(t, err)
}

func TestTokenManagerGarbage(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")

	_, err := m.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)

	// токен без sub невалиден
	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	tokenStr, err := noSub.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(tokenStr)
	assert.Error(t, err)
}
