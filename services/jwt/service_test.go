package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/testutils"
)

func TestGenerateToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	t.Run("generates valid token with subject and admin claim", func(t *testing.T) {
		tokenString, err := service.GenerateToken(42, true)
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		claims, err := service.ValidateToken(tokenString)
		require.NoError(t, err)

		userID, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
		assert.True(t, claims.Admin)
		assert.Equal(t, cfg.JWT.Issuer, claims.Issuer)
	})

	t.Run("non-admin token carries false admin claim", func(t *testing.T) {
		tokenString, err := service.GenerateToken(7, false)
		require.NoError(t, err)

		claims, err := service.ValidateToken(tokenString)
		require.NoError(t, err)
		assert.False(t, claims.Admin)
	})
}

func TestValidateToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	t.Run("expired token", func(t *testing.T) {
		expiredCfg := testutils.GetTestConfig()
		expiredCfg.JWT.AccessExpiry = -time.Minute
		expiredService := NewService(expiredCfg, nil)

		tokenString, err := expiredService.GenerateToken(1, false)
		require.NoError(t, err)

		claims, err := service.ValidateToken(tokenString)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := service.ValidateToken("not-a-jwt")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		otherCfg := testutils.GetTestConfig()
		otherCfg.JWT.SecretKey = "a-completely-different-secret!!"
		otherService := NewService(otherCfg, nil)

		tokenString, err := otherService.GenerateToken(1, false)
		require.NoError(t, err)

		claims, err := service.ValidateToken(tokenString)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		token := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		tokenString, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := service.ValidateToken(tokenString)
		assert.Nil(t, claims)
		require.Error(t, err)
	})

	t.Run("missing subject is malformed", func(t *testing.T) {
		token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		tokenString, err := token.SignedString([]byte(cfg.JWT.SecretKey))
		require.NoError(t, err)

		claims, err := service.ValidateToken(tokenString)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("non-numeric subject is malformed", func(t *testing.T) {
		token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		tokenString, err := token.SignedString([]byte(cfg.JWT.SecretKey))
		require.NoError(t, err)

		claims, err := service.ValidateToken(tokenString)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})
}

func TestGetAccessExpirySeconds(t *testing.T) {
	cfg := testutils.GetTestConfig()
	cfg.JWT.AccessExpiry = 15 * time.Minute
	service := NewService(cfg, nil)

	assert.Equal(t, 900, service.GetAccessExpirySeconds())
}
