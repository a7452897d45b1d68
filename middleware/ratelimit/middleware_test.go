package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/services/jwt"
	"github.com/tasknest/tasknest/testutils"
)

func newTestStack(t *testing.T, identityLimit, addressLimit int) (*echo.Echo, *jwt.Service) {
	jwtService := jwt.NewService(testutils.GetTestConfig(), nil)

	limiters := &Limiters{
		Identity: NewLimiter(identityLimit, time.Minute),
		Address:  NewLimiter(addressLimit, time.Minute),
	}

	e := echo.New()
	e.Use(Middleware(limiters, jwtService, nil))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	return e, jwtService
}

func doRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareAddressLimiting(t *testing.T) {
	e, _ := newTestStack(t, 100, 2)

	assert.Equal(t, http.StatusOK, doRequest(e, "").Code)
	assert.Equal(t, http.StatusOK, doRequest(e, "").Code)

	rec := doRequest(e, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Try again in")
}

func TestMiddlewareIdentityLimiting(t *testing.T) {
	t.Run("valid token uses identity limiter and skips address checks", func(t *testing.T) {
		e, jwtService := newTestStack(t, 100, 1)

		token, err := jwtService.GenerateToken(7, false)
		require.NoError(t, err)

		// far beyond the address limit, all admitted under the identity key
		for i := 0; i < 10; i++ {
			assert.Equal(t, http.StatusOK, doRequest(e, token).Code)
		}
	})

	t.Run("identity limit enforced per user", func(t *testing.T) {
		e, jwtService := newTestStack(t, 2, 100)

		alice, err := jwtService.GenerateToken(1, false)
		require.NoError(t, err)
		bob, err := jwtService.GenerateToken(2, false)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, doRequest(e, alice).Code)
		assert.Equal(t, http.StatusOK, doRequest(e, alice).Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(e, alice).Code)

		assert.Equal(t, http.StatusOK, doRequest(e, bob).Code)
	})

	t.Run("invalid token falls back to address limiting without rejecting", func(t *testing.T) {
		e, _ := newTestStack(t, 100, 2)

		assert.Equal(t, http.StatusOK, doRequest(e, "garbage").Code)
		assert.Equal(t, http.StatusOK, doRequest(e, "garbage").Code)
		assert.Equal(t, http.StatusTooManyRequests, doRequest(e, "garbage").Code)
	})

	t.Run("expired token falls back to address limiting", func(t *testing.T) {
		e, _ := newTestStack(t, 100, 5)

		expiredCfg := testutils.GetTestConfig()
		expiredCfg.JWT.AccessExpiry = -time.Minute
		expired, err := jwt.NewService(expiredCfg, nil).GenerateToken(7, false)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, doRequest(e, expired).Code)
	})
}
