package ratelimit

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tasknest/tasknest/services/jwt"
	"github.com/tasknest/tasknest/services/logging"
	"go.uber.org/zap"
)

// Limiters holds the two independent limiter instances the request path
// consults: one keyed by authenticated identity, one keyed by client address.
type Limiters struct {
	Identity *Limiter
	Address  *Limiter
}

// Middleware picks the identity limiter when the request carries a valid
// bearer token and falls back to address limiting otherwise. The token parse
// here is tolerant: any failure simply selects the address limiter, and only
// the auth middleware later decides whether a bad token blocks the request.
func Middleware(limiters *Limiters, jwtService *jwt.Service, logger *logging.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if claims, err := jwtService.ValidateToken(token); err == nil {
					if userID, err := claims.UserID(); err == nil {
						if err := limiters.Identity.Hit(fmt.Sprintf("user:%d", userID)); err != nil {
							return limitReached(c, logger, err)
						}
						return next(c)
					}
				}
			}

			key := "ip:" + clientAddress(c)
			if err := limiters.Address.Hit(key); err != nil {
				return limitReached(c, logger, err)
			}

			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func clientAddress(c echo.Context) string {
	realIP := c.RealIP()
	if realIP == "" || realIP == "unknown" {
		realIP = "fallback"
	}

	return realIP
}

func limitReached(c echo.Context, logger *logging.Service, err error) error {
	var limitErr *LimitExceededError
	if !errors.As(err, &limitErr) {
		return err
	}

	seconds := int(limitErr.RetryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	logger.Warn("rate limit exceeded",
		zap.String("remote_ip", c.RealIP()),
		zap.Int("retry_after_seconds", seconds))

	c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
	return echo.NewHTTPError(http.StatusTooManyRequests,
		fmt.Sprintf("Rate limit exceeded. Try again in %ds", seconds))
}
