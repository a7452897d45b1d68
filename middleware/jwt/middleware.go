package jwt

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tasknest/tasknest/models"
	"github.com/tasknest/tasknest/services/auth"
	"github.com/tasknest/tasknest/services/jwt"
)

const (
	UserKey   = "_auth_user"
	ClaimsKey = "_jwt_claims"
)

// RequireAuth is the first tier of the guard chain: a verified bearer token
// whose subject resolves to an existing, active account. Failures here are
// 401; the stricter tiers below return 403 because the caller is known but
// lacks privilege.
func RequireAuth(jwtService *jwt.Service, authService *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Bearer token required")
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				switch err {
				case jwt.ErrExpiredToken:
					return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
				case jwt.ErrMalformedToken:
					return echo.NewHTTPError(http.StatusUnauthorized, "Malformed token")
				case jwt.ErrInvalidSignature:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
			}

			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Malformed token")
			}

			user, err := authService.GetActiveUser(userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User inactive or not found")
			}

			c.Set(UserKey, user)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			if !user.EmailVerified {
				return echo.NewHTTPError(http.StatusForbidden, "Email not verified")
			}

			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			if !user.IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin privileges required")
			}

			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *models.User {
	if user, ok := c.Get(UserKey).(*models.User); ok {
		return user
	}
	return nil
}

func CurrentClaims(c echo.Context) *jwt.Claims {
	if claims, ok := c.Get(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
