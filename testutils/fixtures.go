package testutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/config"
	"github.com/tasknest/tasknest/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Tasknest Test",
			URL:  "http://localhost:8080",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "0",
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: "json",
			Output: "stdout",
		},
		JWT: config.JWTConfig{
			SecretKey:    "test-secret-key-32-chars-long!!",
			AccessExpiry: 15 * time.Minute,
			Issuer:       "tasknest-test",
		},
		Auth: config.AuthConfig{
			BcryptCost:                   bcrypt.MinCost,
			MinPasswordLength:            8,
			EmailVerificationTokenLength: 32,
			EmailVerificationExpiry:      24 * time.Hour,
		},
		RateLimit: config.RateLimitConfig{
			AuthenticatedRate: 120,
			AnonymousRate:     30,
			Period:            time.Minute,
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
	}
}

type TestUserOption func(*models.User)

func AsAdmin(u *models.User)     { u.IsAdmin = true }
func Verified(u *models.User)    { u.EmailVerified = true }
func Deactivated(u *models.User) { u.IsActive = false }

func CreateTestUser(t *testing.T, db *gorm.DB, email, password string, opts ...TestUserOption) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, db.Create(user).Error)
	return user
}
