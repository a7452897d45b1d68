package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "Tasknest", cfg.App.Name)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 60*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 24*time.Hour, cfg.Auth.EmailVerificationExpiry)
	assert.Equal(t, 120, cfg.RateLimit.AuthenticatedRate)
	assert.Equal(t, 30, cfg.RateLimit.AnonymousRate)
	assert.Equal(t, time.Minute, cfg.RateLimit.Period)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "15m")
	t.Setenv("RATELIMIT_ANONYMOUS_RATE", "5")

	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 5, cfg.RateLimit.AnonymousRate)
}

func TestValidateJWTConfig(t *testing.T) {
	tests := []struct {
		name      string
		jwtConfig JWTConfig
		wantErr   bool
	}{
		{
			name:      "valid config",
			jwtConfig: JWTConfig{SecretKey: "secret", AccessExpiry: time.Hour, Issuer: "tasknest"},
			wantErr:   false,
		},
		{
			name:      "empty secret",
			jwtConfig: JWTConfig{SecretKey: "", AccessExpiry: time.Hour},
			wantErr:   true,
		},
		{
			name:      "zero expiry",
			jwtConfig: JWTConfig{SecretKey: "secret", AccessExpiry: 0},
			wantErr:   true,
		},
		{
			name:      "negative expiry",
			jwtConfig: JWTConfig{SecretKey: "secret", AccessExpiry: -time.Minute},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJWTConfig(&tt.jwtConfig)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
