package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	RateLimit RateLimitConfig `envPrefix:"RATELIMIT_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"Tasknest"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"8080"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"tasknest.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type JWTConfig struct {
	SecretKey    string        `env:"SECRET" envDefault:"dev-secret-key-change-me"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"60m"`
	Issuer       string        `env:"ISSUER" envDefault:"tasknest"`
}

type AuthConfig struct {
	BcryptCost                   int           `env:"BCRYPT_COST" envDefault:"10"`
	MinPasswordLength            int           `env:"MIN_PASSWORD_LENGTH" envDefault:"8"`
	EmailVerificationTokenLength int           `env:"EMAIL_VERIFICATION_TOKEN_LENGTH" envDefault:"32"`
	EmailVerificationExpiry      time.Duration `env:"EMAIL_VERIFICATION_EXPIRY" envDefault:"24h"`
}

type RateLimitConfig struct {
	AuthenticatedRate int           `env:"AUTHENTICATED_RATE" envDefault:"120"`
	AnonymousRate     int           `env:"ANONYMOUS_RATE" envDefault:"30"`
	Period            time.Duration `env:"PERIOD" envDefault:"1m"`
}

type MailConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@localhost"`
}

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return validateJWTConfig(&cfg.JWT)
}

func validateJWTConfig(cfg *JWTConfig) error {
	if cfg.SecretKey == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}

	if cfg.AccessExpiry <= 0 {
		return fmt.Errorf("JWT access expiry must be positive, got %s", cfg.AccessExpiry)
	}

	return nil
}
