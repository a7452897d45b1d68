package avatarfunc

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Prefix  string `env:"AVATAR_PREFIX" envDefault:"avatars/"`
	Suffix  string `env:"PROCESSED_SUFFIX" envDefault:"_processed"`
	MaxSide int    `env:"TARGET_MAX_SIDE" envDefault:"512"`
	Format  string `env:"TARGET_FORMAT" envDefault:"jpeg"`
	Quality int    `env:"TARGET_QUALITY" envDefault:"80"`

	S3 S3Config `envPrefix:"S3_"`
}

type S3Config struct {
	Region       string `env:"REGION" envDefault:"us-east-1"`
	Endpoint     string `env:"ENDPOINT"`
	AccessKey    string `env:"ACCESS_KEY"`
	SecretKey    string `env:"SECRET_KEY"`
	UsePathStyle bool   `env:"USE_PATH_STYLE" envDefault:"false"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.Format {
	case "jpeg", "png", "gif":
	default:
		return nil, fmt.Errorf("unsupported target format %q", cfg.Format)
	}

	if cfg.MaxSide <= 0 {
		return nil, fmt.Errorf("target max side must be positive, got %d", cfg.MaxSide)
	}
	if cfg.Quality < 1 || cfg.Quality > 100 {
		return nil, fmt.Errorf("target quality must be 1-100, got %d", cfg.Quality)
	}

	return cfg, nil
}
