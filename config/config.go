package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment once at startup
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE"`
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"restaurant.db"`

	// JWTSecret signs customer tokens. Override it in production.
	JWTSecret string        `env:"JWT_SECRET" envDefault:"smart_restaurant_dev_secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	StrictTransitions bool `env:"STRICT_TRANSITIONS" envDefault:"false"`

	UploadDir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadURL      string `env:"UPLOAD_URL" envDefault:"/uploads"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`
	StorageDisk    string `env:"STORAGE_DISK" envDefault:"local"`

	S3 S3Config `envPrefix:"S3_"`

	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

type S3Config struct {
	Bucket   string `env:"BUCKET"`
	Region   string `env:"REGION" envDefault:"us-east-1"`
	Key      string `env:"KEY"`
	Secret   string `env:"SECRET"`
	Endpoint string `env:"ENDPOINT"`
	URL      string `env:"URL"`
}

// Load parses Config from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres)", cfg.DBDriver)
	}
	return cfg, nil
}

// Production reports whether the app runs with production defaults.
func (c Config) Production() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
