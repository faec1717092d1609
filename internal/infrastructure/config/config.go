package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	JWT   JWTConfig
	Mail  MailConfig
	Rate  RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hospital"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type JWTConfig struct {
	SigningKey      string `env:"JWT_SIGNING_KEY, required"`
	Issuer          string `env:"JWT_ISSUER,   default=hospital-system"`
	Audience        string `env:"JWT_AUDIENCE, default=hospital-system"`
	LifetimeMinutes int    `env:"JWT_LIFETIME_MINUTES, default=30"`
}

type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=noreply@hospital.local"`
	Workers  int    `env:"MAIL_WORKERS, default=4"`
}

type RateLimitConfig struct {
	Limit         int64 `env:"RATE_LIMIT,        default=5"`
	WindowSeconds int   `env:"RATE_LIMIT_WINDOW, default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
