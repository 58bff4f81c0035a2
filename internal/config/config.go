package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL" validate:"required"`
	SecretKey   string `env:"SECRET_KEY" validate:"required,min=16"`
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"loglevel"`

	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"session" validate:"required"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"0s" validate:"gte=0"`
	SessionSecure     bool          `env:"SESSION_SECURE" envDefault:"false"`

	// Redis 為選用，未設定 REDIS_ADDR 時登出不做 session 撤銷
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`

	RequireAdminForCafeEdits bool          `env:"REQUIRE_ADMIN_FOR_CAFE_EDITS" envDefault:"false"`
	ShutdownTimeout          time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// 測試可覆寫
var loadDotenv = func() error { return godotenv.Load() }

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Load reads an optional .env file, then the process environment, applies
// defaults and validates the result.
func Load() (*Config, error) {
	if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	v := validator.New()
	if err := v.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return nil, err
	}
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
