package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

type Config struct {
	Primary     Primary           `koanf:"primary"`
	API         APIConfig         `koanf:"api"`
	Credentials CredentialsConfig `koanf:"credentials"`
	Retry       RetryConfig       `koanf:"retry"`
	RateLimit   RateLimitConfig   `koanf:"rate_limit"`
	Logger      LoggerConfig      `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type APIConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required"`
	Timeout time.Duration `koanf:"timeout" validate:"required"`
}

type CredentialsConfig struct {
	Account     string `koanf:"account" validate:"required"`
	SecretKey   string `koanf:"secret_key" validate:"required"`
	ServiceCode string `koanf:"service_code" validate:"required"`
	Region      string `koanf:"region" validate:"required,len=2"`
}

// ToCredentials converts the loaded values into the domain value object.
func (c CredentialsConfig) ToCredentials() domain.Credentials {
	return domain.Credentials{
		Account:     c.Account,
		SecretKey:   c.SecretKey,
		ServiceCode: c.ServiceCode,
		Region:      c.Region,
	}
}

type RetryConfig struct {
	MaxRetries    int           `koanf:"max_retries"`
	BaseDelay     time.Duration `koanf:"base_delay"`
	MaxDelay      time.Duration `koanf:"max_delay"`
	BackoffFactor float64       `koanf:"backoff_factor"`
}

type RateLimitConfig struct {
	Calls  int           `koanf:"calls" validate:"required"`
	Period time.Duration `koanf:"period" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// NewLogger builds a slog text logger at the configured level.
func (c LoggerConfig) NewLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("APICLIENT_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APICLIENT_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
