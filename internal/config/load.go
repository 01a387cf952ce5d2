package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. MAINT_DATABASE_URL for database.url.
const EnvPrefix = "MAINT"

// defaults lists every configuration key with its default value.
// Registering each key is what lets viper's AutomaticEnv feed Unmarshal.
var defaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.shutdown_timeout_seconds": 10,

	"database.url":            "",
	"database.max_open_conns": 10,
	"database.max_idle_conns": 5,

	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 60,
	"auth.bcrypt_cost":            10,

	"notification.driver":         NotificationDriverRedis,
	"notification.redis_addr":     "localhost:6379",
	"notification.stream":         "performs",
	"notification.consumer_group": "notifier",
	"notification.consumer_name":  "notifier-1",
}

// Load configuration from a .env file, an optional config.yaml and
// environment variables. Environment variables take precedence over values
// from the config file. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using process environment", "error", err)
	}

	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation over cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
