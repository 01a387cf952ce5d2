package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"         validate:"required"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url"            validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// Notification drivers.
const (
	NotificationDriverRedis  = "redis"
	NotificationDriverMemory = "memory"
)

// NotificationConfig configures the channel that carries "task performed"
// events to the notifier process.
type NotificationConfig struct {
	Driver        string `mapstructure:"driver"         validate:"required,oneof=redis memory"`
	RedisAddr     string `mapstructure:"redis_addr"     validate:"required_if=Driver redis"`
	Stream        string `mapstructure:"stream"         validate:"required"`
	ConsumerGroup string `mapstructure:"consumer_group" validate:"required"`
	ConsumerName  string `mapstructure:"consumer_name"  validate:"required"`
}
