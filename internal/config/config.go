package config

import "errors"

// ErrInvalidConfig is returned when configuration is missing or fails validation.
// It is always fatal: the process must not start with an invalid configuration.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int      `mapstructure:"port"                 validate:"required,gt=0,lt=65536"`
	LogLevel           string   `mapstructure:"log_level"            validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains the document store connection settings.
type DatabaseConfig struct {
	// URL is the store connection string.
	URL string `mapstructure:"url" validate:"required"`
	// Name overrides the database named in URL when set.
	Name string `mapstructure:"name"`
	// Collections maps logical collection names (e.g. "users") to physical ones.
	Collections           map[string]string `mapstructure:"collections"`
	MaxOpenConns          int               `mapstructure:"max_open_conns"          validate:"gte=1"`
	ConnectTimeoutSeconds int               `mapstructure:"connect_timeout_seconds" validate:"gte=1"`
}

// AuthConfig contains all authentication settings.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"  validate:"required,min=32"`
	BcryptCost int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}
