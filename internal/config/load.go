package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to every environment variable read by Load.
	EnvPrefix = "TASKFLOW"

	// ConfigFileEnv names the environment variable that points at a YAML config file.
	ConfigFileEnv = "TASKFLOW_CONFIG_FILE"

	// LegacySecretEnv is accepted as an alternative source of the signing secret.
	LegacySecretEnv = "JWT_SECRET_KEY"

	defaultConfigFile = "config.yaml"
)

// Default physical collection names per logical collection.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over the file, except for the signing
// secret: a secret present in the config file overrides the environment.
// Returns a populated Config or an error wrapping ErrInvalidConfig.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("%w: failed to bind environment: %v", ErrInvalidConfig, err)
	}

	if path := configFilePath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
		}
		if err := applyFileSecret(v, path); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", ErrInvalidConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				// Never echo values: the secret is among the validated fields.
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: validation failed: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CollectionName returns the physical name for a logical collection,
// falling back to the logical name itself when no override is configured.
func (c DatabaseConfig) CollectionName(logical string) string {
	if name, ok := c.Collections[logical]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	return logical
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.collections.users", UsersCollection)
	v.SetDefault("database.collections.tasks", TasksCollection)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.connect_timeout_seconds", 5)
	v.SetDefault("auth.bcrypt_cost", 12)
}

// bindEnv registers keys without defaults so AutomaticEnv picks them up on Unmarshal.
func bindEnv(v *viper.Viper) error {
	for _, key := range []string{"database.url", "database.name"} {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}
	return v.BindEnv("auth.jwt_secret", EnvPrefix+"_AUTH_JWT_SECRET", LegacySecretEnv)
}

// applyFileSecret gives a secret from the config file precedence over the environment.
func applyFileSecret(v *viper.Viper, path string) error {
	fv := viper.New()
	fv.SetConfigFile(path)
	if err := fv.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}
	if secret := fv.GetString("auth.jwt_secret"); secret != "" {
		v.Set("auth.jwt_secret", secret)
	}
	return nil
}

func configFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}
