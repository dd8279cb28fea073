// Package config loads, defaults, and validates the ivrdir
// configuration from file, environment variables, and built-in
// defaults, and provides factories for the configured backends.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete ivrdir configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (IVRDIR_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
//
// Blob Store Configuration Pattern:
// The blob store backing overlay, users, and activity state is selected
// by Blob.Type; only the matching type-specific section is used.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains the HTTP API settings
	Server ServerConfig `mapstructure:"server"`

	// Blob selects and configures the persistence backend
	Blob BlobConfig `mapstructure:"blob"`

	// Remote configures the upstream IVR directory API
	Remote RemoteConfig `mapstructure:"remote"`

	// Baseline configures the built-in directory dataset
	Baseline BaselineConfig `mapstructure:"baseline"`

	// Auth contains token signing settings
	Auth AuthConfig `mapstructure:"auth"`

	// Metrics controls Prometheus metrics collection
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains the HTTP API settings.
type ServerConfig struct {
	// Host is the listen address. Empty means all interfaces.
	Host string `mapstructure:"host"`

	// Port is the TCP port the API listens on
	Port int `mapstructure:"port" validate:"required,gt=0,lte=65535"`

	// ReadTimeout bounds reading a full request
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"required,gt=0"`

	// WriteTimeout bounds writing a response
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required,gt=0"`

	// IdleTimeout bounds keep-alive connections
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"required,gt=0"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// BlobConfig selects the blob store backing all persisted state.
//
// The Type field determines which implementation is used. Only the
// corresponding type-specific configuration section is used.
type BlobConfig struct {
	// Type specifies which blob store implementation to use
	// Valid values: memory, badger, s3
	Type string `mapstructure:"type" validate:"required,oneof=memory badger s3"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`

	// S3 contains S3-specific configuration
	// Only used when Type = "s3"
	S3 map[string]any `mapstructure:"s3"`
}

// RemoteConfig configures the upstream IVR directory API. When Enabled
// is false the service runs from the baseline dataset alone.
type RemoteConfig struct {
	// Enabled turns the remote source on
	Enabled bool `mapstructure:"enabled"`

	// Endpoint is the API base URL. Defaults to the public endpoint.
	Endpoint string `mapstructure:"endpoint"`

	// Token is the system credential. Required when Enabled.
	// Can be set via IVRDIR_REMOTE_TOKEN.
	Token string `mapstructure:"token"`

	// Timeout bounds each API call
	Timeout time.Duration `mapstructure:"timeout"`

	// ConvertAudio asks the remote to convert uploads to its native
	// audio format
	ConvertAudio bool `mapstructure:"convert_audio"`
}

// BaselineConfig configures the built-in directory dataset.
type BaselineConfig struct {
	// DatasetFile is an optional YAML file replacing the built-in seed
	// tree
	DatasetFile string `mapstructure:"dataset_file"`
}

// AuthConfig contains token signing settings.
type AuthConfig struct {
	// JWTSecret is the HMAC signing key, at least 32 characters.
	// Can be set via IVRDIR_AUTH_JWT_SECRET.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// Issuer is the token issuer claim
	Issuer string `mapstructure:"issuer"`

	// TokenDuration is the session token lifetime
	TokenDuration time.Duration `mapstructure:"token_duration" validate:"required,gt=0"`
}

// MetricsConfig controls Prometheus metrics collection.
type MetricsConfig struct {
	// Enabled turns on the /metrics endpoint and counter collection
	Enabled bool `mapstructure:"enabled"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (IVRDIR_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the IVRDIR_ prefix and underscores
	// Example: IVRDIR_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("IVRDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing
// file is acceptable; defaults apply.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to
// the current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "ivrdir")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "ivrdir")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
