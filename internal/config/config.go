// Package config provides configuration management for svgg.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with SVGG_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml, ~/.svgg/config.yaml, /etc/svgg/config.yaml)
//  3. .env files
//  4. Environment variables (SVGG_ prefix)
//
// # Usage Example
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Max file size: %d\n", cfg.Limits.MaxFileSize)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use SVGG_ prefix and underscores for nested keys:
//   - SVGG_LIMITS_MAX_FILE_SIZE=20971520
//   - SVGG_IMPORT_COMPRESS=true
//   - SVGG_SERVER_PORT=5000
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure for svgg.
type Config struct {
	// Import contains defaults for the import operation
	Import ImportConfig `mapstructure:"import"`

	// Limits contains size and concurrency guards
	Limits LimitsConfig `mapstructure:"limits"`

	// Server contains API server configuration
	Server ServerConfig `mapstructure:"server"`

	// Logging contains logging settings
	Logging LoggingConfig `mapstructure:"logging"`

	// Security contains API security and rate limiting settings
	Security SecurityConfig `mapstructure:"security"`
}

// ImportConfig contains defaults for the import operation.
type ImportConfig struct {
	// Compress enables the deflate pass for embedded payloads
	Compress bool `mapstructure:"compress"`

	// PreserveStructure records the directory tree for directory and
	// archive imports
	PreserveStructure bool `mapstructure:"preserve_structure"`

	// IgnorePatterns are glob-style patterns skipped during
	// directory imports, in addition to the built-in defaults
	IgnorePatterns []string `mapstructure:"ignore_patterns"`
}

// LimitsConfig contains size and concurrency guards.
type LimitsConfig struct {
	// MaxFileSize is the maximum raw size of a single embedded file
	// in bytes (default: 10 MiB)
	MaxFileSize int64 `mapstructure:"max_file_size"`

	// MaxTotalSize is the maximum combined raw size of all entries
	// in one container in bytes (default: 100 MiB)
	MaxTotalSize int64 `mapstructure:"max_total_size"`

	// Workers is the worker pool size for batch processing of
	// multiple containers
	Workers int `mapstructure:"workers"`
}

// ServerConfig contains API server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server listen port (default: 5000)
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging and verbose error responses
	Debug bool `mapstructure:"debug"`

	// WorkDir is the directory containing the host documents the
	// server is allowed to operate on
	WorkDir string `mapstructure:"work_dir"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format"`
}

// SecurityConfig contains API security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// APIKeys are valid API keys for authentication (empty disables
	// authentication)
	APIKeys []string `mapstructure:"api_keys"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SVGG_ prefix)
//  2. .env file
//  3. Configuration file
//  4. Default values
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.svgg")
		v.AddConfigPath("/etc/svgg")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			// Explicit file path: proceed with defaults only when the
			// file simply does not exist.
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.MergeInConfig() // Ignore error if .env file doesn't exist

	v.SetEnvPrefix("SVGG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("import.compress", false)
	v.SetDefault("import.preserve_structure", false)
	v.SetDefault("import.ignore_patterns", []string{})

	v.SetDefault("limits.max_file_size", 10*1024*1024)
	v.SetDefault("limits.max_total_size", 100*1024*1024)
	v.SetDefault("limits.workers", 4)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.work_dir", ".")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.api_keys", []string{})
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Limits.MaxFileSize <= 0 {
		return fmt.Errorf("limits.max_file_size must be positive")
	}

	if cfg.Limits.MaxTotalSize < cfg.Limits.MaxFileSize {
		return fmt.Errorf("limits.max_total_size (%d) is smaller than limits.max_file_size (%d)",
			cfg.Limits.MaxTotalSize, cfg.Limits.MaxFileSize)
	}

	if cfg.Limits.Workers < 1 {
		return fmt.Errorf("limits.workers must be at least 1")
	}

	return nil
}

func Get() *Config {
	return cfg
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
