// Package config provides configuration management for boxtrace.
//
// This package handles loading configuration from multiple sources:
//   - YAML configuration files
//   - Environment variables (with BT_ prefix)
//   - .env files
//   - Default values
//
// # Configuration Sources Priority
//
// Configuration is loaded in the following order (later sources override earlier ones):
//  1. Default values (hardcoded)
//  2. Configuration files (./config.yaml, ./configs/config.yaml, ~/.boxtrace/config.yaml, /etc/boxtrace/config.yaml)
//  3. .env files
//  4. Environment variables (BT_ prefix)
//
// # Environment Variables
//
// Environment variables override all other configuration sources.
// Use the BT_ prefix and underscores for nested keys:
//   - BT_SERVER_PORT=8090
//   - BT_LOOKUP_TIMEOUT=45s
//   - BT_RULES_FILE=/etc/boxtrace/tariffs.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/freightops-pro/boxtrace/internal/adapters"
)

// Config is the root configuration structure for boxtrace.
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Lookup contains container lookup orchestration settings
	Lookup LookupConfig `mapstructure:"lookup"`

	// Rules contains free-time rule table settings
	Rules RulesConfig `mapstructure:"rules"`

	// Credentials holds per-terminal API credentials keyed by
	// "PORT/TERMINAL", with a port-wide "PORT" entry as fallback
	Credentials map[string]adapters.Credentials `mapstructure:"credentials"`

	// Security contains security and rate limiting settings
	Security SecurityConfig `mapstructure:"security"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address (default: 0.0.0.0)
	Host string `mapstructure:"host"`

	// Port is the server listen port (default: 8090)
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading requests
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration for writing responses
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// ShutdownTimeout is the maximum duration for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Debug enables debug logging
	Debug bool `mapstructure:"debug"`
}

// LookupConfig contains orchestrator settings.
type LookupConfig struct {
	// Timeout is the per-adapter-call budget (default: 30s)
	Timeout time.Duration `mapstructure:"timeout"`

	// PortPriority overrides the built-in multi-port search order.
	// Empty means use the default (highest container volume first).
	PortPriority []string `mapstructure:"port_priority"`
}

// RulesConfig names the optional external tariff file.
type RulesConfig struct {
	// File is a YAML file of per-port free-time rules merged over the
	// built-in tariffs. Empty means built-ins only.
	File string `mapstructure:"file"`
}

// SecurityConfig contains security and rate limiting settings.
type SecurityConfig struct {
	// RateLimit is the maximum requests per second per client
	RateLimit int `mapstructure:"rate_limit"`

	// AllowedOrigins are the CORS allowed origins
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// APIKeys are valid API keys for authentication. Empty disables
	// API-key checking.
	APIKeys []string `mapstructure:"api_keys"`
}

var cfg *Config

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, it searches for config.yaml in standard locations.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (BT_ prefix)
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
		v.AddConfigPath("$HOME/.boxtrace")
		v.AddConfigPath("/etc/boxtrace")
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file that is simply missing falls back to
		// defaults; any other read error is fatal.
		if cfgFile != "" {
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

	v.SetEnvPrefix("BT")
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
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.debug", false)

	v.SetDefault("lookup.timeout", "30s")
	v.SetDefault("lookup.port_priority", []string{})

	v.SetDefault("rules.file", "")

	v.SetDefault("security.rate_limit", 100)
	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.api_keys", []string{})
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Lookup.Timeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got %v", cfg.Lookup.Timeout)
	}

	for _, code := range cfg.Lookup.PortPriority {
		if len(code) != 5 {
			return fmt.Errorf("invalid port code %q in lookup.port_priority: UN/LOCODEs are 5 characters", code)
		}
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
