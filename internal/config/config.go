// Package config loads taskplan configuration from a YAML file and
// TASKPLAN_-prefixed environment variables via viper.
//
// Precedence, lowest to highest: built-in defaults, config file,
// environment variables, command-line flags bound by the cmd package.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/felixgeelhaar/taskplan/internal/provider"
)

// Config is the complete taskplan configuration.
type Config struct {
	Provider provider.Config `mapstructure:"provider"`
	Store    StoreConfig     `mapstructure:"store"`
	Server   ServerConfig    `mapstructure:"server"`
	Logging  LoggingConfig   `mapstructure:"logging"`
}

// StoreConfig controls where generated plans are persisted.
type StoreConfig struct {
	// Dir is the directory holding plan record files.
	Dir string `mapstructure:"dir"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string `mapstructure:"address"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// ReadTimeout bounds reading an entire request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout bounds response writes. Plan creation waits on an
	// LLM call, so this defaults well above typical HTTP values.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// IdleTimeout bounds keep-alive connections.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// LoggingConfig controls structured log output.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is "json" or "text".
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: provider.Config{
			Name: "groq",
		},
		Store: StoreConfig{
			Dir: DataDir(),
		},
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    120 * time.Second,
			IdleTimeout:     60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("provider.name", defaults.Provider.Name)
	viper.SetDefault("provider.model", defaults.Provider.Model)
	viper.SetDefault("provider.base_url", defaults.Provider.BaseURL)

	viper.SetDefault("store.dir", defaults.Store.Dir)

	viper.SetDefault("server.address", defaults.Server.Address)
	viper.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	viper.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	viper.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)
	viper.SetDefault("server.idle_timeout", defaults.Server.IdleTimeout)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values that cannot work at all.
// API key presence is checked lazily, only when a provider call is made.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "groq", "openai", "ollama":
	default:
		return fmt.Errorf("unknown provider %q (supported: groq, openai, ollama)", c.Provider.Name)
	}

	if c.Store.Dir == "" {
		return fmt.Errorf("store.dir must not be empty")
	}

	switch c.Logging.Format {
	case "json", "text", "":
	default:
		return fmt.Errorf("unknown logging format %q (supported: json, text)", c.Logging.Format)
	}

	return nil
}

// ConfigDir returns the path to the user's taskplan config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskplan"
	}
	return filepath.Join(home, ".config", "taskplan")
}

// ConfigFile returns the default config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DataDir returns the default directory for persisted plans.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskplan", "plans")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskplan", "plans")
	}
	return filepath.Join(home, ".local", "share", "taskplan", "plans")
}
