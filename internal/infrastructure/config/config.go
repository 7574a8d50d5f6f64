package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// FileEnv names the optional configuration file
const FileEnv = "APP_CONFIG"

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `yaml:"app" toml:"app" json:"app"`
	Request   RequestConfig   `yaml:"request" toml:"request" json:"request"`
	Server    ServerConfig    `yaml:"server" toml:"server" json:"server"`
	Logging   LogConfig       `yaml:"logging" toml:"logging" json:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"`
	DevTools  DevToolsConfig  `yaml:"devtools" toml:"devtools" json:"devtools"`
}

// AppConfig holds shell settings.
type AppConfig struct {
	Debug           bool   `envconfig:"APP_DEBUG" yaml:"debug" toml:"debug" json:"debug"`
	Version         string `envconfig:"APP_VERSION" yaml:"version" toml:"version" json:"version"`
	TickIntervalMS  int    `envconfig:"APP_TICK_INTERVAL_MS" yaml:"tick_interval_ms" toml:"tick_interval_ms" json:"tick_interval_ms"`
	HostQueryPolicy string `envconfig:"APP_HOST_QUERY_POLICY" yaml:"host_query_policy" toml:"host_query_policy" json:"host_query_policy"`
	Platform        string `envconfig:"APP_PLATFORM" yaml:"platform" toml:"platform" json:"platform"`
}

// RequestConfig holds request wrapper defaults.
type RequestConfig struct {
	TimeoutMS int `envconfig:"REQUEST_TIMEOUT_MS" yaml:"timeout_ms" toml:"timeout_ms" json:"timeout_ms"`
}

// ServerConfig holds debug console configuration.
type ServerConfig struct {
	Port           string `envconfig:"PORT" yaml:"port" toml:"port" json:"port"`
	Host           string `envconfig:"HOST" yaml:"host" toml:"host" json:"host"`
	ConsoleEnabled bool   `envconfig:"CONSOLE_ENABLED" yaml:"console_enabled" toml:"console_enabled" json:"console_enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level" json:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development" json:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"rps" toml:"rps" json:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst" json:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled" json:"enabled"`
}

// DevToolsConfig holds IDE launcher configuration.
type DevToolsConfig struct {
	CLI string `envconfig:"IDE_CLI" yaml:"cli" toml:"cli" json:"cli"`
}

// Load loads configuration from defaults, the APP_CONFIG file and the
// environment, in that order.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(FileEnv))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Debug:           false,
			Version:         "1.0.0",
			TickIntervalMS:  1000,
			HostQueryPolicy: "ignore",
		},
		Request: RequestConfig{
			TimeoutMS: 2000,
		},
		Server: ServerConfig{
			Port:           "8000",
			Host:           "127.0.0.1",
			ConsoleEnabled: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	if c.App.TickIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %d", c.App.TickIntervalMS))
	}
	if c.Request.TimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %d", c.Request.TimeoutMS))
	}
	switch c.App.HostQueryPolicy {
	case "", "ignore", "log":
	default:
		errs = append(errs, fmt.Errorf("unknown host query policy %q", c.App.HostQueryPolicy))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("rate limit rps must be positive, got %d", c.RateLimit.RequestsPerSecond))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// TickInterval returns the heartbeat interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.App.TickIntervalMS) * time.Millisecond
}

// RequestTimeout returns the default request timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Request.TimeoutMS) * time.Millisecond
}

// Addr returns the console listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
