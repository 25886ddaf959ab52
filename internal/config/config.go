// Package config handles configuration loading and defaults for the terminal
// client.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"todoapp/internal/util"
)

// Default values.
const (
	DefaultAPIURL         = "http://localhost:8080"
	DefaultPollInterval   = 30 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultHealthTimeout  = 3 * time.Second
)

// Config holds the full configuration for the terminal client.
type Config struct {
	APIURL                string `toml:"api_url"`
	PollIntervalSeconds   int    `toml:"poll_interval_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// PollInterval returns the connectivity poll interval.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the per-request timeout for task operations.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Load reads the TOML config file when it exists and applies environment
// overrides on top. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		APIURL: DefaultAPIURL,
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.APIURL = util.EnvOrDefault("TODO_API_URL", cfg.APIURL)
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("api_url must not be empty")
	}
	return cfg, nil
}
