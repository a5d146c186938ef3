package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents configuration data for the latency probe.
type Config struct {
	Server         string `yaml:"server"`
	Domain         string `yaml:"domain"`
	Count          int    `yaml:"count"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Serve          Serve  `yaml:"serve"`
}

// Serve configures the optional watch mode that re-runs probe sessions and
// exposes them over HTTP.
type Serve struct {
	Enabled         bool   `yaml:"enabled"`
	Addr            string `yaml:"addr"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	HistoryLimit    int    `yaml:"history_limit"`
}

// DefaultConfig returns sensible defaults in case no configuration file is
// provided. The server spec has no default; it must come from the file or a
// flag.
func DefaultConfig() Config {
	return Config{
		Domain:         "baidu.com",
		Count:          5,
		TimeoutSeconds: 5,
		Serve: Serve{
			Addr:            ":8080",
			IntervalSeconds: 60,
			HistoryLimit:    200,
		},
	}
}

// Load reads configuration from a yaml file. Missing files fall back to
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Domain == "" {
		cfg.Domain = DefaultConfig().Domain
	}
	if cfg.Count <= 0 {
		cfg.Count = DefaultConfig().Count
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultConfig().Serve.Addr
	}
	if cfg.Serve.IntervalSeconds <= 0 {
		cfg.Serve.IntervalSeconds = DefaultConfig().Serve.IntervalSeconds
	}
	if cfg.Serve.HistoryLimit <= 0 {
		cfg.Serve.HistoryLimit = DefaultConfig().Serve.HistoryLimit
	}
	return cfg, nil
}

// Validate checks fields that have no usable fallback.
func (c Config) Validate() error {
	if c.Server == "" {
		return errors.New("configuration must define a server to probe")
	}
	return nil
}
