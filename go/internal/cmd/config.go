package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/pickswap/go/internal/ratelimit"
	"github.com/mcdev12/pickswap/go/internal/users"
)

// Config is the league configuration file (CONFIG_PATH, default config.yaml)
type Config struct {
	League struct {
		AdminEmails       []string `yaml:"admin_emails"`
		InitialPickRounds []int    `yaml:"initial_pick_rounds"`
	} `yaml:"league"`

	Session struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"session"`

	RateLimit struct {
		Mutations ratelimit.Limit `yaml:"mutations"`
		SweepIdle time.Duration   `yaml:"sweep_idle"`
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Logging LogConfig `yaml:"logging"`
}

// LogConfig selects the log level, format and an optional rotated file
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.League.InitialPickRounds = append([]int(nil), users.DefaultInitialPickRounds...)
	cfg.Session.TTL = 7 * 24 * time.Hour
	cfg.RateLimit.Mutations = ratelimit.Limit{RequestsPerMinute: 60, Burst: 10}
	cfg.RateLimit.SweepIdle = 10 * time.Minute
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Logging = LogConfig{Level: "info", Format: "console", MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 28}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfig reads path over the defaults. A missing file is not an error.
// ADMIN_EMAILS (comma separated) replaces league.admin_emails.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		config.League.AdminEmails = splitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if len(config.League.AdminEmails) == 0 {
		return nil, fmt.Errorf("at least one admin email must be configured")
	}
	for _, r := range config.League.InitialPickRounds {
		if r <= 0 {
			return nil, fmt.Errorf("initial pick round must be positive, got %d", r)
		}
	}
	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
