package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
league:
  admin_emails: [boss@league.test]
  initial_pick_rounds: [1, 2]
session:
  ttl: 24h
rate_limit:
  mutations:
    requests_per_minute: 30
    burst: 3
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, []string{"boss@league.test"}, cfg.League.AdminEmails)
	require.Equal(t, []int{1, 2}, cfg.League.InitialPickRounds)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, 30.0, cfg.RateLimit.Mutations.RequestsPerMinute)
	require.Equal(t, 3, cfg.RateLimit.Mutations.Burst)
	// untouched sections keep their defaults
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, 10*time.Minute, cfg.RateLimit.SweepIdle)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", " a@league.test, ,b@league.test ")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, []string{"a@league.test", "b@league.test"}, cfg.League.AdminEmails)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, []int{1, 2, 3}, cfg.League.InitialPickRounds)
}

func TestLoadConfigRejects(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "")

	_, err := loadConfig(writeConfig(t, "league:\n  initial_pick_rounds: [1]\n"))
	require.ErrorContains(t, err, "admin email")

	_, err = loadConfig(writeConfig(t, "league:\n  admin_emails: [x@y.z]\n  initial_pick_rounds: [0]\n"))
	require.ErrorContains(t, err, "must be positive")

	_, err = loadConfig(writeConfig(t, "league: ["))
	require.ErrorContains(t, err, "failed to parse config")
}
