package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `{"base_url": "http://localhost:8080", "account_id": "42"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "42", cfg.AccountID)
	assert.Equal(t, api.StrategyBreakthrough, cfg.StrategyType())
	assert.Equal(t, DefaultPerPage, cfg.PerPage)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.False(t, cfg.DebugLogging)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"base_url": "https://dash.example.com",
		"server_id": "srv-1",
		"account_id": "7",
		"token": "secret",
		"strategy": "Oscillation",
		"per_page": 50,
		"request_timeout_ms": 2500,
		"poll_interval_ms": 1000,
		"debug_logging": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "srv-1", cfg.ServerID)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, api.StrategyOscillation, cfg.StrategyType())
	assert.Equal(t, 50, cfg.PerPage)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.True(t, cfg.DebugLogging)
}

func TestLoadConfigEnvironment(t *testing.T) {
	path := writeConfig(t, `{"base_url": "http://localhost:8080", "account_id": "1"}`)
	t.Setenv("RANGEWATCH_ACCOUNT_ID", "99")
	t.Setenv("RANGEWATCH_TOKEN", "env-token")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "99", cfg.AccountID)
	assert.Equal(t, "env-token", cfg.Token)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing base url", `{"account_id": "1"}`},
		{"bad scheme", `{"base_url": "ws://localhost:8080"}`},
		{"no host", `{"base_url": "http://"}`},
		{"unknown strategy", `{"base_url": "http://localhost", "strategy": "grid"}`},
		{"bad per page", `{"base_url": "http://localhost", "per_page": 0}`},
		{"bad poll interval", `{"base_url": "http://localhost", "poll_interval_ms": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
