// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/rangewatch/internal/api"
)

// Config holds the dashboard client settings loaded from config.json.
type Config struct {
	BaseURL          string        `mapstructure:"base_url"`
	ServerID         string        `mapstructure:"server_id"`
	AccountID        string        `mapstructure:"account_id"`
	Token            string        `mapstructure:"token"`
	Strategy         string        `mapstructure:"strategy"`
	PerPage          int           `mapstructure:"per_page"`
	RequestTimeout   time.Duration `mapstructure:"-"`
	RequestTimeoutMS int           `mapstructure:"request_timeout_ms"`
	PollInterval     time.Duration `mapstructure:"-"`
	PollIntervalMS   int           `mapstructure:"poll_interval_ms"`
	DebugLogging     bool          `mapstructure:"debug_logging"`
	LogFile          string        `mapstructure:"log_file"`
	ExportDir        string        `mapstructure:"export_dir"`
	MetricsAddr      string        `mapstructure:"metrics_addr"` // empty disables /metrics
}

const (
	DefaultPerPage          = 30
	DefaultRequestTimeoutMS = 10000
	DefaultPollIntervalMS   = 5000
	DefaultLogFile          = "logs/rangewatch.log"
	DefaultExportDir        = "exports"
)

// LoadConfig reads configuration from the specified file path, overlays
// RANGEWATCH_* environment variables and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("RANGEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := map[string]interface{}{
		"base_url":           "",
		"server_id":          "",
		"account_id":         "",
		"token":              "",
		"strategy":           string(api.StrategyBreakthrough),
		"per_page":           DefaultPerPage,
		"request_timeout_ms": DefaultRequestTimeoutMS,
		"poll_interval_ms":   DefaultPollIntervalMS,
		"debug_logging":      false,
		"log_file":           DefaultLogFile,
		"export_dir":         DefaultExportDir,
		"metrics_addr":       "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config error: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	// Convert ms to Duration
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutMS) * time.Millisecond
	cfg.PollInterval = time.Duration(cfg.PollIntervalMS) * time.Millisecond

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StrategyType returns the parsed strategy. validate guarantees it parses.
func (c *Config) StrategyType() api.Strategy {
	s, _ := api.ParseStrategy(c.Strategy)
	return s
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Host == "" {
		return errors.New("invalid base_url format")
	}
	if !strings.HasPrefix(parsed.Scheme, "http") {
		return errors.New("base_url must use http or https")
	}
	if _, err := api.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.PerPage <= 0 {
		return errors.New("invalid per_page")
	}
	if c.RequestTimeoutMS <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if c.PollIntervalMS <= 0 {
		return errors.New("invalid poll_interval_ms")
	}
	return nil
}
