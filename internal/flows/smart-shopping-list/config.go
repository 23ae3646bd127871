package smartshoppinglist

import (
	"fmt"
	"regexp"
	"time"

	"toolbox-ai/internal/common/config"
)

// DefaultCurrency is used when a request names no currency.
const DefaultCurrency = "USD"

var currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxJobsActive   int           `mapstructure:"max_jobs_active"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	DefaultCurrency string        `mapstructure:"default_currency"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         90 * time.Second,
		DefaultCurrency: DefaultCurrency,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	if !currencyRe.MatchString(c.DefaultCurrency) {
		return fmt.Errorf("default_currency must be an upper-case three-letter code")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	workerCfg := config.GetWorkerConfig(appConfig, FlowName)
	cfg.Enabled = workerCfg.Enabled
	if workerCfg.MaxJobsActive > 0 {
		cfg.MaxJobsActive = workerCfg.MaxJobsActive
	}
	if workerCfg.Timeout > 0 {
		cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
	}
	if workerCfg.MaxTokens > 0 {
		cfg.MaxTokens = workerCfg.MaxTokens
	}
	return cfg
}
