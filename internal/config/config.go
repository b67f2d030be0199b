package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atendai/leadscout/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Platform PlatformConfig `yaml:"platform" mapstructure:"platform"`
	Browser  BrowserConfig  `yaml:"browser" mapstructure:"browser"`
	Scrape   ScrapeConfig   `yaml:"scrape" mapstructure:"scrape"`
	Enrich   EnrichConfig   `yaml:"enrich" mapstructure:"enrich"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string           `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// PlatformConfig identifies the target platform and the account used for
// the authenticated browser session.
type PlatformConfig struct {
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	Username         string `yaml:"username" mapstructure:"username"`
	Password         string `yaml:"password" mapstructure:"password"`
	LoginTimeoutSecs int    `yaml:"login_timeout_secs" mapstructure:"login_timeout_secs"`
	SessionKey       string `yaml:"session_key" mapstructure:"session_key"`
}

// BrowserConfig configures the headless browser.
type BrowserConfig struct {
	Headless  bool   `yaml:"headless" mapstructure:"headless"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ScrapeConfig tunes the profile, tag and external-link scrapers.
type ScrapeConfig struct {
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxTagSuggestions  int     `yaml:"max_tag_suggestions" mapstructure:"max_tag_suggestions"`
	LinkWorkers        int     `yaml:"link_workers" mapstructure:"link_workers"`
	RequestsPerSecond  float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxAggregatorLinks int     `yaml:"max_aggregator_links" mapstructure:"max_aggregator_links"`
}

// EnrichConfig tunes the batch enrichment driver.
type EnrichConfig struct {
	BatchSize         int     `yaml:"batch_size" mapstructure:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs  int     `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxAuthRetries    int     `yaml:"max_auth_retries" mapstructure:"max_auth_retries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// LoginTimeout returns the configured login deadline as a duration.
func (p PlatformConfig) LoginTimeout() time.Duration {
	return time.Duration(p.LoginTimeoutSecs) * time.Second
}

// Timeout returns the per-page scrape deadline as a duration.
func (s ScrapeConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "leadscout.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("platform.username", "")
	v.SetDefault("platform.password", "")
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("platform.base_url", "https://www.instagram.com")
	v.SetDefault("platform.login_timeout_secs", 90)
	v.SetDefault("platform.session_key", "platform-session")
	v.SetDefault("browser.headless", true)
	v.SetDefault("scrape.timeout_secs", 45)
	v.SetDefault("scrape.max_tag_suggestions", 5)
	v.SetDefault("scrape.link_workers", 3)
	v.SetDefault("scrape.requests_per_second", 0.5)
	v.SetDefault("scrape.max_aggregator_links", 5)
	v.SetDefault("enrich.batch_size", 50)
	v.SetDefault("enrich.requests_per_second", 0.2)
	v.SetDefault("enrich.max_attempts", 3)
	v.SetDefault("enrich.initial_backoff_ms", 2000)
	v.SetDefault("enrich.max_auth_retries", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
