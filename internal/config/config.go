// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	DBURL       string `mapstructure:"DB_URL"`
	GithubToken string `mapstructure:"GITHUB_TOKEN"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`

	// APISecretKey gates every mutating endpoint. Empty means admin routes refuse all calls.
	APISecretKey string `mapstructure:"API_SECRET_KEY"`

	SyncSearchQuery      string        `mapstructure:"SYNC_SEARCH_QUERY"`
	SyncBatchLimit       int           `mapstructure:"SYNC_BATCH_LIMIT"`
	SyncFastBatchLimit   int           `mapstructure:"SYNC_FAST_BATCH_LIMIT"`
	SyncPageSize         int           `mapstructure:"SYNC_PAGE_SIZE"`
	SyncItemTimeout      time.Duration `mapstructure:"SYNC_ITEM_TIMEOUT"`
	SyncStaleness        time.Duration `mapstructure:"SYNC_STALENESS"`
	SyncWindowStartHour  int           `mapstructure:"SYNC_WINDOW_START_HOUR"`
	SyncWindowEndHour    int           `mapstructure:"SYNC_WINDOW_END_HOUR"`
	SyncScheduleInterval time.Duration `mapstructure:"SYNC_SCHEDULE_INTERVAL"`
	SyncFastMode         bool          `mapstructure:"SYNC_FAST_MODE"`
	SyncSchedulerEnabled bool          `mapstructure:"SYNC_SCHEDULER_ENABLED"`

	ReadStrategy        string        `mapstructure:"READ_STRATEGY"`
	ReadCacheTimeout    time.Duration `mapstructure:"READ_CACHE_TIMEOUT"`
	ReadFallbackEnabled bool          `mapstructure:"READ_FALLBACK_ENABLED"`

	GithubRequestsPerMinute int `mapstructure:"GITHUB_REQUESTS_PER_MINUTE"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	HTTPRateLimit      int      `mapstructure:"HTTP_RATE_LIMIT"`

	QualityStaleAfter time.Duration `mapstructure:"QUALITY_STALE_AFTER"`
}

var keys = []string{
	"LOG_LEVEL", "DB_URL", "GITHUB_TOKEN", "HTTP_ADDR", "API_SECRET_KEY",
	"SYNC_SEARCH_QUERY", "SYNC_BATCH_LIMIT", "SYNC_FAST_BATCH_LIMIT", "SYNC_PAGE_SIZE",
	"SYNC_ITEM_TIMEOUT", "SYNC_STALENESS", "SYNC_WINDOW_START_HOUR", "SYNC_WINDOW_END_HOUR",
	"SYNC_SCHEDULE_INTERVAL", "SYNC_FAST_MODE", "SYNC_SCHEDULER_ENABLED",
	"READ_STRATEGY", "READ_CACHE_TIMEOUT", "READ_FALLBACK_ENABLED",
	"GITHUB_REQUESTS_PER_MINUTE", "CORS_ALLOWED_ORIGINS", "HTTP_RATE_LIMIT", "QUALITY_STALE_AFTER",
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		// Unmarshal only sees keys viper knows about; keys without defaults need an explicit bind.
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SYNC_SEARCH_QUERY", "mcp server in:name,description,topics")
	v.SetDefault("SYNC_BATCH_LIMIT", 100)
	v.SetDefault("SYNC_FAST_BATCH_LIMIT", 20)
	v.SetDefault("SYNC_PAGE_SIZE", 50)
	v.SetDefault("SYNC_ITEM_TIMEOUT", "8s")
	v.SetDefault("SYNC_STALENESS", "6h")
	v.SetDefault("SYNC_WINDOW_START_HOUR", 2)
	v.SetDefault("SYNC_WINDOW_END_HOUR", 5)
	v.SetDefault("SYNC_SCHEDULE_INTERVAL", "1h")
	v.SetDefault("SYNC_FAST_MODE", false)
	v.SetDefault("SYNC_SCHEDULER_ENABLED", true)
	v.SetDefault("READ_STRATEGY", "database-first")
	v.SetDefault("READ_CACHE_TIMEOUT", "5m")
	v.SetDefault("READ_FALLBACK_ENABLED", true)
	v.SetDefault("GITHUB_REQUESTS_PER_MINUTE", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{})
	v.SetDefault("HTTP_RATE_LIMIT", 120)
	v.SetDefault("QUALITY_STALE_AFTER", "168h")
}

// Validate checks required fields and ranges.
func (c *Config) Validate() error {
	if c.DBURL == "" {
		return errors.New("DB_URL is a required configuration field")
	}
	if c.SyncWindowStartHour < 0 || c.SyncWindowStartHour > 23 || c.SyncWindowEndHour < 0 || c.SyncWindowEndHour > 24 {
		return errors.New("SYNC_WINDOW_START_HOUR must be 0-23 and SYNC_WINDOW_END_HOUR 0-24")
	}
	if c.SyncBatchLimit <= 0 || c.SyncFastBatchLimit <= 0 {
		return errors.New("SYNC_BATCH_LIMIT and SYNC_FAST_BATCH_LIMIT must be positive")
	}
	if c.SyncPageSize <= 0 || c.SyncPageSize > 100 {
		return errors.New("SYNC_PAGE_SIZE must be between 1 and 100")
	}
	if c.SyncScheduleInterval <= 0 {
		return errors.New("SYNC_SCHEDULE_INTERVAL must be positive")
	}
	if c.SyncItemTimeout <= 0 {
		return errors.New("SYNC_ITEM_TIMEOUT must be positive")
	}
	if c.SyncStaleness < 0 {
		return errors.New("SYNC_STALENESS must not be negative; use 0 to disable the check")
	}
	switch c.ReadStrategy {
	case "database-first", "live":
	default:
		return fmt.Errorf("READ_STRATEGY must be database-first or live, got %q", c.ReadStrategy)
	}
	return nil
}
