package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // analytics.timezone must resolve on minimal images

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string   `mapstructure:"port"`
	Env             string   `mapstructure:"env"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// ScraperConfig holds the Eventernote scraper settings
type ScraperConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	UserAgent        string        `mapstructure:"user_agent"`
	Timeout          time.Duration `mapstructure:"timeout"`
	BatchSize        int           `mapstructure:"batch_size"`
	BatchDelay       time.Duration `mapstructure:"batch_delay"`
	EventLimit       int           `mapstructure:"event_limit"`
	BreakerThreshold uint32        `mapstructure:"breaker_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
}

// CacheConfig holds the lifetimes of the in-memory caches
type CacheConfig struct {
	EventsTTL    time.Duration `mapstructure:"events_ttl"`
	DetailsTTL   time.Duration `mapstructure:"details_ttl"`
	FavoritesTTL time.Duration `mapstructure:"favorites_ttl"`
	AnalyticsTTL time.Duration `mapstructure:"analytics_ttl"`
}

// SupabaseConfig holds Supabase-specific configuration.
// Persistence is disabled when URL is empty.
type SupabaseConfig struct {
	URL         string        `mapstructure:"url"`
	ServiceKey  string        `mapstructure:"service_key"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// AnalyticsConfig holds analytics defaults
type AnalyticsConfig struct {
	DefaultViewLimit int    `mapstructure:"default_view_limit"`
	Timezone         string `mapstructure:"timezone"`
}

// Enabled reports whether a Supabase project is configured
func (s SupabaseConfig) Enabled() bool {
	return s.URL != ""
}

// Location resolves the timezone used as "today" for streaks and presets
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(a.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("server.rate_limit_per_min", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scraper.base_url", "https://www.eventernote.com")
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.timeout", 30*time.Second)
	v.SetDefault("scraper.batch_size", 10)
	v.SetDefault("scraper.batch_delay", 100*time.Millisecond)
	v.SetDefault("scraper.event_limit", 10000)
	v.SetDefault("scraper.breaker_threshold", 5)
	v.SetDefault("scraper.breaker_timeout", time.Minute)

	v.SetDefault("cache.events_ttl", 5*time.Minute)
	v.SetDefault("cache.details_ttl", 24*time.Hour)
	v.SetDefault("cache.favorites_ttl", time.Hour)
	v.SetDefault("cache.analytics_ttl", 5*time.Minute)

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_key", "")
	v.SetDefault("supabase.snapshot_ttl", 6*time.Hour)

	v.SetDefault("analytics.default_view_limit", 10)
	v.SetDefault("analytics.timezone", "Asia/Tokyo")
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("EVENTREPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables used by hosting platforms
	v.BindEnv("server.port", "EVENTREPORT_SERVER_PORT", "PORT")
	v.BindEnv("supabase.url", "EVENTREPORT_SUPABASE_URL", "SUPABASE_URL")
	v.BindEnv("supabase.service_key", "EVENTREPORT_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.RateLimitPerMin < 0 {
		errs = append(errs, errors.New("server.rate_limit_per_min must not be negative"))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	if c.Scraper.BaseURL == "" {
		errs = append(errs, errors.New("scraper.base_url is required"))
	}
	if c.Scraper.Timeout <= 0 {
		errs = append(errs, errors.New("scraper.timeout must be positive"))
	}
	if c.Scraper.BatchSize < 1 || c.Scraper.BatchSize > 100 {
		errs = append(errs, fmt.Errorf("scraper.batch_size must be between 1 and 100, got %d", c.Scraper.BatchSize))
	}
	if c.Scraper.BatchDelay < 0 {
		errs = append(errs, errors.New("scraper.batch_delay must not be negative"))
	}
	if c.Scraper.EventLimit < 1 {
		errs = append(errs, errors.New("scraper.event_limit must be positive"))
	}
	if c.Scraper.BreakerThreshold == 0 {
		errs = append(errs, errors.New("scraper.breaker_threshold must be positive"))
	}

	for name, ttl := range map[string]time.Duration{
		"cache.events_ttl":    c.Cache.EventsTTL,
		"cache.details_ttl":   c.Cache.DetailsTTL,
		"cache.favorites_ttl": c.Cache.FavoritesTTL,
		"cache.analytics_ttl": c.Cache.AnalyticsTTL,
	} {
		if ttl <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}

	if c.Supabase.Enabled() && c.Supabase.ServiceKey == "" {
		errs = append(errs, errors.New("supabase.service_key is required when supabase.url is set"))
	}

	if c.Analytics.DefaultViewLimit < 1 {
		errs = append(errs, errors.New("analytics.default_view_limit must be positive"))
	}
	if _, err := c.Analytics.Location(); err != nil {
		errs = append(errs, fmt.Errorf("analytics.timezone: %w", err))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
