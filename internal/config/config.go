// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend names accepted by StorageConfig.Backend.
const (
	StorageBackendFile     = "file"
	StorageBackendMemory   = "memory"
	StorageBackendPostgres = "postgres"
)

// Archive backend names accepted by ArchiveConfig.Backend.
const (
	ArchiveBackendNone   = "none"
	ArchiveBackendLocal  = "local"
	ArchiveBackendGCS    = "gcs"
	ArchiveBackendMemory = "memory"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Pinterest PinterestConfig `mapstructure:"pinterest"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	PubSub    PubSubConfig    `mapstructure:"pubsub"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port                  int `mapstructure:"port"`
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// PinterestConfig holds the upstream endpoint and credential for the
// ingestion pipeline. APIKey is resolved from SCRAPE_CREATORS_KEY (or
// FITFINDR_PINTEREST_API_KEY); its absence is a fatal construction error in
// the pipeline, not a per-call condition.
type PinterestConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	APIKey          string `mapstructure:"api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	DefaultMaxItems int    `mapstructure:"default_max_items"`
}

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
	DSN     string `mapstructure:"dsn"`
}

// ArchiveConfig controls raw payload and image archival.
type ArchiveConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
}

// PubSubConfig holds metadata for activity event publishing.
type PubSubConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// AnalyzerConfig selects the explanation backend.
type AnalyzerConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// RateLimitConfig bounds per-client request rates.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// CORSConfig controls cross-origin access for browser clients.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FITFINDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The original deployment ships the Scrape Creators credential under its
	// own variable name; keep honoring it alongside the prefixed form.
	if err := v.BindEnv("pinterest.api_key", "SCRAPE_CREATORS_KEY", "FITFINDR_PINTEREST_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind pinterest.api_key: %w", err)
	}
	if err := v.BindEnv("analyzer.api_key", "GEMINI_API_KEY", "FITFINDR_ANALYZER_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind analyzer.api_key: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.request_timeout_seconds", 60)
	v.SetDefault("pinterest.endpoint", "https://api.scrapecreators.com/v1/pinterest/search")
	v.SetDefault("pinterest.timeout_seconds", 10)
	v.SetDefault("pinterest.default_max_items", 20)
	v.SetDefault("storage.backend", StorageBackendFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("archive.backend", ArchiveBackendNone)
	v.SetDefault("archive.dir", "data/archive")
	v.SetDefault("analyzer.model", "gemini-2.5-flash")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("server.request_timeout_seconds must be > 0")
	}
	if c.Pinterest.TimeoutSeconds <= 0 {
		return fmt.Errorf("pinterest.timeout_seconds must be > 0")
	}
	if c.Pinterest.DefaultMaxItems <= 0 {
		return fmt.Errorf("pinterest.default_max_items must be > 0")
	}
	switch c.Storage.Backend {
	case StorageBackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir must be set for the file backend")
		}
	case StorageBackendMemory:
	case StorageBackendPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn must be set for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	switch c.Archive.Backend {
	case ArchiveBackendNone, ArchiveBackendMemory:
	case ArchiveBackendLocal:
		if c.Archive.Dir == "" {
			return fmt.Errorf("archive.dir must be set for the local backend")
		}
	case ArchiveBackendGCS:
		if c.Archive.Bucket == "" {
			return fmt.Errorf("archive.bucket must be set for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown archive.backend %q", c.Archive.Backend)
	}
	if c.PubSub.Enabled && (c.PubSub.ProjectID == "" || c.PubSub.TopicName == "") {
		return fmt.Errorf("pubsub.project_id and pubsub.topic_name must be set when pubsub is enabled")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit.rps and rate_limit.burst must be > 0 when rate limiting is enabled")
	}
	return nil
}

// PinterestTimeout converts the configured upstream timeout into a duration.
func (c Config) PinterestTimeout() time.Duration {
	return time.Duration(c.Pinterest.TimeoutSeconds) * time.Second
}

// RequestTimeout converts the configured request budget into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
