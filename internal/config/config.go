package config

import (
	"fmt"
	"time"

	"github.com/soltixdb/sfb/internal/utils"
)

// Config represents the complete application configuration
type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Server    ServerConfig    `mapstructure:"server"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Masking   MaskingConfig   `mapstructure:"masking"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Events    EventsConfig    `mapstructure:"events"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServiceConfig identifies the running service
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`            // Bind address (e.g., 0.0.0.0 for all interfaces)
	Port           int           `mapstructure:"port"`            // HTTP server port
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Upper bound for one statistical computation
	BodyLimitMB    int           `mapstructure:"body_limit_mb"`   // Maximum request body size
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// AuthConfig represents bearer token authentication configuration
type AuthConfig struct {
	Enabled   bool     `mapstructure:"enabled"`    // Enable/disable JWT authentication
	SecretKey string   `mapstructure:"secret_key"` // HMAC signing key
	Algorithm string   `mapstructure:"algorithm"`  // HS256, HS384 or HS512
	Scopes    []string `mapstructure:"scopes"`     // Scopes granted to anonymous callers when auth is disabled
	Issuer    string   `mapstructure:"issuer"`     // Optional expected "iss" claim
}

// RateLimitConfig represents per-caller request limiting
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Backend           string        `mapstructure:"backend"` // memory (default) or redis
	RedisURL          string        `mapstructure:"redis_url"`
	KeyPrefix         string        `mapstructure:"key_prefix"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// MaskingConfig lists record fields replaced before processing
type MaskingConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Fields  []string `mapstructure:"fields"`
}

// CORSConfig represents cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AnalyticsConfig tunes the statistics engine
type AnalyticsConfig struct {
	OutlierThreshold float64 `mapstructure:"outlier_threshold"` // |z| above which a point is an outlier
	ExtremeThreshold float64 `mapstructure:"extreme_threshold"` // |z| above which an outlier is extreme
	NormalityAlpha   float64 `mapstructure:"normality_alpha"`
	MinSamples       int     `mapstructure:"min_samples"`
}

// EventsConfig controls publishing of generated-package summaries
type EventsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Subject     string `mapstructure:"subject"`
	Compression string `mapstructure:"compression"` // none or snappy
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "sfb")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// TelemetryConfig represents metrics and tracing configuration
type TelemetryConfig struct {
	MetricsEnabled bool    `mapstructure:"metrics_enabled"`
	MetricsPath    string  `mapstructure:"metrics_path"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	OTLPEndpoint   string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure   bool    `mapstructure:"otlp_insecure"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate_limit config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.BodyLimitMB < 1 {
		return fmt.Errorf("body_limit_mb must be at least 1")
	}

	return nil
}

// Validate validates auth configuration
func (c *AuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.SecretKey == "" {
		return fmt.Errorf("secret_key is required when auth is enabled")
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("algorithm must be one of HS256, HS384, HS512")
	}

	return nil
}

// Validate validates rate limit configuration
func (c *RateLimitConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("requests_per_minute must be at least 1")
	}

	switch c.Backend {
	case "memory", "":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("backend must be 'memory' or 'redis'")
	}

	return nil
}

// Validate validates analytics configuration
func (c *AnalyticsConfig) Validate() error {
	if c.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier_threshold must be positive")
	}

	if c.ExtremeThreshold < c.OutlierThreshold {
		return fmt.Errorf("extreme_threshold cannot be below outlier_threshold")
	}

	if c.NormalityAlpha <= 0 || c.NormalityAlpha >= 1 {
		return fmt.Errorf("normality_alpha must be in (0, 1)")
	}

	if c.MinSamples < utils.MinSamples {
		return fmt.Errorf("min_samples cannot be below %d", utils.MinSamples)
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Subject == "" {
		return fmt.Errorf("subject is required when events are enabled")
	}

	if c.Compression != "none" && c.Compression != "snappy" && c.Compression != "" {
		return fmt.Errorf("compression must be 'none' or 'snappy'")
	}

	return nil
}

// Validate validates telemetry configuration
func (c *TelemetryConfig) Validate() error {
	if c.TracingEnabled && c.OTLPEndpoint == "" {
		return fmt.Errorf("otlp_endpoint is required when tracing is enabled")
	}

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio must be in [0, 1]")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Service.Environment == "development"
}

// Address returns the HTTP listen address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BodyLimitBytes returns the request body limit in bytes
func (c *ServerConfig) BodyLimitBytes() int {
	return c.BodyLimitMB * 1024 * 1024
}
