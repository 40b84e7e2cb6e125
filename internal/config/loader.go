package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/soltixdb/sfb/internal/utils"
)

// EnvPrefix prefixes every environment override (e.g. SFB_SERVER_PORT)
const EnvPrefix = "SFB"

// Load loads configuration from file, .env and environment
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/sfb")
	}

	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// loadDotEnv populates the process environment from a dotenv file when one exists.
// Variables already set win over the file.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("service.version", d.Service.Version)
	v.SetDefault("service.environment", d.Service.Environment)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.body_limit_mb", d.Server.BodyLimitMB)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.secret_key", d.Auth.SecretKey)
	v.SetDefault("auth.algorithm", d.Auth.Algorithm)
	v.SetDefault("auth.scopes", d.Auth.Scopes)
	v.SetDefault("auth.issuer", d.Auth.Issuer)

	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_minute", d.RateLimit.RequestsPerMinute)
	v.SetDefault("rate_limit.backend", d.RateLimit.Backend)
	v.SetDefault("rate_limit.redis_url", d.RateLimit.RedisURL)
	v.SetDefault("rate_limit.key_prefix", d.RateLimit.KeyPrefix)
	v.SetDefault("rate_limit.cleanup_interval", d.RateLimit.CleanupInterval)

	v.SetDefault("masking.enabled", d.Masking.Enabled)
	v.SetDefault("masking.fields", d.Masking.Fields)

	v.SetDefault("cors.allow_origins", d.CORS.AllowOrigins)

	v.SetDefault("analytics.outlier_threshold", d.Analytics.OutlierThreshold)
	v.SetDefault("analytics.extreme_threshold", d.Analytics.ExtremeThreshold)
	v.SetDefault("analytics.normality_alpha", d.Analytics.NormalityAlpha)
	v.SetDefault("analytics.min_samples", d.Analytics.MinSamples)

	v.SetDefault("events.enabled", d.Events.Enabled)
	v.SetDefault("events.subject", d.Events.Subject)
	v.SetDefault("events.compression", d.Events.Compression)

	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", d.Queue.URL)
	v.SetDefault("queue.username", "")
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.redis_stream", d.Queue.RedisStream)
	v.SetDefault("queue.kafka_brokers", d.Queue.KafkaBrokers)

	v.SetDefault("telemetry.metrics_enabled", d.Telemetry.MetricsEnabled)
	v.SetDefault("telemetry.metrics_path", d.Telemetry.MetricsPath)
	v.SetDefault("telemetry.tracing_enabled", d.Telemetry.TracingEnabled)
	v.SetDefault("telemetry.otlp_endpoint", d.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.otlp_insecure", d.Telemetry.OTLPInsecure)
	v.SetDefault("telemetry.sample_ratio", d.Telemetry.SampleRatio)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Masking.Fields = normalizeList(cfg.Masking.Fields)
	cfg.Auth.Scopes = normalizeList(cfg.Auth.Scopes)
	cfg.CORS.AllowOrigins = normalizeList(cfg.CORS.AllowOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// normalizeList splits comma-joined entries and drops blanks
func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        utils.ServiceName,
			Version:     utils.ServiceVersion,
			Environment: "development",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8000,
			RequestTimeout: utils.DefaultRequestTimeout,
			BodyLimitMB:    10,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   90 * time.Second,
		},
		Auth: AuthConfig{
			Enabled:   false,
			Algorithm: "HS256",
			Scopes:    []string{"sfb.read", "sfb.write"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: utils.DefaultRateLimitPerMinute,
			Backend:           "memory",
			KeyPrefix:         "sfb:ratelimit",
			CleanupInterval:   utils.RateLimitCleanupInterval,
		},
		Masking: MaskingConfig{
			Enabled: true,
			Fields:  []string{"cpf", "salario"},
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
		},
		Analytics: AnalyticsConfig{
			OutlierThreshold: utils.DefaultOutlierThreshold,
			ExtremeThreshold: utils.DefaultExtremeThreshold,
			NormalityAlpha:   utils.NormalityAlpha,
			MinSamples:       utils.MinSamples,
		},
		Events: EventsConfig{
			Enabled:     false,
			Subject:     "sfb.packages",
			Compression: "none",
		},
		Queue: QueueConfig{
			Type:         string(utils.QueueTypeMemory),
			URL:          "nats://localhost:4222",
			RedisStream:  "sfb",
			KafkaBrokers: []string{"localhost:9092"},
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: true,
			MetricsPath:    "/metrics",
			TracingEnabled: false,
			OTLPEndpoint:   "localhost:4317",
			OTLPInsecure:   true,
			SampleRatio:    1.0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
