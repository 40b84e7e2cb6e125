package utils

import "time"

// =============================================================================
// Service Identity
// =============================================================================

const (
	// ServiceName is reported by the root and health endpoints
	ServiceName = "Statistical Feature Builder"

	// ServiceVersion is the default reported version
	ServiceVersion = "1.0.0"
)

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout bounds one statistical computation
	DefaultRequestTimeout = 60 * time.Second

	// ShutdownTimeout is how long the HTTP server waits for in-flight requests
	ShutdownTimeout = 10 * time.Second

	// PublishTimeout bounds publishing a result event
	PublishTimeout = 5 * time.Second
)

// =============================================================================
// Statistics Constants
// =============================================================================

const (
	// MinSamples is the smallest sample any statistic is computed on
	MinSamples = 3

	// DefaultOutlierThreshold is the |z| above which a point is an outlier
	DefaultOutlierThreshold = 3.0

	// DefaultExtremeThreshold is the |z| above which an outlier is extreme
	DefaultExtremeThreshold = 3.0

	// NormalityAlpha is the significance level of the normality test
	NormalityAlpha = 0.05

	// CorrelationAlpha is the significance level of correlation tests
	CorrelationAlpha = 0.05

	// MonthWindow is the number of trailing points treated as one month
	MonthWindow = 30

	// StableSlopeRatio is the |slope|/mean ratio below which a trend is stable
	StableSlopeRatio = 0.01
)

// =============================================================================
// Rate Limit Constants
// =============================================================================

const (
	// DefaultRateLimitPerMinute is the default number of requests allowed per key
	DefaultRateLimitPerMinute = 500

	// RateLimitWindow is the sliding window length
	RateLimitWindow = time.Minute

	// RateLimitCleanupInterval is how often stale entries are pruned
	RateLimitCleanupInterval = time.Minute

	// RetryAfterSeconds is advertised on 429 responses
	RetryAfterSeconds = 60
)

// =============================================================================
// Masking Constants
// =============================================================================

// MaskedValue replaces the contents of masked fields
const MaskedValue = "***MASKED***"

// =============================================================================
// Queue Type Constants
// =============================================================================

// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
