// Package ratelimit enforces a per-caller request budget over a sliding one-minute window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/utils"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Count     int // requests in the window, including this one when allowed
}

// Limiter decides whether a caller may make another request.
// Rejected requests are not counted against the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Close() error
}

// UserKey identifies an authenticated caller
func UserKey(sub string) string {
	if sub == "" {
		sub = "unknown"
	}
	return "user:" + sub
}

// IPKey identifies an anonymous caller
func IPKey(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// New builds the limiter for cfg.Backend. It returns nil when rate limiting is disabled.
func New(cfg config.RateLimitConfig, logger *logging.Logger) (Limiter, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Global()
	}

	switch cfg.Backend {
	case "", "memory":
		interval := cfg.CleanupInterval
		if interval <= 0 {
			interval = utils.RateLimitCleanupInterval
		}
		return NewMemoryLimiter(cfg.RequestsPerMinute, utils.RateLimitWindow, interval, logger), nil
	case "redis":
		l, err := NewRedisLimiter(cfg.RedisURL, cfg.KeyPrefix, cfg.RequestsPerMinute, utils.RateLimitWindow)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend: %s", cfg.Backend)
	}
}

func decide(limit, count int, allowed bool) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: allowed, Limit: limit, Remaining: remaining, Count: count}
}

// nowFunc is replaced in tests
var nowFunc = time.Now
