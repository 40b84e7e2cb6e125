package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/observability"
	"github.com/soltixdb/sfb/internal/ratelimit"
	"github.com/soltixdb/sfb/internal/services"
	"github.com/soltixdb/sfb/internal/utils"
)

// Rate limit response headers
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// RateLimit rejects callers over their per-minute budget with E006.
// Authenticated callers are keyed by subject, others by IP. A nil limiter
// disables the check; a failing limiter lets the request through.
func RateLimit(limiter ratelimit.Limiter, metrics *observability.Metrics, logger *logging.Logger) fiber.Handler {
	if limiter == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		key := ratelimit.IPKey(c.IP())
		if p := PrincipalFrom(c); p != nil && p.Subject != SystemSubject {
			key = ratelimit.UserKey(p.Subject)
		}

		d, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			logger.WithContext(c.UserContext()).Warn("Rate limiter unavailable, allowing request", "key", key, "error", err)
			return c.Next()
		}

		c.Set(HeaderRateLimitLimit, strconv.Itoa(d.Limit))
		c.Set(HeaderRateLimitRemaining, strconv.Itoa(d.Remaining))

		if !d.Allowed {
			metrics.IncRateLimited()
			logger.WithContext(c.UserContext()).Warn("Rate limit exceeded",
				"key", key,
				"requests", d.Count,
				"limit", d.Limit,
			)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(utils.RetryAfterSeconds))
			return WriteError(c, services.NewServiceErrorWithDetails(services.CodeRateLimited, "Rate limit exceeded",
				map[string]interface{}{
					"limit":       d.Limit,
					"window":      "1 minute",
					"retry_after": utils.RetryAfterSeconds,
				}))
		}

		return c.Next()
	}
}
