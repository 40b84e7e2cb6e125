package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/sfb/internal/config"
	"github.com/soltixdb/sfb/internal/logging"
	"github.com/soltixdb/sfb/internal/observability"
	"github.com/soltixdb/sfb/internal/ratelimit"
)

type recordingLimiter struct {
	keys []string
	err  error
}

func (r *recordingLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	r.keys = append(r.keys, key)
	if r.err != nil {
		return ratelimit.Decision{}, r.err
	}
	return ratelimit.Decision{Allowed: true, Limit: 10, Remaining: 9, Count: 1}, nil
}

func (r *recordingLimiter) Close() error { return nil }

func TestRateLimit_RejectsOverLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute, 0, logging.NewNop())
	defer func() { _ = limiter.Close() }()
	metrics := observability.NewMetrics()

	app := fiber.New()
	app.Use(RateLimit(limiter, metrics, logging.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "2", resp.Header.Get(HeaderRateLimitLimit))
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))
	assert.Equal(t, "0", resp.Header.Get(HeaderRateLimitRemaining))

	body := decodeError(t, resp.Body)
	assert.Equal(t, "E006", body.Error.Code)
	assert.EqualValues(t, 2, body.Error.Details["limit"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RateLimited))
}

func TestRateLimit_KeysBySubject(t *testing.T) {
	rec := &recordingLimiter{}
	cfg := authConfig()

	app := fiber.New()
	app.Use(JWTAuth(cfg, logging.NewNop(), ScopeWrite), RateLimit(rec, nil, logging.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "scopes": "sfb.write"}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"user:alice"}, rec.keys)
}

func TestRateLimit_KeysByIPWhenAuthDisabled(t *testing.T) {
	rec := &recordingLimiter{}

	app := fiber.New()
	app.Use(JWTAuth(config.AuthConfig{Enabled: false}, logging.NewNop()), RateLimit(rec, nil, logging.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Len(t, rec.keys, 1)
	assert.Equal(t, "ip:0.0.0.0", rec.keys[0])
}

func TestRateLimit_FailOpen(t *testing.T) {
	rec := &recordingLimiter{err: errors.New("redis down")}

	app := fiber.New()
	app.Use(RateLimit(rec, nil, logging.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimit_NilLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(nil, nil, logging.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderRateLimitLimit))
}
