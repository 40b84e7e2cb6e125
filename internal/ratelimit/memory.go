package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/soltixdb/sfb/internal/logging"
)

// MemoryLimiter keeps a request-timestamp log per key in process memory.
// A background pruner drops expired entries and empty keys.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	logger *logging.Logger

	mu       sync.Mutex
	requests map[string][]time.Time

	stop    chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

// NewMemoryLimiter creates the limiter and starts its pruner
func NewMemoryLimiter(limit int, window, cleanupInterval time.Duration, logger *logging.Logger) *MemoryLimiter {
	if logger == nil {
		logger = logging.Global()
	}
	l := &MemoryLimiter{
		limit:    limit,
		window:   window,
		logger:   logger,
		requests: make(map[string][]time.Time),
		stop:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		l.wg.Add(1)
		go l.pruneLoop(cleanupInterval)
	}
	return l
}

// Allow records the request when the key is under its limit
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := nowFunc()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := trimBefore(l.requests[key], cutoff)
	if len(recent) >= l.limit {
		l.requests[key] = recent
		return decide(l.limit, len(recent), false), nil
	}

	recent = append(recent, now)
	l.requests[key] = recent
	return decide(l.limit, len(recent), true), nil
}

// Keys returns the number of tracked keys
func (l *MemoryLimiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

// Prune drops timestamps older than the window and forgets empty keys
func (l *MemoryLimiter) Prune() {
	cutoff := nowFunc().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, ts := range l.requests {
		recent := trimBefore(ts, cutoff)
		if len(recent) == 0 {
			delete(l.requests, key)
			continue
		}
		l.requests[key] = recent
	}
}

func (l *MemoryLimiter) pruneLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.Prune()
			l.logger.Debug("Pruned rate limiter", "active_keys", l.Keys())
		}
	}
}

// Close stops the pruner
func (l *MemoryLimiter) Close() error {
	l.stopped.Do(func() { close(l.stop) })
	l.wg.Wait()
	return nil
}

// trimBefore returns the suffix of ascending ts strictly after cutoff
func trimBefore(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return ts
	}
	return append(ts[:0:0], ts[i:]...)
}
