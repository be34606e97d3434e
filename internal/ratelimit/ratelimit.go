package ratelimit

import (
	"context" // Request-scoped Redis calls
	"sync"    // Mutex for the in-process limiter
	"time"    // Window durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Limiter bounds request rate per key over a fixed window. Allow reports
// whether one more request fits the current window. When the backing store
// fails the limiter fails open: the request is allowed and the error is
// returned for logging, so an outage never takes down login.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts requests in Redis so the budget holds across processes
type RedisLimiter struct {
	rdb    *redis.Client // Redis client
	limit  int           // Requests allowed per window
	window time.Duration // Window duration
}

// NewRedisLimiter builds a Redis-backed fixed-window limiter
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

// Allow increments the window counter for key. The first hit in a window
// arms the expiry that resets the budget.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	counter := "ratelimit:" + key
	n, err := l.rdb.Incr(ctx, counter).Result()
	if err != nil {
		return true, err // Fail open on a Redis outage
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, counter, l.window).Err(); err != nil {
			return true, err
		}
	}
	return n <= int64(l.limit), nil
}

// MemoryLimiter keeps window state in process memory. Suitable for tests and
// single-process deployments; state is ephemeral by design.
type MemoryLimiter struct {
	mu      sync.Mutex         // Guards windows
	limit   int                // Requests allowed per window
	window  time.Duration      // Window duration
	windows map[string]*window // Per-key counters
	now     func() time.Time   // Clock, replaceable in tests
}

// window holds one key's counter and its reset deadline
type window struct {
	count int       // Requests seen this window
	reset time.Time // When the counter resets
}

// NewMemoryLimiter builds an in-process fixed-window limiter
func NewMemoryLimiter(limit int, windowSize time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  windowSize,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow counts one request against key's current window
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.reset) {
		w = &window{reset: now.Add(l.window)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit, nil
}
