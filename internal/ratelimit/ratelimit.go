package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces a fixed-window request budget per client key. With a Redis
// client configured the window is shared across instances; with a nil client
// an in-process counter is used instead, so the limiter is always active.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration

	mu    sync.Mutex
	local map[string]*localWindow
}

type localWindow struct {
	count int
	reset time.Time
}

// New creates a Limiter allowing max requests per window for each key.
func New(client *redis.Client, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		client: client,
		max:    max,
		window: window,
		local:  make(map[string]*localWindow),
	}
}

// Allow reports whether the given key may proceed and, when it may not, how
// long until the window resets. A non-nil error means the shared backend
// failed; the caller decides whether to fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l.client == nil {
		allowed, retryAfter := l.allowLocal(key)
		return allowed, retryAfter, nil
	}

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, 0, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, 0, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	if int(count) > l.max {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil || ttl <= 0 {
			ttl = l.window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

func (l *Limiter) allowLocal(key string) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.local[key]
	if !ok || now.After(w.reset) {
		l.pruneLocked(now)
		l.local[key] = &localWindow{count: 1, reset: now.Add(l.window)}
		return true, 0
	}

	w.count++
	if w.count > l.max {
		return false, time.Until(w.reset)
	}
	return true, 0
}

// pruneLocked drops expired windows. Called with l.mu held.
func (l *Limiter) pruneLocked(now time.Time) {
	for key, w := range l.local {
		if now.After(w.reset) {
			delete(l.local, key)
		}
	}
}
