// Package ratelimit provides a fixed-window request limiter backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lua script for an atomic fixed-window check. The counter is only
// incremented when the request is allowed.
const windowLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")
if current + 1 > limit then
    return {0, redis.call("PTTL", key)}  -- denied
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("PEXPIRE", key, windowMs)
end

return {1, redis.call("PTTL", key)}  -- allowed
`

// Limiter allows at most limit requests per key per window.
type Limiter struct {
	redis  *redis.Client
	script *redis.Script
	prefix string
	limit  int
	window time.Duration
}

// NewLimiter creates a limiter. Keys are namespaced under prefix.
func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  client,
		script: redis.NewScript(windowLuaScript),
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// NewLimiterFromURL connects to Redis and creates a limiter.
func NewLimiterFromURL(redisURL, prefix string, limit int, window time.Duration) (*Limiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewLimiter(client, prefix, limit, window), nil
}

// Allow counts one request for key. When denied, retryAfter is the time left
// in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	if l.limit <= 0 {
		return true, 0, nil
	}

	res, err := l.script.Run(ctx, l.redis, []string{l.prefix + key}, l.limit, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("rate limit check: unexpected reply %v", res)
	}

	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl < 0 {
		ttl = 0
	}
	if res[0] == 1 {
		return true, 0, nil
	}
	return false, ttl, nil
}

// Client returns the underlying Redis client.
func (l *Limiter) Client() *redis.Client { return l.redis }

// Limit returns the configured requests per window.
func (l *Limiter) Limit() int { return l.limit }

// Close releases the Redis connection.
func (l *Limiter) Close() error { return l.redis.Close() }
