package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config defines rate limit rules for chat sessions
type Config struct {
	MaxMessages int           // per window
	Window      time.Duration // counting window
}

// DefaultConfig returns the default chat rate limit configuration
func DefaultConfig() Config {
	return Config{
		MaxMessages: 20,
		Window:      time.Minute,
	}
}

// Limiter counts messages per session in Redis using a fixed TTL window.
// A Limiter with a nil client allows everything, so a deployment without
// Redis simply runs unlimited.
type Limiter struct {
	rdb *redis.Client
	cfg Config
}

// NewLimiter creates a Limiter on the given client
func NewLimiter(rdb *redis.Client, cfg Config) *Limiter {
	return &Limiter{rdb: rdb, cfg: cfg}
}

// Allow increments the session counter and reports whether the message
// is within the configured limit
func (l *Limiter) Allow(ctx context.Context, sessionID string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate:chat:%s", sessionID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	// Set expiration if first time
	if count == 1 {
		l.rdb.Expire(ctx, key, l.cfg.Window)
	}

	return count <= int64(l.cfg.MaxMessages), nil
}
