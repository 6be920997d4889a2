package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// InitRedis initializes the shared Redis client
func InitRedis(addr string, password string, db int) error {
	opt := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}

	rdb = redis.NewClient(opt)

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		rdb = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return nil
}

// GetRedisClient returns the Redis client instance, nil when Redis was
// never initialized or unreachable
func GetRedisClient() *redis.Client {
	return rdb
}
