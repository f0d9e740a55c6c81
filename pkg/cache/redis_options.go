package cache

import (
	"time"

	"go.uber.org/zap"
)

// RedisOption configures the Redis store.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
	logger     *zap.Logger
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: time.Hour,
		prefix:     "",
		logger:     zap.NewNop(),
	}
}

// WithRedisDefaultTTL sets the default expiration for entries when Set is
// called with a zero TTL.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix sets a key prefix for all store operations. Keys are stored as
// "{prefix}:{key}".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithRedisLogger attaches a zap logger.
func WithRedisLogger(logger *zap.Logger) RedisOption {
	return func(o *redisOptions) {
		if logger != nil {
			o.logger = logger.Named("cache.redis")
		}
	}
}
