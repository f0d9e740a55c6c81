package cache

import (
	"time"

	"go.uber.org/zap"
)

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	maxEntries      int
	now             func() time.Time
	logger          *zap.Logger
}

func defaultMemoryOptions() *memoryOptions {
	return &memoryOptions{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
		maxEntries:      0, // 0 = unlimited
		now:             time.Now,
		logger:          zap.NewNop(),
	}
}

// WithDefaultTTL sets the default expiration for entries when Set is called
// with a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired entries are removed by the
// background janitor goroutine. Zero disables the janitor; expired entries
// are then evicted lazily on lookup.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// WithMaxEntries sets the maximum number of entries. When the limit is
// reached, the least recently used entry is evicted.
// Default: 0 (unlimited).
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.maxEntries = n
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMemoryLogger attaches a zap logger.
func WithMemoryLogger(logger *zap.Logger) MemoryOption {
	return func(o *memoryOptions) {
		if logger != nil {
			o.logger = logger.Named("cache.memory")
		}
	}
}
