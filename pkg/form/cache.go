package form

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

type cacheEntry struct {
	value     any
	createdAt time.Time
	expiresAt time.Time
}

// cached returns the live entry for op and the viewer fingerprint, or stores
// the producer result. Expired entries are evicted on lookup. Producer
// errors are not cached.
func (b *Builder) cached(op string, principal visibility.Principal, produce func() (any, error)) (any, error) {
	if !b.cfg.cacheEnabled {
		return produce()
	}

	key := op + ":" + visibility.Fingerprint(principal)
	now := b.cfg.now()
	if entry, ok := b.cache[key]; ok {
		if now.Before(entry.expiresAt) {
			b.logger.Debug("cache hit", zap.String("key", key))
			return entry.value, nil
		}
		delete(b.cache, key)
	}

	value, err := produce()
	if err != nil {
		return nil, err
	}
	if b.cache == nil {
		b.cache = make(map[string]cacheEntry)
	}
	b.cache[key] = cacheEntry{value: value, createdAt: now, expiresAt: now.Add(b.cfg.cacheTTL)}
	b.logger.Debug("cache stored", zap.String("key", key), zap.Duration("ttl", b.cfg.cacheTTL))
	return value, nil
}

// ClearCache drops every cached ToArray and Render result.
func (b *Builder) ClearCache() *Builder {
	b.cache = nil
	return b
}
