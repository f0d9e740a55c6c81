package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader computes a payload on a cache miss.
type Loader func(ctx context.Context) ([]byte, error)

// Store is a shared key-value store with TTL and tag support.
type Store interface {
	// Get retrieves a payload. Returns ErrNotFound on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a payload with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Forget removes a key. Missing keys are not an error.
	Forget(ctx context.Context, key string) error

	// Remember returns the cached payload or stores the loader result.
	Remember(ctx context.Context, key string, ttl time.Duration, fn Loader) ([]byte, error)

	// Tags returns a view whose writes are associated with tags.
	Tags(tags ...string) Tagged
}

// Tagged is a tag-scoped view of a Store.
type Tagged interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remember(ctx context.Context, key string, ttl time.Duration, fn Loader) ([]byte, error)
	// Flush removes every key written under any of the view's tags.
	Flush(ctx context.Context) error
}

type getter func(ctx context.Context, key string) ([]byte, error)

type setter func(ctx context.Context, key string, value []byte, ttl time.Duration) error

// remember implements get-or-compute on top of get/set. Concurrent misses for
// the same key share one loader call. Loader errors are not cached; store
// errors other than ErrNotFound propagate.
func remember(ctx context.Context, group *singleflight.Group, get getter, set setter, key string, ttl time.Duration, fn Loader) ([]byte, error) {
	data, err := get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	v, err, _ := group.Do(key, func() (any, error) {
		payload, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if err := set(ctx, key, payload, ttl); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
