// Package cache provides the shared store behind form container caching, with
// in-memory and Redis implementations.
//
// Values are opaque byte payloads; callers encode and decode them. Both
// implementations satisfy [Store]:
//
//   - Get(ctx, key) ([]byte, error): retrieve a payload, [ErrNotFound] on miss
//   - Set(ctx, key, value, ttl) error: store a payload with TTL
//   - Forget(ctx, key) error: remove a key
//   - Remember(ctx, key, ttl, fn) ([]byte, error): get or compute
//   - Tags(tags...) Tagged: a tag-scoped view whose writes can be flushed together
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the store's configured default TTL
//   - Negative: item never expires
//
// # In-Memory Store
//
//	store := cache.NewMemory(
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithMaxEntries(10000),
//	)
//	defer store.Close()
//
// # Redis Store
//
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	store := cache.NewRedis(client, cache.WithPrefix("formkit"))
//
// Tag membership is kept in Redis sets named "{prefix}:tag:{tag}" so a flush
// removes every key written through the tagged view.
//
// # Stampede Prevention
//
// Remember deduplicates concurrent misses for the same key with singleflight,
// so only one caller computes a missing payload per store.
package cache
