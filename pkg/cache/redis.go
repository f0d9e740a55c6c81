package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Redis is a Store backed by Redis. Tag membership lives in Redis sets.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
	group  singleflight.Group
}

// NewRedis creates a Redis-backed store. The client lifecycle stays with the
// caller.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

// Get retrieves a payload. Returns ErrNotFound if the key does not exist.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.opts.logger.Debug("cache miss", zap.String("key", key))
			return nil, ErrNotFound
		}
		return nil, err
	}
	r.opts.logger.Debug("cache hit", zap.String("key", key))
	return data, nil
}

// Set stores a payload.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = no expiration.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefixedKey(key), value, r.resolveTTL(ttl)).Err()
}

// Forget removes a key.
func (r *Redis) Forget(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefixedKey(key)).Err()
}

// Remember returns the cached payload or stores the loader result.
func (r *Redis) Remember(ctx context.Context, key string, ttl time.Duration, fn Loader) ([]byte, error) {
	return remember(ctx, &r.group, r.Get, r.Set, key, ttl, fn)
}

// Tags returns a tag-scoped view.
func (r *Redis) Tags(tags ...string) Tagged {
	return &redisTagged{store: r, tags: append([]string(nil), tags...)}
}

// Clear removes every key under the prefix using SCAN. Without a prefix the
// whole database is flushed. Cluster clients are cleared master by master.
func (r *Redis) Clear(ctx context.Context) error {
	if cluster, ok := r.client.(*redis.ClusterClient); ok {
		return cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return r.clearNode(ctx, node)
		})
	}
	return r.clearNode(ctx, r.client)
}

func (r *Redis) clearNode(ctx context.Context, node redis.Cmdable) error {
	if r.opts.prefix == "" {
		return node.FlushDB(ctx).Err()
	}

	pattern := r.opts.prefix + ":*"
	var cursor uint64
	for {
		keys, next, err := node.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if err := deleteKeys(ctx, node, keys); err != nil {
			return err
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// deleteKeys issues one DEL per key in a pipeline. Keys may hash to different
// cluster slots, so a single multi-key DEL is not an option.
func deleteKeys(ctx context.Context, client redis.Cmdable, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Del(ctx, key)
		}
		return nil
	})
	return err
}

func (r *Redis) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	// Redis interprets 0 as no expiration.
	return max(ttl, 0)
}

func (r *Redis) prefixedKey(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

func (r *Redis) tagKey(tag string) string {
	return r.prefixedKey("tag:" + tag)
}

type redisTagged struct {
	store *Redis
	tags  []string
}

// Set writes the payload and records the key in every tag set in one
// pipeline. The tag sets and the key may live in different cluster slots.
func (t *redisTagged) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r := t.store
	full := r.prefixedKey(key)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, full, value, r.resolveTTL(ttl))
		for _, tag := range t.tags {
			pipe.SAdd(ctx, r.tagKey(tag), full)
		}
		return nil
	})
	return err
}

func (t *redisTagged) Remember(ctx context.Context, key string, ttl time.Duration, fn Loader) ([]byte, error) {
	return remember(ctx, &t.store.group, t.store.Get, t.Set, key, ttl, fn)
}

// Flush deletes every member of the tag sets and the sets themselves.
func (t *redisTagged) Flush(ctx context.Context) error {
	r := t.store
	for _, tag := range t.tags {
		setKey := r.tagKey(tag)
		members, err := r.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return err
		}
		if err := deleteKeys(ctx, r.client, append(members, setKey)); err != nil {
			return err
		}
		r.opts.logger.Debug("cache tag flushed", zap.String("tag", tag), zap.Int("keys", len(members)))
	}
	return nil
}

var (
	_ Store  = (*Redis)(nil)
	_ Tagged = (*redisTagged)(nil)
)
