package container

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/cache"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// cacheKey returns prefix:containerID:operation:contextHash. The context hash
// covers the slot count, the slot key set, the container config and the
// viewer fingerprint. Filled data is not part of it.
func (c *Container) cacheKey(op string, principal visibility.Principal) string {
	configHash := visibility.Hash(c.cfg.displayMode, c.Active(), c.cfg.framework, c.cfg.validationMode)
	contextHash := visibility.Hash(
		strconv.Itoa(len(c.order)),
		visibility.Hash(c.order...),
		configHash,
		visibility.Fingerprint(principal),
	)
	parts := []string{c.cfg.id, op, contextHash}
	if c.cfg.cachePrefix != "" {
		parts = append([]string{c.cfg.cachePrefix}, parts...)
	}
	return strings.Join(parts, ":")
}

func (c *Container) cached(ctx context.Context, op string, principal visibility.Principal, produce cache.Loader) ([]byte, error) {
	if !c.cfg.cacheEnabled {
		return produce(ctx)
	}

	key := c.cacheKey(op, principal)
	if c.written == nil {
		c.written = make(map[string]struct{})
	}
	c.written[key] = struct{}{}

	var (
		payload []byte
		err     error
	)
	if len(c.cfg.cacheTags) > 0 {
		payload, err = c.cfg.store.Tags(c.cfg.cacheTags...).Remember(ctx, key, c.cfg.cacheTTL, produce)
	} else {
		payload, err = c.cfg.store.Remember(ctx, key, c.cfg.cacheTTL, produce)
	}
	if err != nil {
		return nil, fmt.Errorf("container: %s: %w", op, err)
	}
	return payload, nil
}

// ClearCache flushes the configured cache tags, or forgets every key this
// container wrote when no tags are configured.
func (c *Container) ClearCache(ctx context.Context) error {
	if len(c.cfg.cacheTags) > 0 {
		if err := c.cfg.store.Tags(c.cfg.cacheTags...).Flush(ctx); err != nil {
			return fmt.Errorf("container: flush cache tags: %w", err)
		}
		c.written = nil
		c.logger.Debug("cache flushed", zap.Strings("tags", c.cfg.cacheTags))
		return nil
	}

	var errs error
	for key := range c.written {
		if err := c.cfg.store.Forget(ctx, key); err != nil {
			errs = errors.Join(errs, fmt.Errorf("container: forget %q: %w", key, err))
			continue
		}
		delete(c.written, key)
	}
	c.logger.Debug("cache cleared", zap.Int("remaining", len(c.written)))
	return errs
}
