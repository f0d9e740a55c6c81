package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// entry holds a cached payload with its timestamps and key.
type entry struct {
	createdAt time.Time
	expiresAt time.Time // zero value = never expires
	value     []byte
	key       string
	tags      []string
}

func (e *entry) isExpired(now time.Time) bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return now.After(e.expiresAt)
}

// Memory is an in-memory Store with TTL expiration, optional LRU eviction and
// tag sets. It is safe for concurrent use.
type Memory struct {
	items    map[string]*list.Element
	eviction *list.List
	tags     map[string]map[string]struct{}
	opts     *memoryOptions
	group    singleflight.Group
	done     chan struct{}
	mu       sync.Mutex
	closed   bool
}

// NewMemory creates an in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		tags:     make(map[string]map[string]struct{}),
		opts:     o,
		done:     make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get retrieves a payload. Expired entries are evicted on lookup.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	elem, ok := m.items[key]
	if !ok {
		m.opts.logger.Debug("cache miss", zap.String("key", key))
		return nil, ErrNotFound
	}

	e := elem.Value.(*entry)
	if e.isExpired(m.opts.now()) {
		m.removeElement(elem)
		m.opts.logger.Debug("cache expired", zap.String("key", key))
		return nil, ErrNotFound
	}

	m.eviction.MoveToFront(elem)
	m.opts.logger.Debug("cache hit", zap.String("key", key))
	return e.value, nil
}

// Set stores a payload.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = never expires.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.setLocked(key, value, ttl)
}

func (m *Memory) setLocked(key string, value []byte, ttl time.Duration) error {
	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	now := m.opts.now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	if elem, ok := m.items[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		e.createdAt = now
		e.expiresAt = expiresAt
		m.eviction.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.items) >= m.opts.maxEntries {
		m.evictOldest()
	}

	e := &entry{key: key, value: value, createdAt: now, expiresAt: expiresAt}
	m.items[key] = m.eviction.PushFront(e)
	return nil
}

// Forget removes a key.
func (m *Memory) Forget(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.items[key]; ok {
		m.removeElement(elem)
	}
	return nil
}

// Remember returns the cached payload or stores the loader result.
func (m *Memory) Remember(ctx context.Context, key string, ttl time.Duration, fn Loader) ([]byte, error) {
	return remember(ctx, &m.group, m.Get, m.Set, key, ttl, fn)
}

// Tags returns a tag-scoped view.
func (m *Memory) Tags(tags ...string) Tagged {
	return &memoryTagged{store: m, tags: append([]string(nil), tags...)}
}

// Len reports the number of stored entries, including expired ones not yet
// evicted.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Clear removes all entries and tag sets.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items = make(map[string]*list.Element)
	m.tags = make(map[string]map[string]struct{})
	m.eviction.Init()
	return nil
}

// Close stops the janitor and marks the store as closed. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.opts.now()
	for elem := m.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).isExpired(now) {
			m.removeElement(elem)
		}
		elem = prev
	}
}

// evictOldest removes the least recently used entry.
// Caller must hold the mutex.
func (m *Memory) evictOldest() {
	if elem := m.eviction.Back(); elem != nil {
		m.removeElement(elem)
	}
}

// removeElement removes a specific element and its tag memberships.
// Caller must hold the mutex.
func (m *Memory) removeElement(elem *list.Element) {
	e := elem.Value.(*entry)
	m.eviction.Remove(elem)
	delete(m.items, e.key)
	for _, tag := range e.tags {
		members := m.tags[tag]
		delete(members, e.key)
		if len(members) == 0 {
			delete(m.tags, tag)
		}
	}
}

type memoryTagged struct {
	store *Memory
	tags  []string
}

func (t *memoryTagged) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.setLocked(key, value, ttl); err != nil {
		return err
	}
	e := m.items[key].Value.(*entry)
	for _, tag := range t.tags {
		members, ok := m.tags[tag]
		if !ok {
			members = make(map[string]struct{})
			m.tags[tag] = members
		}
		if _, seen := members[key]; !seen {
			members[key] = struct{}{}
			e.tags = append(e.tags, tag)
		}
	}
	return nil
}

func (t *memoryTagged) Remember(ctx context.Context, key string, ttl time.Duration, fn Loader) ([]byte, error) {
	return remember(ctx, &t.store.group, t.store.Get, t.Set, key, ttl, fn)
}

func (t *memoryTagged) Flush(_ context.Context) error {
	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	flushed := 0
	for _, tag := range t.tags {
		for key := range m.tags[tag] {
			if elem, ok := m.items[key]; ok {
				m.removeElement(elem)
				flushed++
			}
		}
		delete(m.tags, tag)
	}
	m.opts.logger.Debug("cache tags flushed", zap.Strings("tags", t.tags), zap.Int("keys", flushed))
	return nil
}

var (
	_ Store  = (*Memory)(nil)
	_ Tagged = (*memoryTagged)(nil)
)
