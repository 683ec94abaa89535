// Package infra holds process-local infrastructure shared by the lookup service.
package infra

import (
	"container/list"
	"sync"
	"time"
)

// Cache size limits to prevent unbounded memory growth
const (
	DefaultMaxCacheEntries = 1000            // Maximum number of cache entries
	DefaultCacheCleanup    = 5 * time.Minute // How often to run cache cleanup
)

type cacheEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	cleanupInterval time.Duration
	onEvict         func(n int)
}

// WithCleanupInterval overrides how often expired entries are swept.
func WithCleanupInterval(d time.Duration) CacheOption {
	return func(c *cacheConfig) {
		c.cleanupInterval = d
	}
}

// WithEvictionHook is called with the number of entries dropped for size.
func WithEvictionHook(fn func(n int)) CacheOption {
	return func(c *cacheConfig) {
		c.onEvict = fn
	}
}

// Cache is an LRU cache with per-entry TTL. Safe for concurrent use.
type Cache[V any] struct {
	mu         sync.Mutex
	order      *list.List // front is most recently used
	items      map[string]*list.Element
	maxEntries int
	onEvict    func(n int)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCache creates a cache holding at most maxEntries values and starts its
// cleanup goroutine. Call Close to stop it.
func NewCache[V any](maxEntries int, opts ...CacheOption) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}
	cfg := cacheConfig{cleanupInterval: DefaultCacheCleanup}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Cache[V]{
		order:      list.New(),
		items:      make(map[string]*list.Element),
		maxEntries: maxEntries,
		onEvict:    cfg.onEvict,
		stopCh:     make(chan struct{}),
	}
	go c.cleanupLoop(cfg.cleanupInterval)
	return c
}

// Get returns the cached value for key if present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}
	entry := el.Value.(*cacheEntry[V])
	if !time.Now().Before(entry.expiresAt) {
		c.removeElement(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return entry.value, true
}

// Set stores value under key for ttl, evicting the least recently used entry
// when the cache is full.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()

	expiresAt := time.Now().Add(ttl)
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*cacheEntry[V])
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		c.mu.Unlock()
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry[V]{key: key, value: value, expiresAt: expiresAt})

	evicted := 0
	for len(c.items) > c.maxEntries {
		c.removeElement(c.order.Back())
		evicted++
	}
	onEvict := c.onEvict
	c.mu.Unlock()

	if evicted > 0 && onEvict != nil {
		onEvict(evicted)
	}
}

// Delete removes key from the cache.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Size returns the current number of entries, expired ones included until swept.
func (c *Cache[V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.items))
}

// Close stops the background cleanup goroutine. Safe to call more than once.
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup drops every expired entry.
func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*cacheEntry[V]).expiresAt) {
			c.removeElement(el)
		}
		el = prev
	}
}

// removeElement must be called with mu held.
func (c *Cache[V]) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*cacheEntry[V]).key)
}
