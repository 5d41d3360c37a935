// Package cache is an explicit read-through cache keyed by operation and
// arguments. Mutating operations invalidate by key prefix.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value   any
	expires time.Time
}

// Cache is safe for concurrent use. A nil *Cache caches nothing.
// Cached values are shared between callers and must be treated as read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	gen     uint64
	group   singleflight.Group
	now     func() time.Time
}

// New creates a cache whose entries expire after ttl
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key builds a cache key from an operation name and its arguments
func Key(op string, args ...any) string {
	var b strings.Builder
	b.WriteString(op)
	for _, a := range args {
		b.WriteByte('|')
		fmt.Fprint(&b, a)
	}
	return b.String()
}

// Get returns a live entry
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// setIfCurrent stores value unless an invalidation happened since gen was read
func (c *Cache) setIfCurrent(key string, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate drops every entry whose key starts with one of prefixes, or
// every entry when no prefix is given. Loads that started earlier are not
// stored.
func (c *Cache) Invalidate(prefixes ...string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if len(prefixes) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Len returns the number of stored entries, expired ones included
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrLoad returns the cached value for key or calls load once for all
// concurrent callers of the same key and caches a successful result.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}
	if v, ok := c.Get(key); ok {
		return v.(T), nil
	}

	gen := c.generation()
	v, err, _ := c.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.setIfCurrent(key, value, gen)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
