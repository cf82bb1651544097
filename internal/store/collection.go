// Package store provides the client-side cache for server-owned
// collections. The server is always authoritative: cached copies are
// disposable, optimistic patches are reverted on failure, and a refetch
// after any mutation reconciles with server truth.
package store

import "sync"

// Collection caches a list of server-owned entities keyed by ID.
type Collection[T any] struct {
	mu    sync.RWMutex
	items []T
	valid bool
	keyOf func(T) string
}

// NewCollection creates an empty, invalid collection. keyOf extracts the
// entity ID used for patching and lookup.
func NewCollection[T any](keyOf func(T) string) *Collection[T] {
	return &Collection[T]{keyOf: keyOf}
}

// Replace fills the cache from a fresh server fetch and marks it valid.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
	c.valid = true
}

// Items returns a copy of the cached list and whether the cache is valid.
// Callers holding an invalid cache should refetch.
func (c *Collection[T]) Items() ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...), c.valid
}

// Get returns the cached entity with the given key.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if c.keyOf(item) == key {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Patch applies fn to the cached entity with the given key, if present.
// Returns whether a matching entity was found.
func (c *Collection[T]) Patch(key string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.keyOf(c.items[i]) == key {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

// Upsert replaces the entity with the same key or appends it.
func (c *Collection[T]) Upsert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.keyOf(item)
	for i := range c.items {
		if c.keyOf(c.items[i]) == key {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove deletes the entity with the given key, if present.
func (c *Collection[T]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.keyOf(c.items[i]) == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Invalidate marks the cache stale so the next read refetches.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

// BeginOptimistic captures a snapshot of the current state and returns a
// rollback function restoring it. The usual sequence is: BeginOptimistic,
// Patch, network call; on failure call rollback, and in either outcome
// Invalidate so the next read settles on server truth.
func (c *Collection[T]) BeginOptimistic() (rollback func()) {
	c.mu.RLock()
	snapshot := append([]T(nil), c.items...)
	wasValid := c.valid
	c.mu.RUnlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.items = snapshot
		c.valid = wasValid
	}
}
