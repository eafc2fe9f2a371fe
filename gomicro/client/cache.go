package client

import "sync"

// Cache holds the last fetched collection of a resource.
//
// Every write replaces the whole collection; there is no merging. Subscribers
// receive the current snapshot on subscribe and every later replacement.
// A subscriber that has not consumed the previous value only sees the latest.
type Cache[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
	subs   map[int]chan []T
	nextID int
}

// NewCache returns an empty cache
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{subs: make(map[int]chan []T)}
}

// Snapshot returns a copy of the cached items and whether the cache was ever filled
func (c *Cache[T]) Snapshot() ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.items), c.loaded
}

// Replace swaps the cached collection and notifies subscribers
func (c *Cache[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = clone(items)
	c.loaded = true
	for _, ch := range c.subs {
		offer(ch, clone(c.items))
	}
}

// Invalidate marks the cache stale so Resource.Items refetches. Subscribers
// keep their last snapshot until the next Replace.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.loaded = false
}

// Subscribe returns a channel of snapshots and a function that ends the subscription
func (c *Cache[T]) Subscribe() (<-chan []T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan []T, 1)
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	if c.loaded {
		ch <- clone(c.items)
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

// offer replaces any unread value with v without blocking
func offer[T any](ch chan []T, v []T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
