package lru8

import "iter"

// Cache is an 8-entry LRU cache. It's allocation-free after New: slots, index
// map and recency order all live inline, and the recency order is a single
// 64-bit word instead of a linked list.
//
// The capacity is fixed at 8. Writing a new key into a full cache evicts the
// least recently used one, so Write never fails.
//
// Cache is not safe for concurrent use. Copying a Cache value copies its
// whole state.
type Cache[K comparable, V any] struct {
	table[K, V]
}

// Returns a new instance of the cache.
func New[K comparable, V any](opts ...Option[K, V]) *Cache[K, V] {
	var c Cache[K, V]
	c.init(opts...)

	return &c
}

// Write stores the value for key and marks it as most recently used.
// An existing key is updated in place, a new key replaces the LRU entry.
func (c *Cache[K, V]) Write(key K, value V) {
	c.put(key, value)
}

// Read copies the value of key into out and marks it as most recently used.
// On a miss out is left untouched and the recency order doesn't change.
func (c *Cache[K, V]) Read(key K, out *V) bool {
	v, ok := c.get(key)
	if ok {
		*out = v
	}

	return ok
}

// Get is Read returning the value.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.get(key)
}

// Peek returns the value of key without updating its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	return c.peek(key)
}

// Checks whether a key is in the cache, without updating its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.find(key)
	return ok
}

// Keys returns the live keys, most recently used first.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, c.Len())
	for k := range c.All() {
		keys = append(keys, k)
	}

	return keys
}

// All iterates the live entries from most to least recently used. It doesn't
// update the recency order. The cache must not be written during iteration.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, idx := range c.recency.order() {
			if c.used&(1<<idx) == 0 {
				continue
			}

			s := &c.slots[idx]
			if !yield(s.key, s.value) {
				return
			}
		}
	}
}
