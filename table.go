package lru8

import (
	"hash/maphash"
	"math/bits"
)

type table[K comparable, V any] struct {
	slots [groupSize]slot[K, V]

	// Index map: bucket i holds a slot index or bucketEmpty.
	// Buckets are never cleaned after an eviction, only by Clear.
	buckets [groupSize]uint8

	recency matrix

	// Bitmask of slots holding a live key.
	used uint8

	hashFunc   HashFunc[K]
	equalFunc  EqualFunc[K]
	branchFree bool

	hits      uint64
	misses    uint64
	inserts   uint64
	updates   uint64
	evictions uint64
}

type Option[K comparable, V any] func(t *table[K, V])

// Override default hash function.
func WithHashFunc[K comparable, V any](f HashFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.hashFunc = f
	}
}

// Override default key equality (==).
func WithEqualFunc[K comparable, V any](f EqualFunc[K]) Option[K, V] {
	return func(t *table[K, V]) {
		t.equalFunc = f
	}
}

// Selects the LRU lookup algorithm. The branch-free zero byte scan is the
// default; false falls back to testing each row in turn.
func WithBranchFreeLRU[K comparable, V any](enabled bool) Option[K, V] {
	return func(t *table[K, V]) {
		t.branchFree = enabled
	}
}

func (t *table[K, V]) init(opts ...Option[K, V]) {
	t.branchFree = true

	for _, opt := range opts {
		opt(t)
	}

	if t.hashFunc == nil {
		t.hashFunc = MakeDefaultHashFunc[K](maphash.MakeSeed())
	}

	if t.equalFunc == nil {
		t.equalFunc = defaultEqual[K]
	}

	t.Clear()
}

func (t *table[K, V]) lru() uint8 {
	if t.branchFree {
		return t.recency.findZeroRow()
	}

	return t.recency.findZeroRowBranch()
}

func (t *table[K, V]) touch(idx uint8) {
	t.recency = t.recency.setRowClearColumn(idx)
}

// find probes at most one full cycle of buckets, stopping at the first empty one.
// It doesn't touch the recency order.
func (t *table[K, V]) find(key K) (uint8, bool) {
	h := t.hashFunc(key)
	i := uint8(h) & groupMask

	for range groupSize {
		idx := t.buckets[i]
		if idx == bucketEmpty {
			break
		}

		s := &t.slots[idx]
		if s.hash == h && t.equalFunc(s.key, key) {
			return idx, true
		}

		i = (i + 1) & groupMask
	}

	return bucketEmpty, false
}

func (t *table[K, V]) get(key K) (V, bool) {
	idx, ok := t.find(key)
	if !ok {
		t.misses++

		var zero V
		return zero, false
	}

	t.hits++
	t.touch(idx)

	return t.slots[idx].value, true
}

func (t *table[K, V]) peek(key K) (V, bool) {
	idx, ok := t.find(key)
	if !ok {
		var zero V
		return zero, false
	}

	return t.slots[idx].value, true
}

// put overwrites the value of an existing key or evicts the LRU slot for a new
// one. In both cases the slot becomes MRU.
// Returns whether the key is new.
func (t *table[K, V]) put(key K, value V) bool {
	var (
		h      = t.hashFunc(key)
		victim = t.lru()
		i      = uint8(h) & groupMask

		target      uint8
		foundTarget bool
	)

	for range groupSize {
		idx := t.buckets[i]

		// 1. End of the chain
		if idx == bucketEmpty {
			if !foundTarget {
				target = i
				foundTarget = true
			}

			break
		}

		// 2. Existing key
		s := &t.slots[idx]
		if s.hash == h && t.equalFunc(s.key, key) {
			s.value = value
			t.touch(idx)
			t.updates++

			return false
		}

		// 3. Cache the first bucket pointing at the victim
		if !foundTarget && idx == victim {
			target = i
			foundTarget = true
		}

		i = (i + 1) & groupMask
	}

	// While any slot is vacant there is an empty bucket on every chain, and once
	// all slots are live the buckets hold each slot exactly once. So a target is
	// always found; the home bucket is only a guard.
	if !foundTarget {
		target = uint8(h) & groupMask
	}

	if t.used&(1<<victim) != 0 {
		t.evictions++
	}

	t.used |= 1 << victim
	t.inserts++

	t.buckets[target] = victim
	t.slots[victim].set(key, value, h)
	t.touch(victim)

	return true
}

// Clear restores the initial recency order and empties the index map. Slot
// payloads are left in place but become unreachable.
func (t *table[K, V]) Clear() {
	t.recency = newMatrix()
	t.buckets = emptyBuckets
	t.used = 0
}

// Len returns the number of live keys.
func (t *table[K, V]) Len() int {
	return bits.OnesCount8(t.used)
}

// Cap always returns 8.
func (t *table[K, V]) Cap() int {
	return groupSize
}

// Matrix returns the raw recency word, one byte per slot row. Intended for
// debugging and visualisation.
func (t *table[K, V]) Matrix() uint64 {
	return uint64(t.recency)
}

func (t *table[K, V]) Stats() Stats {
	return Stats{
		Size:      t.Len(),
		Capacity:  groupSize,
		Hits:      t.hits,
		Misses:    t.misses,
		Inserts:   t.inserts,
		Updates:   t.updates,
		Evictions: t.evictions,
	}
}
