package lru8

const (
	// The cache is built around exactly 8 slots: one byte lane of the
	// recency matrix per slot.
	groupSize = 8
	groupMask = groupSize - 1

	bucketEmpty = 0xFF
)

type slot[K comparable, V any] struct {
	key   K
	value V

	// Computed once on insertion, compared before the key during probing.
	hash uint32
}

func (s *slot[K, V]) set(key K, value V, hash uint32) {
	s.key = key
	s.value = value
	s.hash = hash
}

var emptyBuckets = [groupSize]uint8{
	bucketEmpty,
	bucketEmpty,
	bucketEmpty,
	bucketEmpty,

	bucketEmpty,
	bucketEmpty,
	bucketEmpty,
	bucketEmpty,
}
