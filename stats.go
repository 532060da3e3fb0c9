package lru8

type Stats struct {
	Size     int
	Capacity int

	Hits   uint64
	Misses uint64

	// Writes of new keys and of existing keys.
	Inserts uint64
	Updates uint64

	// Inserts that replaced a live key.
	Evictions uint64
}
