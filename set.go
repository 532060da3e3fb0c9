package lru8

// Set is the key-only counterpart of Cache: it remembers the 8 most recently
// seen keys. Handy for suppressing repeats in a hot loop without a map.
//
// Set is not safe for concurrent use.
type Set[K comparable] struct {
	table[K, struct{}]
}

func NewSet[K comparable](opts ...Option[K, struct{}]) *Set[K] {
	var s Set[K]
	s.init(opts...)

	return &s
}

// Add puts a key in the set and marks it as most recently used.
// Returns whether the key is new.
func (s *Set[K]) Add(key K) bool {
	return s.put(key, struct{}{})
}

// Has checks whether a key is in the set. A hit counts as a use.
func (s *Set[K]) Has(key K) bool {
	_, ok := s.get(key)
	return ok
}
