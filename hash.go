package lru8

import "hash/maphash"

// HashFunc maps a key to a 32-bit hash. The low 3 bits select the home bucket.
type HashFunc[K any] func(K) uint32

// EqualFunc reports whether two keys are the same key.
type EqualFunc[K any] func(a, b K) bool

// Integer32 is the set of integer types hashed by identity.
type Integer32 interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

// Integer64 is the set of integer types wider than 32 bits (on 64-bit
// platforms), hashed bytewise.
type Integer64 interface {
	~int | ~uint | ~int64 | ~uint64 | ~uintptr
}

const djbSeed = 5381

// HashIdentity32 truncates k to 32 bits. Negative values are sign-extended.
func HashIdentity32[K Integer32](k K) uint32 {
	return uint32(k)
}

// HashDJBX33X is Bernstein's hash with xor: h = h*33 ^ b.
func HashDJBX33X(b []byte) uint32 {
	h := uint32(djbSeed)
	for _, c := range b {
		h = ((h << 5) + h) ^ uint32(c)
	}

	return h
}

// HashInteger64 runs HashDJBX33X over the 8 little-endian bytes of k.
func HashInteger64[K Integer64](k K) uint32 {
	v := uint64(k)
	h := uint32(djbSeed)

	for range 8 {
		h = ((h << 5) + h) ^ uint32(v&0xFF)
		v >>= 8
	}

	return h
}

// HashString runs HashDJBX33X over the bytes of k.
func HashString[K ~string](k K) uint32 {
	h := uint32(djbSeed)
	for i := 0; i < len(k); i++ {
		h = ((h << 5) + h) ^ uint32(k[i])
	}

	return h
}

// MakeDefaultHashFunc picks a hash for K once, so that hashing never boxes the key.
//
// Built-in integers up to 32 bits hash by identity, wider integers and
// strings by DJBX33X. Everything else, named types included, goes through
// maphash with the given seed.
func MakeDefaultHashFunc[K comparable](seed maphash.Seed) HashFunc[K] {
	var f any

	switch any(*new(K)).(type) {
	case int8:
		f = HashFunc[int8](HashIdentity32[int8])
	case int16:
		f = HashFunc[int16](HashIdentity32[int16])
	case int32:
		f = HashFunc[int32](HashIdentity32[int32])
	case uint8:
		f = HashFunc[uint8](HashIdentity32[uint8])
	case uint16:
		f = HashFunc[uint16](HashIdentity32[uint16])
	case uint32:
		f = HashFunc[uint32](HashIdentity32[uint32])
	case int:
		f = HashFunc[int](HashInteger64[int])
	case uint:
		f = HashFunc[uint](HashInteger64[uint])
	case int64:
		f = HashFunc[int64](HashInteger64[int64])
	case uint64:
		f = HashFunc[uint64](HashInteger64[uint64])
	case uintptr:
		f = HashFunc[uintptr](HashInteger64[uintptr])
	case string:
		f = HashFunc[string](HashString[string])
	}

	if h, ok := f.(HashFunc[K]); ok {
		return h
	}

	return func(k K) uint32 {
		h := maphash.Comparable(seed, k)
		return uint32(h ^ h>>32)
	}
}

func defaultEqual[K comparable](a, b K) bool {
	return a == b
}
