package lru8

import (
	"math/bits"
)

const (
	bitsetLSB  = 0x0101010101010101
	bitsetLow7 = 0x7F7F7F7F7F7F7F7F

	// Row i has bits 0..i-1 set: slot 0 is LRU, slot 7 is MRU.
	matrixInit = 0x7F3F1F0F07030100
)

// matrix is the recency relation over the 8 slots.
//
// The underlying representation is an 8x8 bit matrix packed row-major into a
// single word, one byte per row: bit (row, col) is set when the row slot was
// used more recently than the col slot. The relation is always a strict total
// order, so exactly one row is zero at any time and that row is the LRU slot.
type matrix uint64

func newMatrix() matrix {
	return matrixInit
}

// findZeroRow returns the index of the zero row without data-dependent
// branches. Every zero byte is turned into 0x80 and every other byte into 0x00,
// then the position of the single marker is recovered from its trailing zeros.
//
// Returns 8 if no row is zero.
//
//go:inline
func (m matrix) findZeroRow() uint8 {
	y := (uint64(m) & bitsetLow7) + bitsetLow7
	y = ^(y | uint64(m) | bitsetLow7)

	return uint8(bits.TrailingZeros64(y) >> 3)
}

// findZeroRowBranch is the portable counterpart of findZeroRow. Both must
// agree for every reachable state.
//
// Returns 8 if no row is zero.
func (m matrix) findZeroRowBranch() uint8 {
	for i := range uint8(groupSize) {
		if uint64(m)&(0xFF<<(i<<3)) == 0 {
			return i
		}
	}

	return groupSize
}

// setRowClearColumn promotes slot i to MRU: row i becomes all ones and column i
// all zeros (the self bit included). The relative order of the other slots is
// untouched.
//
//go:inline
func (m matrix) setRowClearColumn(i uint8) matrix {
	m |= matrix(0xFF) << (i << 3)
	m &^= matrix(bitsetLSB) << i

	return m
}

func (m matrix) row(i uint8) uint8 {
	return uint8(m >> (i << 3))
}

// rank is the number of slots used less recently than slot i: 0 for the LRU
// slot, 7 for the MRU slot.
func (m matrix) rank(i uint8) uint8 {
	return uint8(bits.OnesCount8(m.row(i)))
}

// order returns the slot indices sorted from MRU to LRU.
func (m matrix) order() [groupSize]uint8 {
	var out [groupSize]uint8
	for i := range uint8(groupSize) {
		out[groupSize-1-m.rank(i)] = i
	}

	return out
}
