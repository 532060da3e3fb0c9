package lru8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_Basic(t *testing.T) {
	s := NewSet[string]()

	require.True(t, s.Add("foo"))
	require.False(t, s.Add("foo"))

	assert.True(t, s.Has("foo"))
	assert.False(t, s.Has("bar"))
	assert.Equal(t, 1, s.Len())
}

func TestSet_EvictsLeastRecentlySeen(t *testing.T) {
	s := NewSet[int]()

	for k := range 8 {
		require.True(t, s.Add(k))
	}

	// Touch 0 through both paths: Has and a repeated Add.
	require.True(t, s.Has(0))
	require.False(t, s.Add(1))

	require.True(t, s.Add(8))

	assert.False(t, s.Has(2))
	for _, k := range []int{0, 1, 3, 4, 5, 6, 7, 8} {
		assert.True(t, s.Has(k), k)
	}

	assert.Equal(t, 8, s.Len())
	assert.Equal(t, uint64(1), s.Stats().Evictions)
}

func TestSet_Clear(t *testing.T) {
	s := NewSet[int]()

	for k := range 5 {
		s.Add(k)
	}

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has(0))
	assert.True(t, s.Add(0))
}

func TestSet_Dedup(t *testing.T) {
	s := NewSet(WithHashFunc[string, struct{}](HashString[string]))

	stream := []string{"a", "b", "a", "a", "c", "b", "d"}

	var fresh []string
	for _, v := range stream {
		if s.Add(v) {
			fresh = append(fresh, v)
		}
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, fresh)
}
