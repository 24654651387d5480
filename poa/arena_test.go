package poa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaAllocAndSlice(t *testing.T) {
	a := NewArena()
	start := a.Alloc(3)
	links := a.Slice(start, 3)
	require.Len(t, links, 3)
	links[0] = LinkInfo{PTPos: 5, Count: 1, Weight: 2}
	links[1] = LinkInfo{PTPos: 6, Count: 1, Weight: 3}
	links[2] = LinkInfo{PTPos: 7, Count: 1, Weight: 4}

	again := a.Slice(start, 3)
	require.Equal(t, int32(5), again[0].PTPos)
	require.Equal(t, int32(7), again[2].PTPos)
}

func TestArenaResetReusesPages(t *testing.T) {
	a := NewArena()
	s1 := a.Alloc(2)
	a.Slice(s1, 2)[0] = LinkInfo{PTPos: 1}
	a.Reset()
	s2 := a.Alloc(2)
	require.Equal(t, s1, s2, "reset should rewind the same page rather than growing a new one")
}

func TestArenaSpansMultiplePages(t *testing.T) {
	a := NewArena()
	// Force at least two pages by allocating more than pageSize total.
	total := 0
	var last int32
	for total < pageSize+10 {
		last = a.Alloc(1)
		total++
	}
	got := a.Slice(last, 1)
	require.Len(t, got, 1)
}
