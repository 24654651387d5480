package poa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecodeSinglePathReproducesTemplate hand-traces spec §4.I's score
// recurrence for the simplest possible case: one alignment, no
// competition, so the max-score path is forced and must reproduce exactly
// the bases that were pushed in.
func TestDecodeSinglePathReproducesTemplate(t *testing.T) {
	tags := []AlignTag{
		{TPos: 0, PTPos: -1, Delta: 0, PDelta: 0, QBase: 0, PQBase: GapBase, Weight: 1}, // A
		{TPos: 1, PTPos: 0, Delta: 0, PDelta: 0, QBase: 1, PQBase: 0, Weight: 1},        // C
		{TPos: 2, PTPos: 1, Delta: 0, PDelta: 0, QBase: 2, PQBase: 1, Weight: 1},        // G
	}
	arena := NewArena()
	bb := Build(tags, 3, arena)

	got, from, to, ok := Decode(bb, arena, 0, 3)
	require.True(t, ok)
	require.Equal(t, 0, from)
	require.Equal(t, 3, to)
	require.Equal(t, "ACG", string(got))
}

// TestDecodePrefersHigherWeightBranch pits two competing bases at the same
// cell against each other: position 1 has two q_bases (C weight 1, T
// weight 5) both following the same predecessor. The higher-weight branch
// must win regardless of visitation order.
func TestDecodePrefersHigherWeightBranch(t *testing.T) {
	tags := []AlignTag{
		{TPos: 0, PTPos: -1, Delta: 0, PDelta: 0, QBase: 0, PQBase: GapBase, Weight: 1}, // A
		{TPos: 1, PTPos: 0, Delta: 0, PDelta: 0, QBase: 1, PQBase: 0, Weight: 1},        // C, weak
		{TPos: 1, PTPos: 0, Delta: 0, PDelta: 0, QBase: 3, PQBase: 0, Weight: 5},        // T, strong
	}
	arena := NewArena()
	bb := Build(tags, 2, arena)

	got, _, _, ok := Decode(bb, arena, 0, 2)
	require.True(t, ok)
	require.Equal(t, "AT", string(got))
}

// TestDecodeDropsGapBase checks that a winning path through a "-" (gap)
// cell omits that column from the emitted sequence, per spec §4.I "emit
// the corrected sequence as bases (drop the gap symbol)".
func TestDecodeDropsGapBase(t *testing.T) {
	tags := []AlignTag{
		{TPos: 0, PTPos: -1, Delta: 0, PDelta: 0, QBase: 0, PQBase: GapBase, Weight: 1},   // A
		{TPos: 1, PTPos: 0, Delta: 0, PDelta: 0, QBase: GapBase, PQBase: 0, Weight: 10},   // deletion, strongly supported
		{TPos: 2, PTPos: 1, Delta: 0, PDelta: 0, QBase: 2, PQBase: GapBase, Weight: 1},    // G
	}
	arena := NewArena()
	bb := Build(tags, 3, arena)

	got, _, _, ok := Decode(bb, arena, 0, 3)
	require.True(t, ok)
	require.Equal(t, "AG", string(got))
}

func TestDecodeNoCoverageReturnsNotOK(t *testing.T) {
	arena := NewArena()
	bb := Build(nil, 5, arena)
	_, _, _, ok := Decode(bb, arena, 0, 5)
	require.False(t, ok)
}

func TestSegments(t *testing.T) {
	coverage := []int32{0, 0, 3, 4, 5, 1, 0, 6, 7}
	got := Segments(coverage, 2)
	require.Equal(t, []Range{{Lo: 2, Hi: 5}, {Lo: 7, Hi: 9}}, got)
}
