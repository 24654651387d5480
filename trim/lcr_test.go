package trim

import (
	"testing"

	"github.com/galaxybio/fsa/overlap"
	"github.com/stretchr/testify/require"
)

func ov(sOff, sEnd uint32) overlap.Record {
	return overlap.Record{
		QID: 1, QOff: 0, QEnd: sEnd - sOff, QSize: sEnd - sOff,
		SID: 0, SOff: sOff, SEnd: sEnd, SSize: 10000,
		QDir: overlap.Fwd, SDir: overlap.Fwd,
		IdentityPercent: 99,
	}
}

// TestLCRScenario5 is spec §8 concrete scenario 5: overlaps on a
// 10000-residue template at [100,4000), [3800,8000), [100,2000); with
// min_cov=2 the depth>=2 run [3800,4000) anchors the merged interval
// [100,8000), which survives whole as the LCR.
func TestLCRScenario5(t *testing.T) {
	overlaps := []overlap.Record{
		ov(100, 4000),
		ov(3800, 8000),
		ov(100, 2000),
	}
	got := LCR(10000, overlaps, LCROpts{MinCov: 2, MinOvlpSize: 0, MinReadSize: 1})
	require.Equal(t, ClipRange{Left: 100, Right: 8000, Size: 10000}, got)
}

func TestLCRNoOverlaps(t *testing.T) {
	got := LCR(1000, nil, LCROpts{MinReadSize: 1})
	require.Equal(t, ClipRange{}, got)
}

func TestLCRMinCovZeroUsesFullUnion(t *testing.T) {
	overlaps := []overlap.Record{
		ov(0, 100),
		ov(100, 300),
	}
	got := LCR(300, overlaps, LCROpts{MinCov: 0, MinOvlpSize: 0, MinReadSize: 1})
	require.Equal(t, ClipRange{Left: 0, Right: 300, Size: 300}, got)
}

func TestLCRDiscardsBelowMinReadSize(t *testing.T) {
	overlaps := []overlap.Record{ov(0, 50)}
	got := LCR(1000, overlaps, LCROpts{MinReadSize: 100})
	require.Equal(t, ClipRange{}, got)
}

func TestLCRPreTruncateDeterministic(t *testing.T) {
	// More than maxOverlaps(): every overlap here has identical identity,
	// so the truncation falls back to ascending QID; since qids 0..319 all
	// cover the same range, the kept top 300 (lowest qid) still span the
	// same union, and the LCR result is unaffected either way. The point
	// of this test is that preTruncate itself doesn't panic or reorder
	// unpredictably across repeated calls.
	var overlaps []overlap.Record
	for i := uint32(0); i < 320; i++ {
		r := ov(0, 1000)
		r.QID = i
		r.IdentityPercent = 95
		overlaps = append(overlaps, r)
	}
	a := preTruncate(overlaps, 300)
	b := preTruncate(overlaps, 300)
	require.Equal(t, a, b)
	require.Len(t, a, 300)
	require.Equal(t, uint32(0), a[0].QID)
}
