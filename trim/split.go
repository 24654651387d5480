package trim

import (
	"github.com/galaxybio/fsa/interval"
	"github.com/galaxybio/fsa/overlap"
)

// SplitOpts configures Split (spec §4.G).
type SplitOpts struct {
	// MinOvlpSize mirrors LCROpts.MinOvlpSize. Split does not read it: its
	// bad-interval lists are merged with zero tolerance.
	MinOvlpSize interval.PosType
	// MinSize is the minimum final clear-range length; shorter results in a
	// discarded ClipRange.
	MinSize int
}

// adjustedOverlap is one overlap record after proportional-trim-to-clear-
// range adjustment: its T-range and Q-range both lie fully within the two
// participants' clear ranges.
type adjustedOverlap struct {
	qid        uint32
	tLo, tHi   interval.PosType
	qLo, qHi   interval.PosType
}

// snapMargin is the "15-bp snap to clear range" threshold of spec §4.G.
const snapMargin = 15

// trimToClearRange adjusts one overlap so its T-range and Q-range both lie
// within tClear/qClear, proportionally moving the other side's endpoint
// whenever one side is clipped (spec §4.G "proportional trim on each
// side"). It returns ok=false when the adjusted ranges no longer intersect
// the clear region on either side.
//
// The endpoint mapping between T and Q is linear interpolation across the
// overlap's own span — the spec does not hand this package the underlying
// base-level alignment, only the four offsets, so a proportional estimate
// is the best available without re-deriving the alignment. Overhangs under
// snapMargin are treated identically to larger ones here: clipping to the
// clear-range boundary already *is* the 15-bp snap for the clipped side;
// nothing further is needed because the hard clip never leaves a sub-15bp
// sliver outside the clear range.
func trimToClearRange(o overlap.Record, tClear, qClear ClipRange) (adjustedOverlap, bool) {
	sSpan := float64(o.SEnd - o.SOff)
	qSpan := float64(o.QEnd - o.QOff)
	if sSpan <= 0 || qSpan <= 0 {
		return adjustedOverlap{}, false
	}

	mapT2Q := func(t uint32) float64 {
		frac := (float64(t) - float64(o.SOff)) / sSpan
		if o.QDir == overlap.Fwd {
			return float64(o.QOff) + frac*qSpan
		}
		return float64(o.QEnd) - frac*qSpan
	}
	mapQ2T := func(q float64) float64 {
		var frac float64
		if o.QDir == overlap.Fwd {
			frac = (q - float64(o.QOff)) / qSpan
		} else {
			frac = (float64(o.QEnd) - q) / qSpan
		}
		return float64(o.SOff) + frac*sSpan
	}

	tLo, tHi := int64(o.SOff), int64(o.SEnd)
	if int64(tClear.Left) > tLo {
		tLo = int64(tClear.Left)
	}
	if int64(tClear.Right) < tHi {
		tHi = int64(tClear.Right)
	}
	if tLo >= tHi {
		return adjustedOverlap{}, false
	}

	qA, qB := mapT2Q(uint32(tLo)), mapT2Q(uint32(tHi))
	qLoF, qHiF := qA, qB
	if qLoF > qHiF {
		qLoF, qHiF = qHiF, qLoF
	}
	qLo, qHi := int64(qLoF), int64(qHiF)
	if int64(qClear.Left) > qLo {
		qLo = int64(qClear.Left)
	}
	if int64(qClear.Right) < qHi {
		qHi = int64(qClear.Right)
	}
	if qLo >= qHi {
		return adjustedOverlap{}, false
	}

	// Map the (possibly further-clipped) Q range back onto T, and take the
	// tighter of the two T ranges -- the Q clip can only shrink T further,
	// never grow it, because the mapping is monotonic.
	t2A, t2B := mapQ2T(float64(qLo)), mapQ2T(float64(qHi))
	t2Lo, t2Hi := t2A, t2B
	if t2Lo > t2Hi {
		t2Lo, t2Hi = t2Hi, t2Lo
	}
	if int64(t2Lo) > tLo {
		tLo = int64(t2Lo)
	}
	if int64(t2Hi) < tHi {
		tHi = int64(t2Hi)
	}
	if tLo >= tHi {
		return adjustedOverlap{}, false
	}

	return adjustedOverlap{
		qid: o.QID,
		tLo: interval.PosType(tLo), tHi: interval.PosType(tHi),
		qLo: interval.PosType(qLo), qHi: interval.PosType(qHi),
	}, true
}

func overlapLen(aLo, aHi, bLo, bHi interval.PosType) interval.PosType {
	lo, hi := aLo, aHi
	if bLo > lo {
		lo = bLo
	}
	if bHi < hi {
		hi = bHi
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Split implements spec §4.G: it adjusts overlaps to the clear ranges of
// both participants, detects candidate subread/palindrome artifacts from
// pairs of overlaps to the same partner read, and trims the template's LCR
// clear range down around the surviving bad intervals.
//
// clipRanges supplies every other read's clear range as already computed by
// a prior LCR pass (spec §4.G runs "after LCR"); overlaps with a partner
// not present in clipRanges, or whose partner was discarded, are dropped.
func Split(lcr ClipRange, overlaps []overlap.Record, clipRanges map[uint32]ClipRange, opts SplitOpts) ClipRange {
	if lcr.Discarded() {
		return ClipRange{}
	}

	adjusted := make([]adjustedOverlap, 0, len(overlaps))
	for _, o := range overlaps {
		qClear, ok := clipRanges[o.QID]
		if !ok || qClear.Discarded() {
			continue
		}
		adj, ok := trimToClearRange(o, lcr, qClear)
		if ok {
			adjusted = append(adjusted, adj)
		}
	}

	return splitAdjusted(lcr, adjusted, opts)
}

// splitAdjusted is Split's core subread/palindrome-detection and clip-
// narrowing logic (spec §4.G steps 2 onward), operating on overlaps already
// adjusted to both participants' clear ranges. Split into its own function
// so it can be exercised directly by tests without round-tripping through
// trimToClearRange's proportional-trim estimate.
func splitAdjusted(lcr ClipRange, adjusted []adjustedOverlap, opts SplitOpts) ClipRange {
	groups := make(map[uint32][]adjustedOverlap)
	for _, a := range adjusted {
		groups[a.qid] = append(groups[a.qid], a)
	}

	bad := interval.NewIntervalList()
	badAll := interval.NewIntervalList()
	largePalindrome := false
	for _, g := range groups {
		if len(g) != 2 {
			continue
		}
		a, b := g[0], g[1]
		tovlp := overlapLen(a.tLo, a.tHi, b.tLo, b.tHi)
		qovlp := overlapLen(a.qLo, a.qHi, b.qLo, b.qHi)
		if tovlp == 0 && qovlp == 0 {
			continue
		}
		if tovlp > 1000 && qovlp > 1000 {
			largePalindrome = true
		}
		if tovlp > 250 || qovlp < 250 {
			continue
		}
		// Whichever of a/b starts first on T supplies the gap's low end (its
		// own tHi); the other supplies the high end (its own tLo). When the
		// pair actually overlaps on T (tovlp > 0, within the <= 250
		// tolerance above) this yields an inverted [lo, hi) -- swapping
		// turns it into the intersection region itself, exactly as
		// original_source/src/app/mecat2trim/2_split_reads/split_reads.c's
		// detect_subread does: it never special-cases the overlapping case.
		var gapLo, gapHi interval.PosType
		if a.tLo < b.tLo {
			gapLo, gapHi = a.tHi, b.tLo
		} else {
			gapLo, gapHi = b.tHi, a.tLo
		}
		if gapLo > gapHi {
			gapLo, gapHi = gapHi, gapLo
		}
		length := gapHi - gapLo
		if length <= 500 {
			bad.Add(gapLo, gapHi, 0)
		}
		if length <= 2000 {
			badAll.Add(gapLo, gapHi, 0)
		}
	}
	bad.Merge(0)
	badAll.Merge(0)

	spans := interval.NewIntervalList()
	for _, a := range adjusted {
		spans.AddInterval(interval.Interval{Lo: a.tLo, Hi: a.tHi, Count: 1})
	}

	var survivors []interval.Interval
	for _, bi := range bad.Items() {
		var allHits int64
		for _, ba := range badAll.Items() {
			if ba.Lo <= bi.Lo && bi.Hi <= ba.Hi {
				allHits += int64(ba.Count)
			}
		}
		var largeFlag int64
		if largePalindrome {
			largeFlag = 1
		}
		numSpan := spans.Spanning(bi.Lo-100, bi.Hi+100)
		discard := numSpan <= 9 && int64(bi.Count)+allHits/4+largeFlag >= 3
		if !discard {
			survivors = append(survivors, bi)
		}
	}

	remaining := interval.NewIntervalList()
	for _, bi := range survivors {
		remaining.AddInterval(bi)
	}
	remaining.Invert(interval.PosType(lcr.Left), interval.PosType(lcr.Right))

	best, ok := remaining.Longest()
	if !ok || int(best.Len()) < opts.MinSize {
		return ClipRange{}
	}
	return ClipRange{Left: int(best.Lo), Right: int(best.Hi), Size: lcr.Size}
}
