package trim

import (
	"sort"

	"github.com/galaxybio/fsa/interval"
	"github.com/galaxybio/fsa/overlap"
)

// LCROpts configures LCR (spec §4.F).
type LCROpts struct {
	// MinCov is the minimum depth (number of overlapping records) a region
	// must reach to count toward the cover range. Zero disables the
	// depth filter entirely (the whole merged overlap union is eligible).
	MinCov int32
	// MinOvlpSize is the merge-gap tolerance passed to IntervalList.Merge.
	// SplitOpts has a field of the same name, which Split does not read.
	MinOvlpSize interval.PosType
	// MinReadSize is the minimum surviving interval length; shorter (or
	// absent) results in a discarded ClipRange.
	MinReadSize int
	// MaxOverlaps bounds the pre-truncation of an oversized overlap set
	// (spec §4.F "when |O| > 300 pre-truncate..."). Zero means 300.
	MaxOverlaps int
}

func (o LCROpts) maxOverlaps() int {
	if o.MaxOverlaps > 0 {
		return o.MaxOverlaps
	}
	return 300
}

// preTruncate keeps, at most, the top limit overlaps by descending
// IdentityPercent, breaking ties by ascending QID (SPEC_FULL §3.F, recovered
// from original_source's sort comparator — needed to make the truncation
// deterministic and therefore testable).
func preTruncate(overlaps []overlap.Record, limit int) []overlap.Record {
	if len(overlaps) <= limit {
		return overlaps
	}
	sorted := append([]overlap.Record(nil), overlaps...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IdentityPercent != sorted[j].IdentityPercent {
			return sorted[i].IdentityPercent > sorted[j].IdentityPercent
		}
		return sorted[i].QID < sorted[j].QID
	})
	return sorted[:limit]
}

// coveredMerged keeps the merged intervals that contain at least one
// min_cov-depth sub-run, returned *whole* rather than clipped down to the
// sub-run (spec §4.F step 2's "intersect them with merge(...)" scenario 5:
// a merged interval anchored by a high-depth core is trustworthy along its
// full extent, not just the core itself — e.g. overlaps at
// [100,4000)/[3800,8000)/[100,2000) with min_cov=2 merge to one interval
// [100,8000) containing the depth>=2 run [3800,4000), so [100,8000) as a
// whole is the surviving candidate).
func coveredMerged(merged, covRuns []interval.Interval) []interval.Interval {
	var out []interval.Interval
	for _, m := range merged {
		for _, c := range covRuns {
			if c.Hi > m.Lo && c.Lo < m.Hi {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func cloneMerged(l *interval.IntervalList, minOverlap interval.PosType) *interval.IntervalList {
	out := interval.NewIntervalList()
	for _, iv := range l.Items() {
		out.AddInterval(iv)
	}
	out.Merge(minOverlap)
	return out
}

// LCR computes the largest-cover-range of one template read (spec §4.F):
// the overlaps' T-ranges are merged with opts.MinOvlpSize tolerance; when
// opts.MinCov > 0 only merged intervals containing at least one run of
// depth >= opts.MinCov are kept, each whole (see coveredMerged); the
// longest kept interval is the result. overlaps must all share
// the same (normalized) SID — the template read whose size is
// templateSize. Templates with no surviving interval, or whose longest
// interval is shorter than opts.MinReadSize, get a discarded ClipRange.
func LCR(templateSize int, overlaps []overlap.Record, opts LCROpts) ClipRange {
	overlaps = preTruncate(overlaps, opts.maxOverlaps())

	il := interval.NewIntervalList()
	for _, o := range overlaps {
		il.Add(interval.PosType(o.SOff), interval.PosType(o.SEnd), 1)
	}
	if il.Len() == 0 {
		return ClipRange{}
	}

	var candidates []interval.Interval
	if opts.MinCov > 0 {
		depth := interval.DepthFrom(il)
		covRuns := depth.DepthAtLeast(int64(opts.MinCov))
		merged := cloneMerged(il, opts.MinOvlpSize)
		candidates = coveredMerged(merged.Items(), covRuns.Items())
	} else {
		candidates = cloneMerged(il, opts.MinOvlpSize).Items()
	}

	var best interval.Interval
	found := false
	for _, c := range candidates {
		if !found || c.Len() > best.Len() {
			best, found = c, true
		}
	}
	if !found || int(best.Len()) < opts.MinReadSize {
		return ClipRange{}
	}
	return ClipRange{Left: int(best.Lo), Right: int(best.Hi), Size: templateSize}
}
