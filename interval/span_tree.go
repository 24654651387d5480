package interval

import (
	bstore "github.com/biogo/store/interval"
)

// spanTree answers "how many intervals strictly contain [lo, hi)" queries
// in O(log n + k) instead of the O(n) scan a naive implementation would
// need, by wrapping a biogo/store/interval augmented tree. This backs
// trim's subread/palindrome detection (spec §4.G "num_span"), which issues
// one such query per candidate bad interval against the template's
// adjusted overlaps.
type spanTree struct {
	t   bstore.Tree
	ivs []Interval
}

// entry adapts an Interval to biogo/store/interval.Interface.
type entry struct {
	id    uintptr
	r     bstore.IntRange
	value Interval
}

func (e *entry) Range() bstore.IntRange { return e.r }
func (e *entry) ID() uintptr            { return e.id }
func (e *entry) Overlap(b bstore.IntRange) bool {
	return e.r.Start < b.End && b.Start < e.r.End
}

// buildSpanTree builds (or rebuilds) the span index over the current
// (merged or unmerged — containment doesn't require either) contents of l.
func (l *IntervalList) buildSpanTree() *spanTree {
	if l.tree != nil {
		return l.tree
	}
	st := &spanTree{ivs: l.items}
	for i, iv := range l.items {
		e := &entry{
			id:    uintptr(i + 1),
			r:     bstore.IntRange{Start: int(iv.Lo), End: int(iv.Hi)},
			value: iv,
		}
		if err := st.t.Insert(e, true); err != nil {
			// Degenerate (zero-length) intervals are silently skipped; they
			// can't strictly contain a padded point anyway.
			continue
		}
	}
	st.t.AdjustRanges()
	l.tree = st
	return st
}

// Spanning returns the number of intervals in l that strictly contain
// [lo, hi).
func (l *IntervalList) Spanning(lo, hi PosType) int {
	st := l.buildSpanTree()
	if len(st.ivs) == 0 {
		return 0
	}
	n := 0
	st.t.DoMatching(func(iv bstore.Interface) (done bool) {
		e := iv.(*entry)
		if e.value.Lo <= lo && hi <= e.value.Hi {
			n++
		}
		return false
	}, bstore.IntRange{Start: int(lo), End: int(hi) + 1})
	return n
}
