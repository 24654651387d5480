package poa

// Range is a half-open [Lo, Hi) template window, the unit Segments breaks
// a template into for Decode (SPEC_FULL §3.H/§3.I).
type Range struct {
	Lo, Hi int
}

// Segments splits coverage into the maximal runs where coverage stays at
// or above minCoverage, per spec §4.I: "the driver chooses segments
// bounded by template positions whose coverage drops below a threshold".
// Positions below the threshold are gaps between segments and are never
// covered by a returned Range.
func Segments(coverage []int32, minCoverage int32) []Range {
	var out []Range
	inRun := false
	var lo int
	for i, c := range coverage {
		switch {
		case c >= minCoverage && !inRun:
			lo, inRun = i, true
		case c < minCoverage && inRun:
			out = append(out, Range{Lo: lo, Hi: i})
			inRun = false
		}
	}
	if inRun {
		out = append(out, Range{Lo: lo, Hi: len(coverage)})
	}
	return out
}
