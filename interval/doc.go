// Package interval implements operations on ordered lists of half-open
// integer intervals: add, sort, merge, invert, depth, and span-containment
// queries. It is used by the trim pipeline (largest-cover-range and
// split-reads); coordinates are of type PosType.
//
// It assumes every position fits in a PosType, currently int32.
package interval
