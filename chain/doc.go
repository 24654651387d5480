// Package chain implements the minimap2-style colinear seed chainer of spec
// §4.C: a dynamic program over a seed array sorted by (subject_offset,
// query_offset) that scores chains of colinear, non-overlapping seeds and
// backtracks from high-scoring chain ends.
//
// Search runs the DP once and backtracks every surviving chain-end in
// descending score order, producing zero or more chains from one seed
// array. FindBestSeed shares the same DP but reproduces a specific legacy
// quirk: it only ever inspects the single best-scoring chain-end, returning
// failure rather than falling back to the next-best end when that one is
// filtered by MinCnt/MinScore. That shadowing behavior is preserved as a
// conformance requirement, not treated as a bug to fix — see
// TestFirstChainEndShadowing.
package chain
