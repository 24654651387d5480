// Package poa implements the partial-order-consensus engine of spec
// §4.H/§4.I: an alignment-tag graph ("backbone") accumulated from many
// pairwise alignments anchored on one template read, and a max-score-path
// decoder that emits a corrected sequence from it.
//
// Neither stage has a direct teacher-repo counterpart (grailbio-bio does
// not do long-read consensus); the tag/backbone shape follows spec §3/§4.H
// directly, re-architected per §9's redesign note as an arena of LinkInfo
// indexed by a 32-bit handle rather than the source's raw-pointer bump
// allocator (arena.go), and the max-score walk is built as a
// gonum.org/v1/gonum/graph/simple.WeightedDirectedGraph plus
// graph/topo.Sort (SPEC_FULL §3.H) instead of an ad hoc recursive memoized
// walk -- the DP is exactly a DAG longest-path computation once the tags
// are grouped into cells and ordered topologically.
package poa
