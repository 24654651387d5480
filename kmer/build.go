package kmer

import (
	"fmt"

	"v.io/x/lib/vlog"

	"github.com/galaxybio/fsa/seq"
)

// CullLowThreshold and CullHighThreshold correspond to the two fixed
// thresholds original_source/src/fsa/overlap_*.cpp's
// remove_repetitive_kmers used without explaining their derivation; spec §9
// leaves the choice open, so here they're ordinary overridable constants
// rather than hardcoded literals. Build uses CullHighThreshold as the
// occurrence cutoff when BuildOpts.MaxKmerOcc is left unset; it does not
// consult CullLowThreshold.
const (
	CullLowThreshold  = 200
	CullHighThreshold = 500
)

// BuildOpts configures Build.
type BuildOpts struct {
	K int // k-mer length, in residues. Must be <= 32 (hash fits in a uint64).
	W int // sampling stride: one k-mer is hashed every W residues.

	// MaxKmerOcc is the occurrence-count cutoff above which a hash's
	// occurrences are culled entirely (spec §4.B "removed_distinct_kmers").
	// Zero means "use CullHighThreshold".
	MaxKmerOcc int

	// CullHighThreshold overrides the package default of the same name for
	// this build (used when MaxKmerOcc is zero). CullLowThreshold is carried
	// in the options, but Build does not read it.
	CullLowThreshold  int
	CullHighThreshold int
}

func (o BuildOpts) effectiveMaxOcc() int {
	switch {
	case o.MaxKmerOcc > 0:
		return o.MaxKmerOcc
	case o.CullHighThreshold > 0:
		return o.CullHighThreshold
	default:
		return CullHighThreshold
	}
}

// BuildStats summarizes how much of the raw occurrence set Build removed
// during culling, in the style of fusion/kmer_index.go's post-build
// diagnostics.
type BuildStats struct {
	RawOccurrences        int
	RawDistinctHashes     int
	OccurrencesCulled     int
	DistinctHashesCulled  int
	OccurrencePercent     float64 // OccurrencesCulled / RawOccurrences * 100.
	DistinctPercent       float64 // DistinctHashesCulled / RawDistinctHashes * 100.
}

func encodeBases(bases []seq.Base) uint64 {
	var h uint64
	for _, b := range bases {
		h = h<<2 | uint64(b)
	}
	return h
}

// Build samples k-mers from every read in d at stride W, culls hashes
// occurring more than opts.effectiveMaxOcc() times, and returns a sorted,
// queryable Index (spec §4.B).
func Build(d *seq.Directory, gi *seq.GlobalIndex, opts BuildOpts) (*Index, BuildStats, error) {
	if opts.K <= 0 || opts.K > 32 {
		return nil, BuildStats{}, fmt.Errorf("kmer: invalid k-mer length %d (must be 1..32)", opts.K)
	}
	if opts.W <= 0 {
		opts.W = 1
	}

	var occs []Occurrence
	for vi, v := range d.Volumes {
		for i := 0; i < v.NumSeqs(); i++ {
			id := seq.ReadID{Volume: int32(vi), InVolume: int32(i)}
			size := v.SeqSize(i)
			if size < opts.K {
				continue
			}
			bases, err := d.Extract(id, 0, size, seq.Fwd)
			if err != nil {
				return nil, BuildStats{}, err
			}
			var prevHash uint64
			havePrev := false
			for pos := 0; pos+opts.K <= size; pos += opts.W {
				var h uint64
				if havePrev && opts.K > opts.W {
					mask := uint64(1)<<uint(2*(opts.K-opts.W)) - 1
					h = (prevHash & mask) << uint(2*opts.W)
					h |= encodeBases(bases[pos+opts.K-opts.W : pos+opts.K])
				} else {
					h = encodeBases(bases[pos : pos+opts.K])
				}
				occs = append(occs, Occurrence{Hash: h, Offset: gi.Offset(id, pos)})
				prevHash, havePrev = h, true
			}
		}
	}

	rawTotal := len(occs)

	// Sort by (Hash, Offset): minor key first, major key last, both stable
	// (see radix.go).
	occs = RadixSortStable(occs, func(o Occurrence) uint64 { return o.Offset })
	occs = RadixSortStable(occs, func(o Occurrence) uint64 { return o.Hash })

	maxOcc := opts.effectiveMaxOcc()
	entries := make(map[uint64]uint64)
	out := occs[:0]
	occurrencesCulled := 0
	distinctCulled := 0
	rawDistinct := 0

	i := 0
	for i < len(occs) {
		j := i
		h := occs[i].Hash
		for j < len(occs) && occs[j].Hash == h {
			j++
		}
		rawDistinct++
		count := j - i
		if count > maxOcc {
			occurrencesCulled += count
			distinctCulled++
			i = j
			continue
		}
		start := uint64(len(out))
		out = append(out, occs[i:j]...)
		entries[h] = packEntry(start, uint64(count))
		i = j
	}

	stats := BuildStats{
		RawOccurrences:       rawTotal,
		RawDistinctHashes:    rawDistinct,
		OccurrencesCulled:    occurrencesCulled,
		DistinctHashesCulled: distinctCulled,
	}
	if rawTotal > 0 {
		stats.OccurrencePercent = 100 * float64(occurrencesCulled) / float64(rawTotal)
	}
	if rawDistinct > 0 {
		stats.DistinctPercent = 100 * float64(distinctCulled) / float64(rawDistinct)
	}
	vlog.VI(1).Infof("kmer.Build: k=%d w=%d max_occ=%d raw=%d kept=%d culled_hashes=%d (%.2f%% of occurrences, %.2f%% of distinct hashes)",
		opts.K, opts.W, maxOcc, rawTotal, len(out), distinctCulled, stats.OccurrencePercent, stats.DistinctPercent)

	return &Index{occurrences: out, entries: entries, opts: opts}, stats, nil
}
