package kmer

// startBits is the width, in bits, reserved for the start index in a packed
// hash-map word; countBits is the remaining width for the occurrence count
// (spec §3.B: "(count<<34)|start_index", 34 start-index bits, 30 count
// bits).
const (
	startBits = 34
	countBits = 64 - startBits

	startMask = uint64(1)<<startBits - 1
	// MaxOccurrences is the largest occurrence array size this index can
	// address (2^34 occurrences).
	MaxOccurrences = uint64(1) << startBits
	// MaxCount is the largest count a single hash-map entry can record
	// (2^30); BuildOpts.MaxKmerOcc must stay below this.
	MaxCount = uint64(1) << countBits
)

func packEntry(start uint64, count uint64) uint64 {
	return count<<startBits | (start & startMask)
}

func unpackEntry(word uint64) (start uint64, count uint64) {
	return word & startMask, word >> startBits
}

// Occurrence is one sampled k-mer: its 2-bit-packed hash and the global
// residue offset (seq.GlobalIndex numbering) of its first base.
type Occurrence struct {
	Hash   uint64
	Offset uint64
}

// RemovedOffset is a full-width sentinel for a culled occurrence, distinct
// from any real offset emitted by seq.GlobalIndex, which is capped at
// MaxOccurrences-1 once packed. Build does not write it: a hash whose total
// occurrence count exceeds BuildOpts.MaxKmerOcc (spec §4.B
// "removed_distinct_kmers") has its occurrences dropped from the array
// directly.
const RemovedOffset = ^uint64(0)

// Index is a built, queryable k-mer occurrence index.
type Index struct {
	occurrences []Occurrence     // sorted by (Hash, Offset) ascending; culled entries removed.
	entries     map[uint64]uint64 // hash -> packEntry(start, count).
	opts        BuildOpts
}

// Lookup returns the slice of Offset values recorded for hash, or nil if
// hash was never observed (or was culled entirely — see BuildStats).
func (ix *Index) Lookup(hash uint64) []uint64 {
	word, ok := ix.entries[hash]
	if !ok {
		return nil
	}
	start, count := unpackEntry(word)
	offs := make([]uint64, count)
	for i := range offs {
		offs[i] = ix.occurrences[start+uint64(i)].Offset
	}
	return offs
}

// Count returns the number of occurrences recorded for hash without
// allocating an offset slice; it returns 0 for a hash that was never
// observed or was culled entirely.
func (ix *Index) Count(hash uint64) int {
	word, ok := ix.entries[hash]
	if !ok {
		return 0
	}
	_, count := unpackEntry(word)
	return int(count)
}

// NumOccurrences returns the size of the (post-culling) occurrence array.
func (ix *Index) NumOccurrences() int { return len(ix.occurrences) }

// NumDistinctHashes returns the number of distinct hashes retained.
func (ix *Index) NumDistinctHashes() int { return len(ix.entries) }

// Opts returns the BuildOpts the index was constructed with.
func (ix *Index) Opts() BuildOpts { return ix.opts }
