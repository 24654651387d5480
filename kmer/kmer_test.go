package kmer

import (
	"testing"

	"github.com/galaxybio/fsa/seq"
)

func hashASCII(s string) uint64 {
	return encodeBases(seq.ASCIIToResidues([]byte(s)))
}

// TestBuildScenario reproduces the k=3,w=1 worked example: reads
// ACGTAC and GTAC should yield distinct hashes {ACG,CGT,GTA,TAC} with
// counts {1,1,2,2}, and looking up TAC's hash should return two offsets.
func TestBuildScenario(t *testing.T) {
	vol := seq.NewVolume(
		[]string{"r0", "r1"},
		[][]seq.Base{
			seq.ASCIIToResidues([]byte("ACGTAC")),
			seq.ASCIIToResidues([]byte("GTAC")),
		},
	)
	d := &seq.Directory{Title: "t", Volumes: []*seq.Volume{vol}}
	gi := seq.NewGlobalIndex(d)

	ix, stats, err := Build(d, gi, BuildOpts{K: 3, W: 1, MaxKmerOcc: 100})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.OccurrencesCulled != 0 {
		t.Fatalf("unexpected culling: %+v", stats)
	}
	if got := ix.NumDistinctHashes(); got != 4 {
		t.Fatalf("NumDistinctHashes = %d, want 4", got)
	}

	want := map[string]int{"ACG": 1, "CGT": 1, "GTA": 2, "TAC": 2}
	for kmer, n := range want {
		if got := ix.Count(hashASCII(kmer)); got != n {
			t.Errorf("Count(%s) = %d, want %d", kmer, got, n)
		}
	}

	tacOffsets := ix.Lookup(hashASCII("TAC"))
	if len(tacOffsets) != 2 {
		t.Fatalf("Lookup(TAC) = %v, want 2 offsets", tacOffsets)
	}
	// read0 "ACGTAC" TAC starts at position 3; read1 "GTAC" TAC starts at
	// position 1, immediately after read0's 6 residues.
	wantOffsets := []uint64{3, 6 + 1}
	for i, off := range tacOffsets {
		if off != wantOffsets[i] {
			t.Errorf("Lookup(TAC)[%d] = %d, want %d", i, off, wantOffsets[i])
		}
	}

	for _, off := range tacOffsets {
		bases, err := gi.DecodeAt(off, 3)
		if err != nil {
			t.Fatalf("DecodeAt(%d): %v", off, err)
		}
		if got := string(seq.ResiduesToASCII(bases)); got != "TAC" {
			t.Errorf("DecodeAt(%d) = %s, want TAC", off, got)
		}
	}
}

// TestBuildCulling checks that a hash occurring more often than MaxKmerOcc
// is removed entirely from the index and accounted for in BuildStats.
func TestBuildCulling(t *testing.T) {
	reads := make([][]seq.Base, 5)
	names := make([]string, 5)
	for i := range reads {
		reads[i] = seq.ASCIIToResidues([]byte("AAAA"))
		names[i] = "r"
	}
	vol := seq.NewVolume(names, reads)
	d := &seq.Directory{Title: "t", Volumes: []*seq.Volume{vol}}
	gi := seq.NewGlobalIndex(d)

	ix, stats, err := Build(d, gi, BuildOpts{K: 3, W: 1, MaxKmerOcc: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// Each 4-residue read yields 2 occurrences of "AAA" (pos 0,1); 5 reads
	// give 10 occurrences of one hash, which exceeds MaxKmerOcc=3 and is
	// culled entirely.
	if ix.NumDistinctHashes() != 0 {
		t.Errorf("NumDistinctHashes = %d, want 0", ix.NumDistinctHashes())
	}
	if stats.OccurrencesCulled != 10 {
		t.Errorf("OccurrencesCulled = %d, want 10", stats.OccurrencesCulled)
	}
	if stats.DistinctHashesCulled != 1 {
		t.Errorf("DistinctHashesCulled = %d, want 1", stats.DistinctHashesCulled)
	}
}

func TestRadixSortStable(t *testing.T) {
	type kv struct {
		key uint64
		seq int
	}
	in := []kv{{3, 0}, {1, 1}, {3, 2}, {0, 3}, {1, 4}}
	out := RadixSortStable(in, func(e kv) uint64 { return e.key })
	wantKeys := []uint64{0, 1, 1, 3, 3}
	for i, w := range wantKeys {
		if out[i].key != w {
			t.Fatalf("out[%d].key = %d, want %d", i, out[i].key, w)
		}
	}
	// Stability: both key==1 entries keep relative order (seq 1 before 4),
	// and both key==3 entries keep relative order (seq 0 before 2).
	if out[1].seq != 1 || out[2].seq != 4 {
		t.Errorf("key=1 group not stable: %+v", out[1:3])
	}
	if out[3].seq != 0 || out[4].seq != 2 {
		t.Errorf("key=3 group not stable: %+v", out[3:5])
	}
}
