package seq

import (
	"context"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, s := range []string{"", "A", "ACGTAC", "GTACGTACGTACGTACGTA", "NNNNACGT"} {
		bases := ASCIIToResidues([]byte(s))
		packed := PackResidues(bases)
		got := UnpackResidues(packed, 0, len(bases))
		gotASCII := string(ResiduesToASCII(got))
		want := s
		for i, c := range []byte(want) {
			if asciiToBase[c] != asciiToBase[gotASCII[i]] {
				t.Fatalf("round trip %q: got %q", s, gotASCII)
			}
		}
	}
}

func TestReverseComplement(t *testing.T) {
	bases := ASCIIToResidues([]byte("ACGGT"))
	rc := ReverseComplement(bases)
	if got := string(ResiduesToASCII(rc)); got != "ACCGT" {
		t.Errorf("ReverseComplement(ACGGT) = %s, want ACCGT", got)
	}
}

func TestDirectoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	names := []string{"read/0", "read/1", "read/2"}
	seqs := [][]Base{
		ASCIIToResidues([]byte("ACGTACGTAC")),
		ASCIIToResidues([]byte("GGGGCCCCTTTTAAAA")),
		ASCIIToResidues([]byte("TTTT")),
	}
	vol := NewVolume(names, seqs)
	ctx := context.Background()
	if err := Create(ctx, dir, "t", []*Volume{vol}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	d, err := Open(ctx, dir, "t", false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.NumSeqs() != 3 {
		t.Fatalf("NumSeqs = %d, want 3", d.NumSeqs())
	}
	for i, want := range names {
		id := ReadID{Volume: 0, InVolume: int32(i)}
		if got := d.IDToName(id); got != want {
			t.Errorf("IDToName(%d) = %q, want %q", i, got, want)
		}
		gotID, ok := d.NameToID(want)
		if !ok || gotID != id {
			t.Errorf("NameToID(%q) = %+v,%v, want %+v,true", want, gotID, ok, id)
		}
		got, err := d.Extract(id, 0, d.SeqSize(id), Fwd)
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if string(ResiduesToASCII(got)) != string(ResiduesToASCII(seqs[i])) {
			t.Errorf("Extract(%d) = %s, want %s", i, ResiduesToASCII(got), ResiduesToASCII(seqs[i]))
		}
	}
	if err := d.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestExtractReverseStrand(t *testing.T) {
	dir := t.TempDir()
	seqs := [][]Base{ASCIIToResidues([]byte("ACGTACGTAC"))}
	vol := NewVolume([]string{"r0"}, seqs)
	ctx := context.Background()
	if err := Create(ctx, dir, "t", []*Volume{vol}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	d, err := Open(ctx, dir, "t", false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	id := ReadID{Volume: 0, InVolume: 0}
	got, err := d.Extract(id, 2, 8, Rev)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// forward [2,8) of ACGTACGTAC is GTACGT; reverse complement is ACGTAC.
	if got := string(ResiduesToASCII(got)); got != "ACGTAC" {
		t.Errorf("Extract rev = %s, want ACGTAC", got)
	}
}
