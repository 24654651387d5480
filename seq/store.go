package seq

import "fmt"

// Record is the per-read metadata entry described in spec §3: a packed
// sequence volume record { seq_offset, seq_size, name_offset, name_size }.
// SeqOffset and SeqSize are in residues; NameOffset/NameSize are in bytes
// into the volume's concatenated name buffer.
type Record struct {
	SeqOffset  uint64
	SeqSize    uint32
	NameOffset uint64
	NameSize   uint32
}

// Volume is a set of reads sharing one contiguous packed-residue buffer and
// one concatenated name buffer (spec §3 "Packed sequence volume").
type Volume struct {
	Packed   []byte   // packed residues, 4/byte.
	Names    []byte   // concatenated read names.
	Records  []Record
	Checksum uint64 // seahash over Packed; see checksum.go.

	// loader, when non-nil, provides batch/windowed access to Packed instead
	// of holding the whole volume resident; see batch.go.
	loader volumeLoader
}

// volumeLoader is implemented by the mmap-backed batch loader in batch.go.
// A Volume with a non-nil loader ignores its Packed field and asks the
// loader for residue bytes instead.
type volumeLoader interface {
	residues(byteOffset, n int64) ([]byte, error)
	close() error
}

// NumSeqs returns the number of reads in the volume.
func (v *Volume) NumSeqs() int { return len(v.Records) }

// SeqSize returns the residue count of read i.
func (v *Volume) SeqSize(i int) int { return int(v.Records[i].SeqSize) }

// SeqOffset returns the residue offset of read i's start within the volume.
// It always satisfies SeqOffset % 4 == 0 (spec §3 invariant).
func (v *Volume) SeqOffset(i int) int64 { return int64(v.Records[i].SeqOffset) }

// Name returns the name of read i.
func (v *Volume) Name(i int) string {
	r := v.Records[i]
	return string(v.Names[r.NameOffset : r.NameOffset+uint64(r.NameSize)])
}

// Extract returns the residues of read i in [from, to), on the requested
// strand. strand=Rev returns the reverse complement of that range (not the
// range of the complementary strand's own coordinates — per spec §3, offsets
// are always expressed on the read's own forward strand).
func (v *Volume) Extract(i int, from, to int, strand Strand) ([]Base, error) {
	rec := v.Records[i]
	if from < 0 || to > int(rec.SeqSize) || from > to {
		return nil, fmt.Errorf("seq: Extract(%d, %d, %d): out of range [0, %d)", i, from, to, rec.SeqSize)
	}
	n := to - from
	var packed []byte
	if v.loader != nil {
		// Fetch a byte-aligned super-range, then bit-shift down to [from,to).
		// residue r lives at byte (SeqOffset+r)/4; align down/up to cover it.
		startByte := (int64(rec.SeqOffset) + int64(from)) / 4
		endByte := (int64(rec.SeqOffset) + int64(to) + 3) / 4
		raw, err := v.loader.residues(startByte, endByte-startByte)
		if err != nil {
			return nil, err
		}
		// startByte*4 is the residue index of the window's first residue, so
		// the residue-within-window offset of `from` is simply the remainder.
		sub := int((int64(rec.SeqOffset) + int64(from)) % 4)
		bases := UnpackResidues(raw, sub, n)
		if strand == Rev {
			bases = ReverseComplement(bases)
		}
		return bases, nil
	}
	packed = v.Packed
	bases := UnpackResidues(packed, int(rec.SeqOffset)+from, n)
	if strand == Rev {
		bases = ReverseComplement(bases)
	}
	return bases, nil
}

// Close releases resources held by a batch-loaded volume (a no-op for
// fully-resident volumes).
func (v *Volume) Close() error {
	if v.loader != nil {
		return v.loader.close()
	}
	return nil
}
