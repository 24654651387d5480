package archive

import (
	"io"

	"github.com/galaxybio/fsa/seq"
)

// DextaRead is one read of a .dexta archive (spec §6): Beg/End are the
// well-relative clip coordinates carried in the original fasta header,
// QV is the read-quality-value field, and Bases is the (End-Beg)-long
// unpacked sequence.
type DextaRead struct {
	Well     int32
	Beg, End int32
	QV       int32
	Bases    []seq.Base
}

// EncodeDexta writes reads as a .dexta stream (spec §6): the endian
// witness, the ASCII well-prefix once, then for each read a well-delta,
// beg/end/qv, and the 2-bit-packed sequence.
func EncodeDexta(w io.Writer, prefix string, reads []DextaRead) error {
	if err := writeWitness(w); err != nil {
		return err
	}
	if err := writeInt32(w, int32(len(prefix))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, prefix); err != nil {
		return err
	}

	var lwell int32
	for _, rd := range reads {
		var err error
		if lwell, err = writeWellDelta(w, rd.Well, lwell); err != nil {
			return err
		}
		if err := writeInt32(w, rd.Beg); err != nil {
			return err
		}
		if err := writeInt32(w, rd.End); err != nil {
			return err
		}
		if err := writeInt32(w, rd.QV); err != nil {
			return err
		}
		if _, err := w.Write(seq.PackResidues(rd.Bases)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeDexta reads a .dexta stream back into its prefix and reads.
func DecodeDexta(r io.Reader) (prefix string, reads []DextaRead, err error) {
	swap, err := readWitness(r)
	if err != nil {
		return "", nil, err
	}
	prefix, err = readPrefix(r, swap)
	if err != nil {
		return "", nil, err
	}

	var lwell int32
	for {
		well, err := readWellDelta(r, lwell)
		if err == io.EOF {
			return prefix, reads, nil
		}
		if err != nil {
			return prefix, reads, err
		}
		lwell = well

		beg, err := readInt32(r, swap)
		if err != nil {
			return prefix, reads, err
		}
		end, err := readInt32(r, swap)
		if err != nil {
			return prefix, reads, err
		}
		qv, err := readInt32(r, swap)
		if err != nil {
			return prefix, reads, err
		}
		bases, err := readPackedBases(r, int(end-beg))
		if err != nil {
			return prefix, reads, err
		}
		reads = append(reads, DextaRead{Well: well, Beg: beg, End: end, QV: qv, Bases: bases})
	}
}

func readPrefix(r io.Reader, swap bool) (string, error) {
	n, err := readInt32(r, swap)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readPackedBases(r io.Reader, count int) ([]seq.Base, error) {
	packedLen := (count + 3) / 4
	packed := make([]byte, packedLen)
	if _, err := io.ReadFull(r, packed); err != nil {
		return nil, err
	}
	return seq.UnpackResidues(packed, 0, count), nil
}
