package archive

import (
	"io"

	"github.com/galaxybio/fsa/seq"
)

// DexarRead is one read of a .dexar archive: like DextaRead, but the
// per-read trailer is four per-channel SNR values (x100, capped at
// 9999) instead of a single quality value (spec §6).
type DexarRead struct {
	Well     int32
	Beg, End int32
	Cnr      [4]uint16
	Bases    []seq.Base
}

// EncodeDexar writes reads as a .dexar stream.
func EncodeDexar(w io.Writer, prefix string, reads []DexarRead) error {
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
		for _, c := range rd.Cnr {
			if err := writeUint16(w, c); err != nil {
				return err
			}
		}
		if _, err := w.Write(seq.PackResidues(rd.Bases)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeDexar reads a .dexar stream back into its prefix and reads.
func DecodeDexar(r io.Reader) (prefix string, reads []DexarRead, err error) {
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
		var cnr [4]uint16
		for i := range cnr {
			cnr[i], err = readUint16(r, swap)
			if err != nil {
				return prefix, reads, err
			}
		}
		bases, err := readPackedBases(r, int(end-beg))
		if err != nil {
			return prefix, reads, err
		}
		reads = append(reads, DexarRead{Well: well, Beg: beg, End: end, Cnr: cnr, Bases: bases})
	}
}
