package poa

import (
	"encoding/binary"
	"io"
	"math"
)

// AlignmentRecord is the on-disk interchange form of one pairwise alignment
// between a query read and a template read, the "alignment record" spec §1
// says this pipeline stage consumes without constraining the aligner that
// produces it. QBases/TGap are WalkAlignment's own column arrays, so
// consuming one record is exactly `WalkAlignment(rec.TStart, rec.QBases,
// rec.TGap, rec.Weight)`.
type AlignmentRecord struct {
	TemplateID uint32
	QueryID    uint32
	TStart     int32
	Weight     float32
	QBases     []uint8 // seq.Base codes 0..3, or GapBase(4) for a deletion column.
	TGap       []bool  // true marks an insertion column (template does not advance).
}

// alignmentHeaderSize is TemplateID + QueryID + TStart + Weight + column count.
const alignmentHeaderSize = 4 + 4 + 4 + 4 + 4

// EncodeAlignments writes recs as a raw concatenation of fixed headers plus
// one byte per column (low 3 bits the q_base code, bit 3 the tGap flag),
// matching overlap.Partition's own "no header, raw concatenation" wire
// style (spec §4.D) for the companion alignment stream consensus reads.
func EncodeAlignments(w io.Writer, recs []AlignmentRecord) error {
	var hdr [alignmentHeaderSize]byte
	for _, r := range recs {
		binary.LittleEndian.PutUint32(hdr[0:], r.TemplateID)
		binary.LittleEndian.PutUint32(hdr[4:], r.QueryID)
		binary.LittleEndian.PutUint32(hdr[8:], uint32(r.TStart))
		binary.LittleEndian.PutUint32(hdr[12:], math.Float32bits(r.Weight))
		binary.LittleEndian.PutUint32(hdr[16:], uint32(len(r.QBases)))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		cols := make([]byte, len(r.QBases))
		for i, qb := range r.QBases {
			b := qb & 0x7
			if r.TGap[i] {
				b |= 0x8
			}
			cols[i] = b
		}
		if _, err := w.Write(cols); err != nil {
			return err
		}
	}
	return nil
}

// DecodeAlignments reads back a stream written by EncodeAlignments, in
// order, until EOF.
func DecodeAlignments(r io.Reader) ([]AlignmentRecord, error) {
	var recs []AlignmentRecord
	var hdr [alignmentHeaderSize]byte
	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF {
				return recs, nil
			}
			return recs, err
		}
		n := binary.LittleEndian.Uint32(hdr[16:])
		cols := make([]byte, n)
		if _, err := io.ReadFull(r, cols); err != nil {
			return recs, err
		}
		rec := AlignmentRecord{
			TemplateID: binary.LittleEndian.Uint32(hdr[0:]),
			QueryID:    binary.LittleEndian.Uint32(hdr[4:]),
			TStart:     int32(binary.LittleEndian.Uint32(hdr[8:])),
			Weight:     math.Float32frombits(binary.LittleEndian.Uint32(hdr[12:])),
			QBases:     make([]uint8, n),
			TGap:       make([]bool, n),
		}
		for i, b := range cols {
			rec.QBases[i] = b & 0x7
			rec.TGap[i] = b&0x8 != 0
		}
		recs = append(recs, rec)
	}
}
