package poa

import "github.com/galaxybio/fsa/seq"

// GapBase is the q_base code for the "-" (deletion) column of spec §3
// "Alignment tag", one past seq.BaseT so a cell array can be indexed
// directly by q_base without a branch.
const GapBase uint8 = 4

// MaxDelta is ALIGN_TAG_MAX_DELTA (spec §3): tags with a larger delta are
// silently dropped. WalkAlignment counts delta in a uint32, so a run of
// MaxDelta or more inserted bases is dropped instead of wrapping the uint16
// AlignTag.Delta field.
const MaxDelta = 1 << 16

// AlignTag is one column of a pairwise alignment against a template, per
// spec §3 "Alignment tag" / §4.H.
type AlignTag struct {
	TPos   int32
	PTPos  int32 // -1 marks "no predecessor" (alignment start).
	Delta  uint16
	PDelta uint16
	QBase  uint8 // seq.BaseA..seq.BaseT, or GapBase.
	PQBase uint8
	Weight float32
}

// WalkAlignment emits one AlignTag per column of a gapped pairwise
// alignment against a template, per spec §4.H: qBases and tGap run in
// lock-step over the alignment, tGap[i] true marking an insertion column
// (the template contributes no base, so t_pos stays put and delta
// increments); weight is the per-alignment tag weight (default 1.0 per
// spec §4.H).
//
// tStart is the template position of the alignment's first column. An
// aligned (non-insertion) first column sits at tStart; insertion columns
// ahead of the first aligned column are recorded at tStart, and the first
// aligned column after them at tStart+1.
func WalkAlignment(tStart int32, qBases []seq.Base, tGap []bool, weight float32) []AlignTag {
	if len(qBases) != len(tGap) {
		panic("poa: qBases and tGap length mismatch")
	}
	tags := make([]AlignTag, 0, len(qBases))
	tPos := tStart
	var delta uint32
	pTPos := int32(-1)
	var pDelta uint16
	pQBase := GapBase
	for i, qb := range qBases {
		q := uint8(qb)
		if tGap[i] {
			delta++
		} else {
			if i > 0 {
				tPos++
			}
			delta = 0
		}
		if delta < MaxDelta {
			tags = append(tags, AlignTag{
				TPos: tPos, PTPos: pTPos,
				Delta: uint16(delta), PDelta: pDelta,
				QBase: q, PQBase: pQBase,
				Weight: weight,
			})
		}
		pTPos, pDelta, pQBase = tPos, uint16(delta), q
	}
	return tags
}
