package poa

import "sort"

// BaseLinks is one (t_pos, delta, q_base) cell's incoming-edge bundle
// (spec §3 "Backbone"): coverage is the sum of incident tag counts, and
// Links indexes into an Arena for the per-predecessor LinkInfo list.
type BaseLinks struct {
	Coverage  int32
	linkStart int32
	linkCount int32
}

// Links returns the cell's incoming links, read from arena.
func (b BaseLinks) Links(arena *Arena) []LinkInfo { return arena.Slice(b.linkStart, b.linkCount) }

// deltaCell holds the five BaseLinks (one per A|C|G|T|-) of one (t_pos,
// delta) position, per spec §3 "Backbone": "each delta holds 5 BaseLinks".
type deltaCell struct {
	links [5]BaseLinks
}

// Backbone is the per-template alignment-tag graph of spec §3/§4.H: for
// each template position, a per-delta array of deltaCells.
type Backbone struct {
	TemplateSize int
	Coverage     []int32 // Coverage[t_pos] = total tags at (t_pos, delta=0).
	cells        [][]deltaCell
	arena        *Arena
}

// cellAt returns the deltaCell at (tPos, delta), or the zero value if
// nothing was ever recorded there.
func (bb *Backbone) cellAt(tPos, delta int) deltaCell {
	if tPos < 0 || tPos >= len(bb.cells) || delta >= len(bb.cells[tPos]) {
		return deltaCell{}
	}
	return bb.cells[tPos][delta]
}

// Build accumulates tags into a new Backbone (spec §4.H, after-alignments
// phase): tags are sorted by (t_pos, delta, q_base, p_t_pos, p_delta,
// p_q_base), then grouped at each level to populate BaseLinks and
// Coverage. tags is sorted in place. arena backs every LinkInfo allocated;
// callers own the arena's lifetime (spec §3: "cleared once per template,
// never per-tag" — so arena.Reset belongs to the caller, between
// templates, not inside Build).
func Build(tags []AlignTag, templateSize int, arena *Arena) *Backbone {
	sort.Slice(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		if a.TPos != b.TPos {
			return a.TPos < b.TPos
		}
		if a.Delta != b.Delta {
			return a.Delta < b.Delta
		}
		if a.QBase != b.QBase {
			return a.QBase < b.QBase
		}
		if a.PTPos != b.PTPos {
			return a.PTPos < b.PTPos
		}
		if a.PDelta != b.PDelta {
			return a.PDelta < b.PDelta
		}
		return a.PQBase < b.PQBase
	})

	bb := &Backbone{
		TemplateSize: templateSize,
		Coverage:     make([]int32, templateSize),
		cells:        make([][]deltaCell, templateSize),
		arena:        arena,
	}

	for i := 0; i < len(tags); {
		j := i
		tPos := tags[i].TPos
		for j < len(tags) && tags[j].TPos == tPos {
			j++
		}
		if int(tPos) >= 0 && int(tPos) < templateSize {
			bb.buildTPos(int(tPos), tags[i:j])
		}
		i = j
	}
	return bb
}

func (bb *Backbone) buildTPos(tPos int, tags []AlignTag) {
	for i := 0; i < len(tags); {
		j := i
		delta := tags[i].Delta
		for j < len(tags) && tags[j].Delta == delta {
			j++
		}
		bb.ensureDelta(tPos, int(delta))
		bb.buildDelta(tPos, int(delta), tags[i:j])
		i = j
	}
}

func (bb *Backbone) ensureDelta(tPos, delta int) {
	if delta < len(bb.cells[tPos]) {
		return
	}
	grown := make([]deltaCell, delta+1)
	copy(grown, bb.cells[tPos])
	bb.cells[tPos] = grown
}

func (bb *Backbone) buildDelta(tPos, delta int, tags []AlignTag) {
	for i := 0; i < len(tags); {
		j := i
		qBase := tags[i].QBase
		for j < len(tags) && tags[j].QBase == qBase {
			j++
		}
		group := tags[i:j]
		coverage := int32(len(group))
		if delta == 0 {
			bb.Coverage[tPos] += coverage
		}

		links := buildLinks(group)
		start := bb.arena.Alloc(len(links))
		copy(bb.arena.Slice(start, int32(len(links))), links)
		bb.cells[tPos][delta].links[qBase] = BaseLinks{
			Coverage:  coverage,
			linkStart: start,
			linkCount: int32(len(links)),
		}
		i = j
	}
}

// buildLinks groups an already (p_t_pos, p_delta, p_q_base)-sorted run of
// tags into LinkInfos, summing weight and counting entries per spec §4.H.
func buildLinks(tags []AlignTag) []LinkInfo {
	var out []LinkInfo
	for i := 0; i < len(tags); {
		j := i
		for j < len(tags) &&
			tags[j].PTPos == tags[i].PTPos &&
			tags[j].PDelta == tags[i].PDelta &&
			tags[j].PQBase == tags[i].PQBase {
			j++
		}
		var weight float32
		for _, t := range tags[i:j] {
			weight += t.Weight
		}
		out = append(out, LinkInfo{
			PTPos: tags[i].PTPos, PDelta: tags[i].PDelta, PQBase: tags[i].PQBase,
			Count: int32(j - i), Weight: weight,
		})
		i = j
	}
	return out
}
