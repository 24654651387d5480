package poa

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/galaxybio/fsa/seq"
)

// startNode is the virtual predecessor of every cell whose link has
// p_t_pos == -1 (spec §4.I: "a missing predecessor contributes 0").
const startNode int64 = -1

// cellNode packs a (t_pos, delta, q_base) cell into one gonum graph node
// id. delta fits exactly in 16 bits (MaxDelta), q_base in the low 3 bits,
// leaving the high bits free for t_pos — template positions in practice
// never approach 2^39.
func cellNode(tPos int32, delta uint16, qBase uint8) int64 {
	return int64(tPos)<<24 | int64(delta)<<8 | int64(qBase)
}

func unpackCellNode(id int64) (tPos int32, delta uint16, qBase uint8) {
	return int32(id >> 24), uint16((id >> 8) & 0xFFFF), uint8(id & 0xFF)
}

// Decode computes the max-score path through the backbone's tag graph
// over the template window [from, to) and returns the corrected sequence
// it spells out as an upper-case ACGT string, plus the actual
// [cnsFrom, cnsTo) window covered (spec §4.I). It returns ok=false when no
// cell in the window has coverage > 0.
//
// The walk is built as a gonum/graph/simple.WeightedDirectedGraph — each
// populated cell a node, each LinkInfo a weighted edge from its
// predecessor cell — and graph/topo.Sort supplies the evaluation order,
// replacing a hand-rolled recursive memoized walk with the DAG
// longest-path computation this recurrence actually is (SPEC_FULL §3.H).
func Decode(bb *Backbone, arena *Arena, from, to int) (out []byte, cnsFrom, cnsTo int, ok bool) {
	g := simple.NewWeightedDirectedGraph(0, 0)
	g.AddNode(simple.Node(startNode))

	for tPos := from; tPos < to && tPos < bb.TemplateSize; tPos++ {
		for delta, cell := range bb.cells[tPos] {
			for qBase, bl := range cell.links {
				if bl.Coverage <= 0 {
					continue
				}
				toID := cellNode(int32(tPos), uint16(delta), uint8(qBase))
				ensureNode(g, toID)
				for _, li := range bl.Links(arena) {
					var fromID int64
					if li.PTPos < 0 {
						fromID = startNode
					} else {
						fromID = cellNode(li.PTPos, li.PDelta, li.PQBase)
					}
					ensureNode(g, fromID)
					g.SetWeightedEdge(simple.WeightedEdge{
						F: simple.Node(fromID), T: simple.Node(toID), W: float64(li.Weight),
					})
				}
			}
		}
	}

	order, err := topo.Sort(g)
	if err != nil {
		// A cycle can only arise from malformed tags (a predecessor cell
		// positioned at or after its successor); treat it as "nothing
		// decodable" rather than panicking on corrupt input.
		return nil, 0, 0, false
	}

	score := map[int64]float64{startNode: 0}
	pred := map[int64]int64{}
	bestScore := 0.0
	bestNode := int64(startNode)
	haveBest := false

	for _, n := range order {
		id := n.ID()
		if id == startNode {
			continue
		}
		tPos, _, _ := unpackCellNode(id)
		penalty := 0.1 * float64(bb.Coverage[tPos])

		// A cell with no incoming edge (a predecessor cell left of from)
		// starts a path, like a p_t_pos == -1 link.
		best := 0.0
		bestPred := int64(startNode)
		havePred := false
		incoming := g.To(id)
		for incoming.Next() {
			fromID := incoming.Node().ID()
			w := g.WeightedEdge(fromID, id).Weight()
			cand := w - penalty + score[fromID]
			if !havePred || cand > best {
				best, bestPred, havePred = cand, fromID, true
			}
		}
		score[id] = best
		pred[id] = bestPred
		if !haveBest || best > bestScore {
			bestScore, bestNode, haveBest = best, id, true
		}
	}
	if !haveBest || bestNode == startNode {
		return nil, 0, 0, false
	}

	var bases []seq.Base
	minT, maxT := int32(to), int32(from)
	for id := bestNode; id != startNode; id = pred[id] {
		tPos, _, qBase := unpackCellNode(id)
		if qBase != GapBase {
			bases = append(bases, seq.Base(qBase))
		}
		if tPos < minT {
			minT = tPos
		}
		if tPos+1 > maxT {
			maxT = tPos + 1
		}
	}
	for i, j := 0, len(bases)-1; i < j; i, j = i+1, j-1 {
		bases[i], bases[j] = bases[j], bases[i]
	}
	return seq.ResiduesToASCII(bases), int(minT), int(maxT), true
}

func ensureNode(g *simple.WeightedDirectedGraph, id int64) {
	if g.Node(id) == nil {
		g.AddNode(simple.Node(id))
	}
}
