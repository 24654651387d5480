package seq

import "sort"

// GlobalIndex maps between a Directory's (volume, in-volume-index, position)
// coordinates and a single flat "global residue offset" — the numbering
// space spec §3.B's k-mer occurrences are expressed in. It treats the
// Directory as one virtual concatenation of all reads, in (volume, record)
// order, each read contributing exactly SeqSize (unpadded) residues.
type GlobalIndex struct {
	dir        *Directory
	prefix     []uint64 // prefix[i] = first global offset of the i'th read, flattened across volumes.
	volStart   []int    // volStart[v] = flat read index of volume v's first read.
}

// NewGlobalIndex builds the prefix-sum tables for d. Call once after Open;
// cheap (O(total reads)).
func NewGlobalIndex(d *Directory) *GlobalIndex {
	g := &GlobalIndex{dir: d}
	g.volStart = make([]int, len(d.Volumes)+1)
	total := 0
	for vi, v := range d.Volumes {
		g.volStart[vi] = total
		total += v.NumSeqs()
	}
	g.volStart[len(d.Volumes)] = total

	g.prefix = make([]uint64, total+1)
	flat := 0
	var offset uint64
	for _, v := range d.Volumes {
		for i := 0; i < v.NumSeqs(); i++ {
			g.prefix[flat] = offset
			offset += uint64(v.SeqSize(i))
			flat++
		}
	}
	g.prefix[flat] = offset
	return g
}

func (g *GlobalIndex) flatIndex(id ReadID) int {
	return g.volStart[id.Volume] + int(id.InVolume)
}

// FlatID returns id's position in the (volume, record) flattening GlobalIndex
// numbers reads in — the same numbering the overlap package's Record.QID/SID
// fields use for "global read id" (spec §3.A "A read's global id is the
// concatenation of (volume_index, in-volume_index) resolved through a volume
// directory").
func (g *GlobalIndex) FlatID(id ReadID) int { return g.flatIndex(id) }

// ReadIDFromFlat inverts FlatID.
func (g *GlobalIndex) ReadIDFromFlat(flat int) ReadID {
	vi := sort.Search(len(g.volStart), func(i int) bool { return g.volStart[i] > flat }) - 1
	return ReadID{Volume: int32(vi), InVolume: int32(flat - g.volStart[vi])}
}

// Offset returns the global residue offset of position pos within read id.
func (g *GlobalIndex) Offset(id ReadID, pos int) uint64 {
	return g.prefix[g.flatIndex(id)] + uint64(pos)
}

// Resolve inverts Offset: given a global residue offset, returns the read id
// owning it and the position within that read.
func (g *GlobalIndex) Resolve(global uint64) (ReadID, int) {
	// prefix is sorted ascending; find the last entry <= global.
	flat := sort.Search(len(g.prefix), func(i int) bool { return g.prefix[i] > global }) - 1
	vi := sort.Search(len(g.volStart), func(i int) bool { return g.volStart[i] > flat }) - 1
	return ReadID{Volume: int32(vi), InVolume: int32(flat - g.volStart[vi])}, int(global - g.prefix[flat])
}

// DecodeAt extracts n residues starting at global offset off, on the
// forward strand, for validating k-mer index occurrences (spec §8
// invariant 1).
func (g *GlobalIndex) DecodeAt(off uint64, n int) ([]Base, error) {
	id, pos := g.Resolve(off)
	return g.dir.Extract(id, pos, pos+n, Fwd)
}

// Total returns the total number of residues across the whole store.
func (g *GlobalIndex) Total() uint64 { return g.prefix[len(g.prefix)-1] }
