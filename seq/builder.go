package seq

// NewVolume packs a set of named reads into a single Volume, computing
// SeqOffset/NameOffset and padding each read's packed region up to a
// 4-residue boundary so the next read's SeqOffset stays byte-aligned (spec
// §3 invariant).
func NewVolume(names []string, seqs [][]Base) *Volume {
	v := &Volume{Records: make([]Record, len(seqs))}
	var packedResidues []Base
	var names_ []byte
	for i, s := range seqs {
		v.Records[i].SeqOffset = uint64(len(packedResidues))
		v.Records[i].SeqSize = uint32(len(s))
		packedResidues = append(packedResidues, s...)
		for len(packedResidues)%4 != 0 {
			packedResidues = append(packedResidues, BaseA)
		}

		v.Records[i].NameOffset = uint64(len(names_))
		v.Records[i].NameSize = uint32(len(names[i]))
		names_ = append(names_, names[i]...)
	}
	v.Packed = PackResidues(packedResidues)
	v.Names = names_
	return v
}
