package seq

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapLoader memory-maps a local .pac file read-only and answers residue
// byte-range requests against the mapping, instead of holding the whole
// volume resident. This is the mechanism behind spec §4.A's "batch mode",
// modeled on fusion/kmer_index.go's use of golang.org/x/sys/unix.Mmap, but
// without the anonymous-hugepage machinery that file doesn't need (there is
// nothing to write into it, only to map and advise).
type mmapLoader struct {
	f    *os.File
	data []byte
}

func newMmapLoader(path string) (*mmapLoader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := int(st.Size())
	if size == 0 {
		return &mmapLoader{f: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	// MADV_RANDOM: batch mode accesses a scattered subset of reads selected
	// by a needed-ids bitmap, not a linear scan, so disable readahead.
	_ = unix.Madvise(data, unix.MADV_RANDOM)
	return &mmapLoader{f: f, data: data}, nil
}

func (m *mmapLoader) residues(byteOffset, n int64) ([]byte, error) {
	return m.data[byteOffset : byteOffset+n], nil
}

func (m *mmapLoader) close() error {
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			return err
		}
	}
	return m.f.Close()
}

// NeededIDs is a bitmap of (volume, in-volume-index) pairs selecting which
// reads a batch consumer (the consensus driver, spec §4.J) actually needs
// paged in, keyed by a flat "volume-major" index computed from a Directory's
// volume sizes. It is a plain []uint64 bitset — deliberately not the
// teacher's circular.Bitmap (circular/bitmap.go), which solves a different
// problem (a sliding circular window over positions for pileup depth
// tracking); here the id space is static and known up front.
type NeededIDs struct {
	offsets []int // per-volume starting flat index.
	words   []uint64
}

// NewNeededIDs allocates an empty bitmap sized for d.
func NewNeededIDs(d *Directory) *NeededIDs {
	n := &NeededIDs{offsets: make([]int, len(d.Volumes)+1)}
	total := 0
	for i, v := range d.Volumes {
		n.offsets[i] = total
		total += v.NumSeqs()
	}
	n.offsets[len(d.Volumes)] = total
	n.words = make([]uint64, (total+63)/64)
	return n
}

func (n *NeededIDs) flat(id ReadID) int { return n.offsets[id.Volume] + int(id.InVolume) }

// Add marks id as needed.
func (n *NeededIDs) Add(id ReadID) {
	i := n.flat(id)
	n.words[i/64] |= 1 << uint(i%64)
}

// Has reports whether id was marked needed.
func (n *NeededIDs) Has(id ReadID) bool {
	i := n.flat(id)
	return n.words[i/64]&(1<<uint(i%64)) != 0
}
