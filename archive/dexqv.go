package archive

import (
	"io"

	"github.com/pkg/errors"
)

// QVRead is one read's decoded quality stream from a .dexqv archive (spec
// §6): Quals holds one byte per base, aligned to the same [Beg,End) clip
// window a paired .dexta/.dexar record uses.
type QVRead struct {
	Well     int32
	Beg, End int32
	Quals    []byte
}

// dexqvAlphabet is the byte alphabet the run-length stream is drawn from:
// a quality value (0-62) or the RLE repeat-count byte (any value 0-255)
// that follows it. 256 canonical Huffman codes cover both uses of the
// alphabet without a separate escape symbol.
const dexqvAlphabet = 256

// DecodeDexqv reads a .dexqv stream: the endian witness, the ASCII
// well-prefix, a canonical-Huffman code-length table (one byte per
// alphabet symbol, 0 meaning "unused"), and then per read a well-delta,
// clip window, and a bit-packed, Huffman-coded run-length stream of
// (quality, repeat-count) byte pairs that expands to End-Beg quality
// values.
//
// This pipeline stage never writes qualities (spec §6 lists dexqv as
// decode-only collaborator input), so there is no EncodeDexqv.
func DecodeDexqv(r io.Reader) (prefix string, reads []QVRead, err error) {
	swap, err := readWitness(r)
	if err != nil {
		return "", nil, err
	}
	prefix, err = readPrefix(r, swap)
	if err != nil {
		return "", nil, err
	}

	lengths := make([]byte, dexqvAlphabet)
	if _, err := io.ReadFull(r, lengths); err != nil {
		return "", nil, errors.Wrapf(err, "archive: reading dexqv huffman table")
	}
	tree, err := buildHuffmanDecodeTree(lengths)
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
		rawLen, err := readInt32(r, swap)
		if err != nil {
			return prefix, reads, err
		}
		bitLen, err := readInt32(r, swap)
		if err != nil {
			return prefix, reads, err
		}
		byteLen := (int(bitLen) + 7) / 8
		packed := make([]byte, byteLen)
		if _, err := io.ReadFull(r, packed); err != nil {
			return prefix, reads, err
		}

		raw, err := huffmanDecode(tree, packed, int(bitLen), int(rawLen))
		if err != nil {
			return prefix, reads, err
		}
		quals, err := rleExpand(raw, int(end-beg))
		if err != nil {
			return prefix, reads, errors.Wrapf(err, "archive: dexqv well %d", well)
		}
		reads = append(reads, QVRead{Well: well, Beg: beg, End: end, Quals: quals})
	}
}

// rleExpand inverts the (value, count) byte-pair run-length stream raw
// into n quality bytes.
func rleExpand(raw []byte, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := 0; i+1 < len(raw); i += 2 {
		v, count := raw[i], int(raw[i+1])
		for j := 0; j < count; j++ {
			out = append(out, v)
		}
	}
	if len(out) != n {
		return nil, errors.Errorf("archive: dexqv RLE expansion produced %d bytes, want %d", len(out), n)
	}
	return out, nil
}

// huffmanNode is an internal node (both children set) or a leaf (symbol
// valid) of the canonical-Huffman decode tree.
type huffmanNode struct {
	left, right *huffmanNode
	isLeaf      bool
	symbol      byte
}

// buildHuffmanDecodeTree reconstructs the canonical Huffman code from a
// table of per-symbol code lengths (0 meaning the symbol is unused),
// following the standard canonical assignment: symbols sorted by
// (length, symbol value), codes assigned in that order starting at zero
// and left-shifted whenever length increases.
func buildHuffmanDecodeTree(lengths []byte) (*huffmanNode, error) {
	type sym struct {
		length byte
		symbol int
	}
	var syms []sym
	for s, l := range lengths {
		if l > 0 {
			syms = append(syms, sym{length: l, symbol: s})
		}
	}
	if len(syms) == 0 {
		return nil, errors.New("archive: dexqv huffman table is empty")
	}
	sortSymsByLengthThenValue(syms)

	root := &huffmanNode{}
	code, lastLen := 0, int(syms[0].length)
	for _, s := range syms {
		code <<= int(s.length) - lastLen
		lastLen = int(s.length)
		if err := insertHuffmanCode(root, code, int(s.length), byte(s.symbol)); err != nil {
			return nil, err
		}
		code++
	}
	return root, nil
}

func sortSymsByLengthThenValue(syms []struct {
	length byte
	symbol int
}) {
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0; j-- {
			a, b := syms[j-1], syms[j]
			if a.length < b.length || (a.length == b.length && a.symbol <= b.symbol) {
				break
			}
			syms[j-1], syms[j] = syms[j], syms[j-1]
		}
	}
}

func insertHuffmanCode(root *huffmanNode, code, length int, symbol byte) error {
	n := root
	for bit := length - 1; bit >= 0; bit-- {
		if n.isLeaf {
			return errors.New("archive: dexqv huffman table is not prefix-free")
		}
		goRight := code&(1<<uint(bit)) != 0
		var next **huffmanNode
		if goRight {
			next = &n.right
		} else {
			next = &n.left
		}
		if *next == nil {
			*next = &huffmanNode{}
		}
		n = *next
	}
	n.isLeaf = true
	n.symbol = symbol
	return nil
}

// huffmanDecode walks tree, MSB-first within each byte of packed, for
// nbits total and returns the first nsyms decoded symbols.
func huffmanDecode(tree *huffmanNode, packed []byte, nbits, nsyms int) ([]byte, error) {
	out := make([]byte, 0, nsyms)
	n := tree
	bit := 0
	for bit < nbits && len(out) < nsyms {
		byteIdx, bitIdx := bit/8, 7-bit%8
		if packed[byteIdx]&(1<<uint(bitIdx)) != 0 {
			n = n.right
		} else {
			n = n.left
		}
		if n == nil {
			return nil, errors.New("archive: dexqv bitstream does not match huffman table")
		}
		if n.isLeaf {
			out = append(out, n.symbol)
			n = tree
		}
		bit++
	}
	if len(out) != nsyms {
		return nil, errors.Errorf("archive: dexqv bitstream decoded %d symbols, want %d", len(out), nsyms)
	}
	return out, nil
}
