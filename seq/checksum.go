package seq

import "github.com/blainsmith/seahash"

// ChecksumPacked returns a seahash checksum of a volume's packed-residue
// buffer, in the style of cmd/bio-pamtool/checksum.go's refChecksum. It is
// stored in the volume's .seqinfo trailer and rechecked by Directory.Verify
// to catch a torn or truncated .pac file (spec §7 "io"/"format").
func ChecksumPacked(packed []byte) uint64 {
	return seahash.Sum64(packed)
}
