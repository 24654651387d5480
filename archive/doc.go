// Package archive implements the compressed-read-archive wire formats of
// spec §6 "External interfaces": .dexta and .dexar (2-bit-packed
// sequence, encode+decode) and .dexqv (Huffman/RLE-coded quality
// streams, decode-only — nothing in this pipeline stage writes
// qualities). These are explicitly out-of-core collaborator formats
// (spec.md's Non-goals list "the 2-bit read-file codec utilities"), kept
// here only because §6 fully specifies their wire layout.
//
// Grounded on original_source/DEXTRACTOR/dexta.c, dexar.c, dexqv.c, and
// undexqv.c; the underlying QVcoding table serialization lives in DB.h/
// QV.c, neither of which is in the retrieval pack, so dexqv.go's Huffman
// table and run-length framing are a from-scratch, internally consistent
// canonical-Huffman scheme matching spec §6's prose description rather
// than a byte-for-byte reproduction of the original's bit layout — see
// DESIGN.md.
package archive
