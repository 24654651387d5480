// Package kmer builds and queries the k-mer occurrence index described in
// spec §3/§4.B: a sorted array of (hash, offset) occurrences sampled every w
// residues from each read, plus a hash -> (count, start) map packing count
// and start index into one 64-bit word (34 start-index bits, 30 count
// bits). Repetitive k-mers (those occurring more than MaxKmerOcc times) are
// culled from the array before the map is built.
//
// The design is grounded on fusion/kmer_index.go's sharded, farmhash-keyed
// occurrence table, adapted from gene-fusion breakpoint detection to
// overlap-seed lookup: same shape (hash -> packed count/start word over a
// sorted occurrence array), different domain.
package kmer
