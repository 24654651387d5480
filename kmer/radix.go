package kmer

// RadixSortStable sorts items by the uint64 key keyOf(item), ascending,
// using an 8-pass byte-wise LSD radix sort (256 buckets per pass, each pass
// a stable counting sort). It is generic over the element type rather than
// hardcoded to Occurrence, per the "dynamic dispatch via function pointers"
// redesign note: Go generics give the same monomorphized-per-element-type
// dispatch the note asks for, without the void-pointer/comparator-callback
// indirection the original used.
//
// Sorting occurrences by the compound key (hash, offset) is done by calling
// this twice: once on the minor key (Offset), then once on the major key
// (Hash). Because each pass is a stable sort, the second call's ties are
// broken by the first call's relative order — the standard LSD technique,
// generalized to two arbitrary-width fields rather than one fixed-width key
// split into digit groups.
func RadixSortStable[T any](items []T, keyOf func(T) uint64) []T {
	n := len(items)
	if n < 2 {
		return items
	}
	src := items
	dst := make([]T, n)
	var count [257]int
	for shift := uint(0); shift < 64; shift += 8 {
		for i := range count {
			count[i] = 0
		}
		for _, it := range src {
			b := byte(keyOf(it) >> shift)
			count[b+1]++
		}
		for i := 1; i < 257; i++ {
			count[i] += count[i-1]
		}
		for _, it := range src {
			b := byte(keyOf(it) >> shift)
			dst[count[b]] = it
			count[b]++
		}
		src, dst = dst, src
	}
	// 8 passes (even) means src now aliases the original backing array that
	// was swapped into the "dst" role an even number of times; copy back into
	// items only if the final src is the scratch buffer, not items itself.
	if len(src) > 0 && &src[0] != &items[0] {
		copy(items, src)
	}
	return items
}
