package poa

// LinkInfo is one incoming edge of a backbone cell: the predecessor's
// column identity, how many tags support it, and their summed weight
// (spec §3 "Backbone": "a list of incoming (p_t_pos, p_delta, p_q_base,
// link_count, weight)").
type LinkInfo struct {
	PTPos  int32
	PDelta uint16
	PQBase uint8
	Count  int32
	Weight float32
}

// pageSize is the arena's page granularity (spec §3 "Small-object arena":
// "chunked in 8 MiB pages, 16-byte aligned"); LinkInfo's field layout above
// rounds to 16 bytes, so this is exactly 8 MiB worth of slots per page.
const pageSize = (8 << 20) / 16

// Arena is the typed, bump-allocated, bulk-reset backing store for
// LinkInfo (spec §3 "Small-object arena", re-architected per §9's
// redesign note as a 32-bit-handle arena rather than a raw-pointer bump
// allocator). Handles returned by Alloc stay valid until the next Reset;
// Reset does not free the underlying pages, it only rewinds their length
// so the next template's tags reuse the same memory.
type Arena struct {
	pages [][]LinkInfo
}

// NewArena returns an empty arena.
func NewArena() *Arena { return &Arena{} }

// Alloc reserves n contiguous slots and returns the handle of the first
// one. A request that doesn't fit in the current page's remaining
// capacity starts a fresh page — cells are always allocated as one
// contiguous run, so this never splits a cell's LinkInfo list across two
// pages.
func (a *Arena) Alloc(n int) int32 {
	if n == 0 {
		return -1
	}
	if len(a.pages) == 0 || len(a.pages[len(a.pages)-1])+n > pageSize {
		size := pageSize
		if n > size {
			size = n
		}
		a.pages = append(a.pages, make([]LinkInfo, 0, size))
	}
	page := len(a.pages) - 1
	start := a.globalIndex(page, len(a.pages[page]))
	a.pages[page] = a.pages[page][:len(a.pages[page])+n]
	return start
}

// Slice returns the n LinkInfo entries starting at handle start.
func (a *Arena) Slice(start int32, n int32) []LinkInfo {
	if n == 0 {
		return nil
	}
	page, offset := a.locate(start)
	return a.pages[page][offset : offset+int(n)]
}

func (a *Arena) globalIndex(page, offset int) int32 {
	return int32(page*pageSize + offset)
}

func (a *Arena) locate(handle int32) (page, offset int) {
	return int(handle) / pageSize, int(handle) % pageSize
}

// Reset rewinds every page to zero length without releasing its backing
// array, invalidating every handle previously returned by Alloc (spec §3:
// "bulk-reset between templates... Lifetime: the arena is cleared once
// per template, never per-tag").
func (a *Arena) Reset() {
	for i := range a.pages {
		a.pages[i] = a.pages[i][:0]
	}
}
