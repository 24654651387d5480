package trim

import "sync"

// Table is the clipped-range table of spec §5: a flat array of ClipRange
// indexed by read id, guarded by a single coarse mutex because "contention
// is negligible (one write per template)" — the policy spec §5 states
// explicitly.
type Table struct {
	mu     sync.Mutex
	ranges []ClipRange
}

// NewTable returns a Table sized for n reads, every entry initially the
// discarded ClipRange{}.
func NewTable(n int) *Table {
	return &Table{ranges: make([]ClipRange, n)}
}

// Set records id's clip range.
func (t *Table) Set(id uint32, r ClipRange) {
	t.mu.Lock()
	t.ranges[id] = r
	t.mu.Unlock()
}

// Get returns id's clip range.
func (t *Table) Get(id uint32) ClipRange {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ranges[id]
}

// Snapshot returns a copy of the whole table, indexed by read id.
func (t *Table) Snapshot() []ClipRange {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ClipRange, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// AsMap returns the table as a map keyed by read id, skipping discarded
// entries — the shape trim.Split wants for its clipRanges parameter (other
// participants' already-computed clear ranges).
func (t *Table) AsMap() map[uint32]ClipRange {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := make(map[uint32]ClipRange, len(t.ranges))
	for id, r := range t.ranges {
		if !r.Discarded() {
			m[uint32(id)] = r
		}
	}
	return m
}
