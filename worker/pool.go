package worker

import (
	"sync"

	"github.com/grailbio/base/errors"
)

// Counter is the batch-index mutex of spec §5: a shared "next work unit"
// counter, acquired and incremented under a plain sync.Mutex per §5's
// stated coarse-locking policy (no lock-free queues; contention is
// negligible at this grain).
type Counter struct {
	mu    sync.Mutex
	next  int
	total int
}

// NewCounter returns a Counter that yields indices [0, total).
func NewCounter(total int) *Counter {
	return &Counter{total: total}
}

// Next returns the next work-unit index and true, or (0, false) once every
// index up to total has been handed out.
func (c *Counter) Next() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.next >= c.total {
		return 0, false
	}
	i := c.next
	c.next++
	return i, true
}

// OutputBuffer is the output mutex of spec §5: an append-only buffer
// shared by every worker goroutine, flushed by the driver between
// batches.
type OutputBuffer struct {
	mu  sync.Mutex
	buf []byte
}

// Append adds p to the buffer under lock.
func (o *OutputBuffer) Append(p []byte) {
	o.mu.Lock()
	o.buf = append(o.buf, p...)
	o.mu.Unlock()
}

// Flush returns the buffer's current contents and resets it to empty.
func (o *OutputBuffer) Flush() []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.buf
	o.buf = nil
	return out
}

// Run starts numWorkers goroutines, each calling newScratch once to build
// its own long-lived per-thread state (spec §4.J's CnsThreadData: "an
// array of per-thread scratch"), then repeatedly pulling the next index
// from a shared Counter and invoking work until the counter is exhausted
// or some call to work returns an error. Run blocks until every goroutine
// has finished, and returns the first error observed across all of them
// (github.com/grailbio/base/errors.Once, matching markduplicates.go's
// accumulator).
func Run[S any](numWorkers, total int, newScratch func(thread int) S, work func(scratch S, index int) error) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	counter := NewCounter(total)
	var wg sync.WaitGroup
	var errOnce errors.Once
	for t := 0; t < numWorkers; t++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			scratch := newScratch(thread)
			for {
				i, ok := counter.Next()
				if !ok {
					return
				}
				if err := work(scratch, i); err != nil {
					errOnce.Set(err)
					return
				}
			}
		}(t)
	}
	wg.Wait()
	return errOnce.Err()
}

// Batches splits ids, already sorted by the caller (spec §4.J: "load
// partition hits, sort by sid, batch (<= batch_size templates)"), into
// consecutive chunks of at most batchSize elements. A non-positive
// batchSize returns ids as one chunk.
func Batches(ids []uint32, batchSize int) [][]uint32 {
	if batchSize <= 0 || len(ids) == 0 {
		if len(ids) == 0 {
			return nil
		}
		return [][]uint32{ids}
	}
	var out [][]uint32
	for len(ids) > 0 {
		n := batchSize
		if n > len(ids) {
			n = len(ids)
		}
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}
