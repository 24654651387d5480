package worker

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounterExhausts(t *testing.T) {
	c := NewCounter(3)
	var got []int
	for {
		i, ok := c.Next()
		if !ok {
			break
		}
		got = append(got, i)
	}
	require.Equal(t, []int{0, 1, 2}, got)
}

func TestCounterConcurrentNoDuplicates(t *testing.T) {
	const total = 500
	c := NewCounter(total)
	seen := make([]int32, total)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i, ok := c.Next()
				if !ok {
					return
				}
				seen[i]++
			}
		}()
	}
	wg.Wait()
	for i, n := range seen {
		require.Equal(t, int32(1), n, "index %d handed out %d times", i, n)
	}
}

func TestOutputBufferAppendFlush(t *testing.T) {
	var ob OutputBuffer
	ob.Append([]byte("ab"))
	ob.Append([]byte("cd"))
	require.Equal(t, []byte("abcd"), ob.Flush())
	require.Empty(t, ob.Flush())
}

func TestRunProcessesEveryIndexOnce(t *testing.T) {
	const total = 200
	var mu sync.Mutex
	seen := make(map[int]bool)
	err := Run(4, total, func(thread int) int { return thread }, func(_ int, index int) error {
		mu.Lock()
		seen[index] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, seen, total)
}

func TestRunPropagatesFirstError(t *testing.T) {
	boom := fmt.Errorf("boom")
	err := Run(2, 10, func(thread int) int { return thread }, func(_ int, index int) error {
		if index == 5 {
			return boom
		}
		return nil
	})
	require.Error(t, err)
}

func TestRunGivesEachThreadItsOwnScratch(t *testing.T) {
	var mu sync.Mutex
	var scratches []int
	err := Run(4, 4, func(thread int) int {
		mu.Lock()
		scratches = append(scratches, thread)
		mu.Unlock()
		return thread
	}, func(scratch int, index int) error { return nil })
	require.NoError(t, err)
	sort.Ints(scratches)
	require.Equal(t, []int{0, 1, 2, 3}, scratches)
}

func TestBatches(t *testing.T) {
	ids := []uint32{1, 2, 3, 4, 5, 6, 7}
	got := Batches(ids, 3)
	require.Equal(t, [][]uint32{{1, 2, 3}, {4, 5, 6}, {7}}, got)
}

func TestBatchesNonPositiveSizeReturnsOneChunk(t *testing.T) {
	ids := []uint32{1, 2, 3}
	require.Equal(t, [][]uint32{{1, 2, 3}}, Batches(ids, 0))
}

func TestBatchesEmpty(t *testing.T) {
	require.Nil(t, Batches(nil, 3))
}
