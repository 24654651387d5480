package chain

import (
	"math"
	"math/bits"
	"sort"
)

// Seed is one k-mer hit passed into the chainer (spec §3 "Seed"). Offsets
// are always expressed on the forward strand of their own sequence; when
// Sdir is Rev, the seed producer is responsible for the coordinate
// transform before handing seeds to this package.
type Seed struct {
	Qoff, Soff, Length int64
	Sdir               int8
	Hash               uint64
}

// Strand markers for Seed.Sdir and Hit.Sdir.
const (
	Fwd int8 = 0
	Rev int8 = 1
)

// Params holds the chain-DP tunables named in spec §3 "Chain-DP state".
type Params struct {
	MaxDistRef    int64
	MaxDistQry    int64
	MaxBandWidth  int64
	MaxSkip       int
	MinCnt        int
	MinScore      int64
	MemMode       bool // selects the MEM-mode "fully to the upper-left" test in §4.C.
}

// DefaultParams returns chain parameters in the minimap2-style range the
// spec leaves unspecified beyond naming the fields.
func DefaultParams() Params {
	return Params{
		MaxDistRef:   500,
		MaxDistQry:   500,
		MaxBandWidth: 100,
		MaxSkip:      25,
		MinCnt:       1,
		MinScore:     0,
	}
}

// Chain is a colinear, non-overlapping run of seed indices (into the input
// slice), in ascending (soff, qoff) order.
type Chain struct {
	Seeds []int
	Score int64
}

// Hit is the summary record spec §4.C's backtrack step emits per surviving
// chain: { score, qoff, soff, chain_seed_offset, chain_seed_count, sdir },
// where (qoff, soff) is the midpoint of the longest seed in the chain.
type Hit struct {
	Score           int64
	Qoff, Soff      int64
	ChainSeedOffset int
	ChainSeedCount  int
	Sdir            int8
}

func ilog2(x int64) int {
	if x <= 0 {
		return 0
	}
	return bits.Len64(uint64(x)) - 1
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// dpState is the f/p/v/t parallel-array state of spec §3 "Chain-DP state".
type dpState struct {
	f []int64
	p []int
	v []int64
	t []int
}

// runDP computes the scoring recurrence of spec §4.C over seeds, assumed
// sorted by (Soff, Qoff) ascending.
func runDP(seeds []Seed, prm Params) dpState {
	n := len(seeds)
	st := dpState{f: make([]int64, n), p: make([]int, n), v: make([]int64, n), t: make([]int, n)}

	var totalLen int64
	for _, s := range seeds {
		totalLen += s.Length
	}
	avgCov := 0.0
	if n > 0 {
		avgCov = float64(totalLen) / float64(n)
	}

	for i := 0; i < n; i++ {
		maxF := seeds[i].Length
		maxJ := -1
		nSkip := 0
		for j := i - 1; j >= 0; j-- {
			if seeds[i].Soff-seeds[j].Soff > prm.MaxDistRef {
				break
			}
			if prm.MemMode {
				if !(seeds[j].Qoff+seeds[j].Length < seeds[i].Qoff && seeds[j].Soff+seeds[j].Length < seeds[i].Soff) {
					continue
				}
			} else {
				if !(seeds[j].Qoff < seeds[i].Qoff && seeds[j].Soff < seeds[i].Soff) {
					continue
				}
			}
			dr := seeds[i].Soff - seeds[j].Soff
			dq := seeds[i].Qoff - seeds[j].Qoff
			if dr == 0 || dq <= 0 || dq > prm.MaxDistQry || dr > prm.MaxDistRef {
				continue
			}
			dd := abs64(dr - dq)
			if dd > prm.MaxBandWidth {
				continue
			}
			sc := minI64(minI64(dq, dr), seeds[i].Length)
			if dd > 0 {
				sc -= int64(math.Floor(float64(dd)*0.01*avgCov)) + int64(ilog2(dd)>>1)
			}
			cand := st.f[j] + sc
			if cand > maxF {
				maxF = cand
				maxJ = j
				if nSkip > 0 {
					nSkip--
				}
			} else if st.t[j] == i {
				nSkip++
				if nSkip > prm.MaxSkip {
					break
				}
			}
			if st.p[j] >= 0 {
				st.t[st.p[j]] = i
			}
		}
		st.f[i] = maxF
		st.p[i] = maxJ
		if maxJ >= 0 && st.v[maxJ] > maxF {
			st.v[i] = st.v[maxJ]
		} else {
			st.v[i] = maxF
		}
	}
	return st
}

type chainEnd struct {
	idx int
	f   int64
}

// chainEnds returns every i with no successor (t[i] == 0, per spec §4.C
// "Backtrack") whose visible peak score clears MinScore, sorted by f
// descending.
func chainEnds(st dpState, prm Params) []chainEnd {
	var ends []chainEnd
	for i := range st.f {
		if st.t[i] == 0 && st.v[i] >= prm.MinScore {
			ends = append(ends, chainEnd{i, st.f[i]})
		}
	}
	sort.SliceStable(ends, func(a, b int) bool { return ends[a].f > ends[b].f })
	return ends
}

// backtrack walks p[] from end.idx until it hits a node already in used or
// -1, marking visited nodes in used, and returns the walked indices in
// ascending (chain) order plus the f value of the node the walk stopped at
// (0 if it stopped at -1).
func backtrack(st dpState, end chainEnd, used []bool) ([]int, int64) {
	var idxs []int
	j := end.idx
	for j != -1 && !used[j] {
		idxs = append(idxs, j)
		used[j] = true
		j = st.p[j]
	}
	for l, r := 0, len(idxs)-1; l < r; l, r = l+1, r-1 {
		idxs[l], idxs[r] = idxs[r], idxs[l]
	}
	joined := int64(0)
	if j != -1 {
		joined = st.f[j]
	}
	return idxs, joined
}

func longestSeed(seeds []Seed, idxs []int) Seed {
	best := seeds[idxs[0]]
	for _, ix := range idxs[1:] {
		if seeds[ix].Length > best.Length {
			best = seeds[ix]
		}
	}
	return best
}

func hitFor(seeds []Seed, idxs []int, score int64, offset int) Hit {
	mid := longestSeed(seeds, idxs)
	return Hit{
		Score:           score,
		Qoff:            mid.Qoff + mid.Length/2,
		Soff:            mid.Soff + mid.Length/2,
		ChainSeedOffset: offset,
		ChainSeedCount:  len(idxs),
		Sdir:            mid.Sdir,
	}
}

// Search runs the full chain DP and backtrack of spec §4.C over seeds
// (assumed sorted by (Soff, Qoff) ascending), returning every surviving
// chain, in descending order of its chain end's f value, along with its Hit
// summary. An empty
// seeds slice is a no-op, per §4.C "Failure modes".
func Search(seeds []Seed, prm Params) ([]Chain, []Hit) {
	if len(seeds) == 0 {
		return nil, nil
	}
	st := runDP(seeds, prm)
	ends := chainEnds(st, prm)

	used := make([]bool, len(seeds))
	var chains []Chain
	var hits []Hit
	flat := 0
	for _, e := range ends {
		if used[e.idx] {
			continue
		}
		idxs, joined := backtrack(st, e, used)
		if len(idxs) < prm.MinCnt {
			continue
		}
		score := st.f[e.idx] - joined
		if score < prm.MinScore {
			continue
		}
		chains = append(chains, Chain{Seeds: idxs, Score: score})
		hits = append(hits, hitFor(seeds, idxs, score, flat))
		flat += len(idxs)
	}
	return chains, hits
}

// FindBestSeed reproduces the legacy find_best_kmer_match/find_best_seed
// behavior: it examines only the single best-scoring chain-end (by f
// descending) and returns failure immediately if that one chain is
// filtered by MinCnt or MinScore, rather than falling back to the
// next-best chain-end the way Search's multi-chain loop would. This is the
// spec §9 Open Question's shadowing bug, preserved verbatim — see
// TestFirstChainEndShadowing.
func FindBestSeed(seeds []Seed, prm Params) (Chain, Hit, bool) {
	if len(seeds) == 0 {
		return Chain{}, Hit{}, false
	}
	st := runDP(seeds, prm)
	ends := chainEnds(st, prm)
	if len(ends) == 0 {
		return Chain{}, Hit{}, false
	}

	used := make([]bool, len(seeds))
	idxs, joined := backtrack(st, ends[0], used)
	if len(idxs) < prm.MinCnt {
		return Chain{}, Hit{}, false
	}
	score := st.f[ends[0].idx] - joined
	if score < prm.MinScore {
		return Chain{}, Hit{}, false
	}
	return Chain{Seeds: idxs, Score: score}, hitFor(seeds, idxs, score, 0), true
}
