package chain

import "testing"

func seed(qoff, soff, length int64) Seed { return Seed{Qoff: qoff, Soff: soff, Length: length} }

// TestChainerLinear reproduces spec §8 scenario 2: three perfectly colinear
// seeds chain into one length-3 chain with predecessor chain p=[-1,0,1].
func TestChainerLinear(t *testing.T) {
	seeds := []Seed{seed(0, 0, 10), seed(20, 20, 10), seed(40, 40, 10)}
	chains, hits := Search(seeds, DefaultParams())
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1: %+v", len(chains), chains)
	}
	c := chains[0]
	if len(c.Seeds) != 3 {
		t.Fatalf("chain length = %d, want 3: %+v", len(c.Seeds), c)
	}
	wantOrder := []int{0, 1, 2}
	for i, want := range wantOrder {
		if c.Seeds[i] != want {
			t.Errorf("Seeds[%d] = %d, want %d", i, c.Seeds[i], want)
		}
	}
	// Perfectly colinear seeds (dd == 0 throughout) incur no band penalty,
	// so the chain score is exactly the sum of per-step scores: 10 (base) +
	// 10 + 10 = 30, i.e. "30 minus a small (here zero) penalty".
	if c.Score > 30 {
		t.Errorf("Score = %d, want <= 30", c.Score)
	}
	if c.Score < 20 {
		t.Errorf("Score = %d, want a score close to 30", c.Score)
	}
	if len(hits) != 1 || hits[0].ChainSeedCount != 3 {
		t.Errorf("hits = %+v, want one hit over 3 seeds", hits)
	}
}

// TestChainerBandedOut reproduces spec §8 scenario 3: a seed pair too far
// apart in (dq, dr) fails to link, yielding two single-seed chains.
func TestChainerBandedOut(t *testing.T) {
	seeds := []Seed{seed(0, 0, 10), seed(20, 2000, 10)}
	chains, _ := Search(seeds, DefaultParams())
	if len(chains) != 2 {
		t.Fatalf("got %d chains, want 2: %+v", len(chains), chains)
	}
	for _, c := range chains {
		if len(c.Seeds) != 1 {
			t.Errorf("chain %+v has length %d, want 1", c, len(c.Seeds))
		}
	}
}

// TestChainColinearityInvariant checks spec §8 invariant 2 for every chain
// Search produces: strictly increasing soff and qoff along the chain.
func TestChainColinearityInvariant(t *testing.T) {
	seeds := []Seed{
		seed(0, 0, 10), seed(15, 20, 10), seed(40, 35, 10),
		seed(5000, 5000, 10), seed(5020, 5025, 10),
	}
	chains, _ := Search(seeds, DefaultParams())
	for _, c := range chains {
		for i := 1; i < len(c.Seeds); i++ {
			a, b := seeds[c.Seeds[i-1]], seeds[c.Seeds[i]]
			if !(a.Soff < b.Soff && a.Qoff < b.Qoff) {
				t.Errorf("chain %+v violates colinearity at step %d: %+v -> %+v", c, i, a, b)
			}
		}
	}
}

// TestFirstChainEndShadowing pins down the spec §9 Open Question:
// FindBestSeed only ever inspects the single best-scoring chain-end. When
// that end is filtered by MinCnt, FindBestSeed reports failure even though
// a valid, lower-scoring chain exists among the remaining ends — unlike
// Search, whose multi-chain backtrack loop would (and does) find it.
func TestFirstChainEndShadowing(t *testing.T) {
	seeds := []Seed{
		seed(0, 0, 10),        // links with the next seed into a valid length-2 chain.
		seed(20, 20, 10),
		seed(10000, 10000, 1000), // isolated: far from anything, scores highest alone.
	}
	prm := DefaultParams()
	prm.MinCnt = 2

	if _, _, ok := FindBestSeed(seeds, prm); ok {
		t.Fatalf("FindBestSeed: want false (best end is a length-1 chain filtered by MinCnt), got a chain")
	}

	chains, _ := Search(seeds, prm)
	if len(chains) != 1 {
		t.Fatalf("Search: got %d chains, want 1 (the valid {0,1} chain after skipping the filtered isolated seed): %+v", len(chains), chains)
	}
	if len(chains[0].Seeds) != 2 || chains[0].Seeds[0] != 0 || chains[0].Seeds[1] != 1 {
		t.Errorf("Search chain = %+v, want seeds [0 1]", chains[0])
	}
}

func TestChainEmptyInput(t *testing.T) {
	chains, hits := Search(nil, DefaultParams())
	if chains != nil || hits != nil {
		t.Errorf("Search(nil) = %v, %v, want nil, nil", chains, hits)
	}
	if _, _, ok := FindBestSeed(nil, DefaultParams()); ok {
		t.Errorf("FindBestSeed(nil) = ok, want false")
	}
}
