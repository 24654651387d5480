package interval

import "testing"

func TestMergeScenario(t *testing.T) {
	l := NewIntervalList()
	l.Add(0, 10, 0)
	l.Add(5, 15, 0)
	l.Add(20, 25, 0)
	l.Merge(0)

	items := l.Items()
	if len(items) != 2 {
		t.Fatalf("got %d intervals, want 2: %+v", len(items), items)
	}
	if items[0].Lo != 0 || items[0].Hi != 15 || items[0].Count != 2 {
		t.Errorf("first merged interval = %+v, want [0,15) count=2", items[0])
	}
	if items[1].Lo != 20 || items[1].Hi != 25 || items[1].Count != 1 {
		t.Errorf("second interval = %+v, want [20,25) count=1", items[1])
	}
}

func TestMergeIdempotent(t *testing.T) {
	l := NewIntervalList()
	l.Add(0, 10, 1)
	l.Add(5, 12, 2)
	l.Add(30, 40, 3)
	l.Merge(0)
	first := append([]Interval(nil), l.Items()...)
	l.Merge(0)
	second := l.Items()
	if len(first) != len(second) {
		t.Fatalf("merge not idempotent: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("merge not idempotent at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestInvertRoundTrip(t *testing.T) {
	l := NewIntervalList()
	l.Add(5, 15, 1)
	l.Add(20, 25, 1)

	merged := NewIntervalList()
	merged.Add(5, 15, 1)
	merged.Add(20, 25, 1)
	merged.Merge(0)

	l.Invert(0, 30)
	l.Invert(0, 30)

	got := l.Items()
	want := merged.Items()
	if len(got) != len(want) {
		t.Fatalf("double invert = %+v, want %+v", got, want)
	}
	for i := range got {
		if got[i].Lo != want[i].Lo || got[i].Hi != want[i].Hi {
			t.Errorf("interval %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestDepthFrom(t *testing.T) {
	src := NewIntervalList()
	src.Add(100, 4000, 1)
	src.Add(3800, 8000, 1)
	src.Add(100, 2000, 1)

	depth := DepthFrom(src)
	atLeast2 := depth.DepthAtLeast(2)
	if atLeast2.Len() != 1 {
		t.Fatalf("expected exactly one depth>=2 run, got %+v", atLeast2.Items())
	}
	run := atLeast2.Items()[0]
	if run.Lo != 3800 || run.Hi != 4000 {
		t.Errorf("depth>=2 run = [%d,%d), want [3800,4000)", run.Lo, run.Hi)
	}
}

func TestSpanning(t *testing.T) {
	l := NewIntervalList()
	l.Add(0, 5000, 1)
	l.Add(4500, 4700, 1)
	l.Add(100, 200, 1)

	if n := l.Spanning(4550, 4650); n != 2 {
		t.Errorf("Spanning(4550,4650) = %d, want 2", n)
	}
	if n := l.Spanning(50, 250); n != 1 {
		t.Errorf("Spanning(50,250) = %d, want 1 ([0,5000) contains [50,250))", n)
	}
}
