package superblocks

import (
	"math/rand"
	"testing"

	"github.com/npillmayer/schuko/tracing"
)

// How to run:
//   - Deterministic randomized property test:
//     go test . -run TestRandomizedPushPop -count=1
//   - Fuzz test:
//     go test . -run '^$' -fuzz FuzzPushPop -fuzztime=10s

func randomSeg(r *rand.Rand, bounds Rect) *Seg {
	coord := func(lo, hi int) float64 {
		return float64(lo) + r.Float64()*float64(hi-lo)
	}
	x1, y1 := coord(bounds.X1, bounds.X2), coord(bounds.Y1, bounds.Y2)
	// mostly short segments, as in real maps, and some long ones
	x2, y2 := coord(bounds.X1, bounds.X2), coord(bounds.Y1, bounds.Y2)
	if r.Intn(4) > 0 {
		x2 = min(max(x1+coord(-64, 64), float64(bounds.X1)), float64(bounds.X2))
		y2 = min(max(y1+coord(-64, 64), float64(bounds.Y1)), float64(bounds.Y2))
	}
	kind := Real
	if r.Intn(3) == 0 {
		kind = Mini
	}
	return NewSeg(x1, y1, x2, y2, kind)
}

func assertSameSegments(t *testing.T, got, want []*Seg) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("segment count mismatch: got=%d want=%d", len(got), len(want))
	}
	seen := make(map[*Seg]int, len(want))
	for _, s := range want {
		seen[s]++
	}
	for _, s := range got {
		seen[s]--
		if seen[s] < 0 {
			t.Fatalf("segment %v returned more often than pushed", s)
		}
	}
	for s, n := range seen {
		if n != 0 {
			t.Fatalf("segment %v lost", s)
		}
	}
}

func TestRandomizedPushPop(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	r := rand.New(rand.NewSource(4711))
	bounds := Rect{X1: -2048, Y1: -1024, X2: 2048, Y2: 3072}
	ix, err := New[*Seg](bounds)
	if err != nil {
		t.Fatal(err)
	}
	var pushed []*Seg
	for round := 0; round < 20; round++ {
		for i := 0; i < 50; i++ {
			s := randomSeg(r, bounds)
			ix.Push(s)
			pushed = append(pushed, s)
		}
		if ix.SegmentCount(true, true) != len(pushed) {
			t.Fatalf("round %d: root counts %d, pushed %d", round, ix.SegmentCount(true, true), len(pushed))
		}
		// pop a few segments from random blocks
		before := ix.SegmentCount(true, true)
		popped := 0
		ix.Traverse(func(n Node[*Seg]) VisitResult {
			if r.Intn(2) == 0 {
				return Continue
			}
			s, ok := n.Pop()
			if !ok {
				return Continue
			}
			popped++
			for i := range pushed {
				if pushed[i] == s {
					pushed = append(pushed[:i], pushed[i+1:]...)
					break
				}
			}
			return Continue
		})
		if after := ix.SegmentCount(true, true); before-after != popped {
			t.Fatalf("round %d: popped %d segments, count dropped by %d", round, popped, before-after)
		}
		if err := ix.Check(); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
	}
	assertSameSegments(t, ix.Drain(), pushed)
	if err := ix.Check(); err != nil {
		t.Fatal(err)
	}
}

// TestRoundTripThroughSplits imitates a BSP builder: segments are drained
// from an index and re-pushed into two new indices for the half-spaces left
// and right of a vertical partition line. Categories must survive unchanged.
func TestRoundTripThroughSplits(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	r := rand.New(rand.NewSource(42))
	bounds := Rect{X1: 0, Y1: 0, X2: 4096, Y2: 4096}
	kinds := make(map[*Seg]Category)
	var segs []*Seg
	for i := 0; i < 300; i++ {
		s := randomSeg(r, bounds)
		kinds[s] = s.Kind
		segs = append(segs, s)
	}
	var split func(segs []*Seg, depth int) []*Seg
	split = func(segs []*Seg, depth int) []*Seg {
		if len(segs) == 0 {
			return nil
		}
		box := ClearedBox()
		for _, s := range segs {
			box = box.Extend(s.From).Extend(s.To)
		}
		ix, err := NewForBox[*Seg](box)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range segs {
			ix.Push(s)
		}
		if ix.BoundsOfLinkedSegments() != box {
			t.Fatalf("depth %d: linked bounds %s differ from %s", depth, ix.BoundsOfLinkedSegments(), box)
		}
		if depth == 0 || len(segs) < 4 {
			return ix.Drain()
		}
		xmid := (box.Min.X + box.Max.X) / 2
		var left, right []*Seg
		classify := func(s *Seg) {
			if s.From.X < xmid {
				left = append(left, s)
			} else {
				right = append(right, s)
			}
		}
		// straddling segments first, then the rest of the tree
		for s, ok := ix.Root().Pop(); ok; s, ok = ix.Root().Pop() {
			classify(s)
		}
		for _, s := range ix.Drain() {
			classify(s)
		}
		if ix.SegmentCount(true, true) != 0 {
			t.Fatalf("depth %d: index not exhausted", depth)
		}
		return append(split(left, depth-1), split(right, depth-1)...)
	}
	out := split(segs, 4)
	assertSameSegments(t, out, segs)
	for _, s := range out {
		if s.Category() != kinds[s] {
			t.Errorf("segment %v changed category", s)
		}
	}
}

func FuzzPushPop(f *testing.F) {
	f.Add(int64(1), uint8(20))
	f.Add(int64(99), uint8(200))
	f.Fuzz(func(t *testing.T, seed int64, n uint8) {
		teardown := redirectTracing(t, tracing.LevelError)
		defer teardown()
		r := rand.New(rand.NewSource(seed))
		bounds := Rect{X1: 0, Y1: 0, X2: 1 + r.Intn(8192), Y2: 1 + r.Intn(8192)}
		ix, err := New[*Seg](bounds)
		if err != nil {
			t.Fatal(err)
		}
		pushed := make([]*Seg, 0, n)
		for i := 0; i < int(n); i++ {
			s := randomSeg(r, bounds)
			ix.Push(s)
			pushed = append(pushed, s)
		}
		if ix.SegmentCount(true, true) != len(pushed) {
			t.Fatalf("root counts %d, pushed %d", ix.SegmentCount(true, true), len(pushed))
		}
		if err := ix.Check(); err != nil {
			t.Fatal(err)
		}
		assertSameSegments(t, ix.Drain(), pushed)
	})
}
