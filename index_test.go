package superblocks

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// redirectTracing routes the core tracer to the test log.
func redirectTracing(t *testing.T, level tracing.TraceLevel) (teardown func()) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown = gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(level)
	return teardown
}

func newTestIndex(t *testing.T, x1, y1, x2, y2 int) *Index[*Seg] {
	t.Helper()
	ix, err := New[*Seg](Rect{X1: x1, Y1: y1, X2: x2, Y2: y2})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return ix
}

func TestScenarioStraddleAndDescend(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelDebug)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 1024, 1024)
	a := NewSeg(10, 10, 20, 20, Real)
	b := NewSeg(500, 10, 530, 10, Real)
	na := ix.Push(a)
	nb := ix.Push(b)
	if nb.ID() != 0 {
		t.Errorf("expected B to be linked to the root, is linked to #%d", nb.ID())
	}
	if !na.IsMinimal() {
		t.Errorf("expected A to be linked to a minimal block, is %s", na.Bounds())
	}
	if want := (Rect{0, 0, 256, 256}); na.Bounds() != want {
		t.Errorf("expected A in block %s, is in %s", want, na.Bounds())
	}
	if na.Depth() != 4 {
		t.Errorf("expected A at depth 4, is at %d", na.Depth())
	}
	if ix.SegmentCount(true, true) != 2 {
		t.Errorf("expected root count 2, is %d", ix.SegmentCount(true, true))
	}
	if err := ix.Check(); err != nil {
		t.Fatal(err)
	}
	seg, ok := ix.Root().Pop()
	if !ok || seg != b {
		t.Fatalf("expected root pop to return B, got %v/%v", seg, ok)
	}
	if _, ok = ix.Root().Pop(); ok {
		t.Errorf("expected root to be exhausted after popping B")
	}
	var found Node[*Seg]
	ix.Traverse(func(n Node[*Seg]) VisitResult {
		if n.Len() > 0 {
			found = n
			return Stop
		}
		return Continue
	})
	if found.ID() != na.ID() {
		t.Fatalf("expected traversal to find A at #%d, found #%d", na.ID(), found.ID())
	}
	if seg, _ := found.Pop(); seg != a {
		t.Errorf("expected to pop A from leaf, got %v", seg)
	}
	if ix.SegmentCount(true, true) != 0 {
		t.Errorf("expected empty index, count is %d", ix.SegmentCount(true, true))
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	if _, err := New[*Seg](Rect{X1: 10, Y1: 0, X2: 0, Y2: 10}); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds, got %v", err)
	}
	_, err := New[*Seg](Rect{0, 0, 10, 10}, WithMinBlockSize(-1))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPushOutOfBoundsPanics(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 512, 512)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic for segment outside of bounds")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("expected ErrOutOfBounds, got %v", r)
		}
	}()
	ix.Push(NewSeg(10, 10, 600, 10, Real))
}

func TestTraverseChildrenBeforeParent(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 1024, 512)
	ix.Push(NewSeg(10, 10, 20, 20, Real))   // left
	ix.Push(NewSeg(900, 10, 910, 20, Real)) // right
	var order []Rect
	ix.Traverse(func(n Node[*Seg]) VisitResult {
		if p, ok := n.Parent(); ok {
			for _, seen := range order {
				if seen == p.Bounds() {
					t.Errorf("parent %s visited before child %s", p.Bounds(), n.Bounds())
				}
			}
		}
		order = append(order, n.Bounds())
		return Continue
	})
	if len(order) != ix.Len() {
		t.Fatalf("expected %d blocks visited, got %d", ix.Len(), len(order))
	}
	if order[len(order)-1] != ix.Bounds() {
		t.Errorf("expected root to be visited last, got %s", order[len(order)-1])
	}
	if order[0].X1 != 0 {
		t.Errorf("expected lower child to be visited first, got %s", order[0])
	}
}

func TestTraverseStops(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 1024, 1024)
	ix.Push(NewSeg(10, 10, 20, 20, Real))
	ix.Push(NewSeg(700, 700, 710, 710, Real))
	calls := 0
	r := ix.Traverse(func(n Node[*Seg]) VisitResult {
		calls++
		return Stop
	})
	if r != Stop || calls != 1 {
		t.Errorf("expected traversal to stop after 1 call, got %d calls, result %d", calls, r)
	}
	if r = ix.Traverse(func(Node[*Seg]) VisitResult { return Continue }); r != Continue {
		t.Errorf("expected full traversal to return Continue")
	}
}

func TestBoundsOfLinkedSegments(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 1024, 1024)
	if box := ix.BoundsOfLinkedSegments(); !box.IsEmpty() {
		t.Errorf("expected cleared box for empty index, got %s", box)
	}
	ix.Push(NewSeg(10, 300, 20, 20, Real))
	ix.Push(NewSeg(500, 10, 530.5, 10, Mini))
	box := ix.BoundsOfLinkedSegments()
	want := Box{Min: Point{10, 10}, Max: Point{530.5, 300}}
	if box != want {
		t.Errorf("expected bounds %s, got %s", want, box)
	}
	ix.Drain()
	if box = ix.BoundsOfLinkedSegments(); !box.IsEmpty() {
		t.Errorf("expected cleared box after drain, got %s", box)
	}
}

func TestCollectAndDrain(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 2048, 2048)
	segs := []*Seg{
		NewSeg(10, 10, 20, 20, Real),
		NewSeg(1000, 10, 1100, 10, Real),
		NewSeg(1500, 1500, 1600, 1600, Mini),
	}
	for _, s := range segs {
		ix.Push(s)
	}
	collected := ix.Collect()
	if len(collected) != len(segs) || ix.SegmentCount(true, true) != len(segs) {
		t.Fatalf("collect must not alter the index: got %d segs, count %d",
			len(collected), ix.SegmentCount(true, true))
	}
	drained := ix.Drain()
	if len(drained) != len(segs) {
		t.Fatalf("expected %d drained segments, got %d", len(segs), len(drained))
	}
	for i := range drained {
		if drained[i] != collected[i] {
			t.Errorf("drain order differs from collect order at %d", i)
		}
	}
	if ix.SegmentCount(true, true) != 0 {
		t.Errorf("expected empty index after drain")
	}
	if err := ix.Check(); err != nil {
		t.Error(err)
	}
}

func TestResetReleasesBlocks(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelDebug)
	defer teardown()
	//
	ix := newTestIndex(t, 0, 0, 1024, 1024)
	old := ix.Root()
	ix.Push(NewSeg(10, 10, 20, 20, Real))
	if ix.Len() < 2 {
		t.Fatalf("expected blocks to be created")
	}
	if err := ix.Reset(Rect{0, 0, 512, 512}); err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 || ix.SegmentCount(true, true) != 0 {
		t.Errorf("expected a bare root after reset, have %d blocks", ix.Len())
	}
	if ix.Root().Bounds() != (Rect{0, 0, 512, 512}) {
		t.Errorf("expected new bounds, got %s", ix.Root().Bounds())
	}
	defer func() {
		if r := recover(); r != ErrStaleNode {
			t.Errorf("expected ErrStaleNode panic, got %v", r)
		}
	}()
	old.Pop()
}

func TestNewForBox(t *testing.T) {
	teardown := redirectTracing(t, tracing.LevelInfo)
	defer teardown()
	//
	box := ClearedBox().Extend(Point{-100.5, 20}).Extend(Point{300, 700})
	ix, err := NewForBox[*Seg](box)
	if err != nil {
		t.Fatal(err)
	}
	want := Rect{X1: -101, Y1: 20, X2: -101 + 512, Y2: 20 + 1024}
	if ix.Bounds() != want {
		t.Errorf("expected bounds %s, got %s", want, ix.Bounds())
	}
	if _, err := NewForBox[*Seg](ClearedBox()); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("expected ErrInvalidBounds for empty box, got %v", err)
	}
}
