package superblocks

type nodeID int32

const noNode nodeID = -1

// block is the arena representation of a node.
type block[S Segment] struct {
	bounds Rect
	// segs is the FIFO of segments linked here; segs[0] is popped next.
	segs []S
	// real and mini count segments linked here or anywhere below.
	real, mini int
	children   [2]nodeID
	parent     nodeID
	depth      int
}

func (b *block[S]) count(cat Category, delta int) {
	if cat == Real {
		b.real += delta
	} else {
		b.mini += delta
	}
	assert(b.real >= 0 && b.mini >= 0, "superblock count dropped below zero")
}

// Node is a handle for a block of an index. Handles are small values and
// may be copied freely; they become invalid when the index is reset.
type Node[S Segment] struct {
	ix  *Index[S]
	id  nodeID
	gen uint32
}

func (n Node[S]) block() *block[S] {
	assert(n.ix != nil, "use of nil superblock node")
	if n.gen != n.ix.gen {
		panic(ErrStaleNode)
	}
	return &n.ix.nodes[n.id]
}

// ID returns a number identifying n within its index. The root has ID 0.
func (n Node[S]) ID() int {
	return int(n.id)
}

// Index returns the index n belongs to.
func (n Node[S]) Index() *Index[S] {
	return n.ix
}

// Bounds returns the rectangle covered by n.
func (n Node[S]) Bounds() Rect {
	return n.block().bounds
}

// Depth returns the distance of n from the root.
func (n Node[S]) Depth() int {
	return n.block().depth
}

// IsMinimal reports whether n is too small to be subdivided.
func (n Node[S]) IsMinimal() bool {
	return n.block().bounds.minimal(n.ix.cfg.minBlockSize)
}

// SplitAxis returns the axis and coordinate n is split at. For minimal blocks
// ok is false.
func (n Node[S]) SplitAxis() (axis Axis, mid int, ok bool) {
	b := n.block()
	if b.bounds.minimal(n.ix.cfg.minBlockSize) {
		return AxisX, 0, false
	}
	axis = b.bounds.SplitAxis()
	return axis, b.bounds.Mid(axis), true
}

// Parent returns the parent block of n. For the root, ok is false.
func (n Node[S]) Parent() (Node[S], bool) {
	b := n.block()
	if b.parent == noNode {
		return Node[S]{}, false
	}
	return n.ix.node(b.parent), true
}

// Child returns the lower (i == 0) or upper (i == 1) child of n, if it has
// been created.
func (n Node[S]) Child(i int) (Node[S], bool) {
	assert(i == 0 || i == 1, "superblock child index must be 0 or 1")
	b := n.block()
	if b.children[i] == noNode {
		return Node[S]{}, false
	}
	return n.ix.node(b.children[i]), true
}

// Len returns the number of segments linked to n itself.
func (n Node[S]) Len() int {
	return len(n.block().segs)
}

// Segments returns a copy of the segments linked to n itself, in pop order.
func (n Node[S]) Segments() []S {
	segs := n.block().segs
	return append(make([]S, 0, len(segs)), segs...)
}

// SegmentCount returns the number of segments linked to n or any block below
// n, selected by category.
func (n Node[S]) SegmentCount(real, mini bool) int {
	b := n.block()
	cnt := 0
	if real {
		cnt += b.real
	}
	if mini {
		cnt += b.mini
	}
	return cnt
}

// Traverse visits the subtree at n, with the same order and early-exit
// semantics as Index.Traverse.
func (n Node[S]) Traverse(visit func(Node[S]) VisitResult) VisitResult {
	n.block()
	return n.ix.traverse(n.id, visit)
}

// Push links seg into the subtree at n and returns the block it has been
// linked to. Blocks on the way down are created as needed.
//
// The segment is linked to the first block which either is minimal or is
// split by a line separating the segment's endpoints. Counts are incremented
// for every block on the descent path and for all ancestors of n.
//
// Both endpoints of seg must lie within the bounds of n; otherwise Push panics
// with ErrOutOfBounds.
func (n Node[S]) Push(seg S) Node[S] {
	b := n.block()
	from, to := seg.Endpoints()
	if !b.bounds.Contains(from) || !b.bounds.Contains(to) {
		T().Errorf("superblocks: segment %v–%v outside of block %s", from, to, b.bounds)
		panic(ErrOutOfBounds)
	}
	cat := seg.Category()
	n.ix.adjustAncestors(b.parent, cat, 1)
	return n.ix.node(n.ix.push(n.id, seg, from, to, cat))
}

// push is the iterative descent of Push.
func (ix *Index[S]) push(id nodeID, seg S, from, to Point, cat Category) nodeID {
	for {
		b := &ix.nodes[id]
		b.count(cat, 1)
		if b.bounds.minimal(ix.cfg.minBlockSize) {
			b.segs = append(b.segs, seg)
			return id
		}
		axis := b.bounds.SplitAxis()
		mid := float64(b.bounds.Mid(axis))
		p1 := axis.coord(from) >= mid
		p2 := axis.coord(to) >= mid
		if p1 != p2 { // segment crosses the split line
			b.segs = append(b.segs, seg)
			return id
		}
		c := 0
		if p1 {
			c = 1
		}
		next := b.children[c]
		if next == noNode {
			half := b.bounds.Half(axis, p1)
			next = ix.alloc(half, id, b.depth+1) // invalidates b
			ix.nodes[id].children[c] = next
			T().Debugf("superblocks: created block #%d %s", next, half)
		}
		id = next
	}
}

// Pop removes and returns the first segment linked to n itself. Blocks below
// n are not considered. Counts of n and all its ancestors are decremented.
// If no segment is linked to n, ok is false.
func (n Node[S]) Pop() (seg S, ok bool) {
	b := n.block()
	if len(b.segs) == 0 {
		return seg, false
	}
	seg = b.segs[0]
	var zero S
	b.segs[0] = zero
	if len(b.segs) == 1 {
		b.segs = nil
	} else {
		b.segs = b.segs[1:]
	}
	cat := seg.Category()
	b.count(cat, -1)
	n.ix.adjustAncestors(b.parent, cat, -1)
	return seg, true
}

func (ix *Index[S]) adjustAncestors(id nodeID, cat Category, delta int) {
	for id != noNode {
		b := &ix.nodes[id]
		b.count(cat, delta)
		id = b.parent
	}
}
