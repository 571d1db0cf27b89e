package superblocks

import (
	"fmt"
)

// Index is a k-d tree of superblocks over a fixed rectangle.
//
// S is the segment handle type. The index does not own the segments it links;
// segments have to outlive the index (or at least stay valid until they have
// been popped).
type Index[S Segment] struct {
	cfg    config
	bounds Rect
	nodes  []block[S] // arena; nodes[0] is the root
	gen    uint32     // incremented by Reset, invalidates node handles
}

// Option configures an index.
type Option func(*config)

type config struct {
	minBlockSize int
}

// WithMinBlockSize sets the side length at or below which blocks are not
// subdivided. The default is MinBlockSize.
func WithMinBlockSize(size int) Option {
	return func(cfg *config) {
		cfg.minBlockSize = size
	}
}

func (cfg config) normalized() config {
	if cfg.minBlockSize == 0 {
		cfg.minBlockSize = MinBlockSize
	}
	return cfg
}

func (cfg config) validate() error {
	if cfg.minBlockSize <= 0 {
		return fmt.Errorf("%w: minimum block size %d", ErrInvalidConfig, cfg.minBlockSize)
	}
	return nil
}

// New creates an empty index covering bounds.
func New[S Segment](bounds Rect, opts ...Option) (*Index[S], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if !bounds.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBounds, bounds)
	}
	ix := &Index[S]{cfg: cfg}
	ix.reset(bounds)
	return ix, nil
}

// NewForBox creates an empty index with superblock bounds derived from box
// (see Box.BlockRect).
func NewForBox[S Segment](box Box, opts ...Option) (*Index[S], error) {
	bounds, err := box.BlockRect()
	if err != nil {
		return nil, err
	}
	return New[S](bounds, opts...)
}

// Reset discards all blocks and re-initializes the index to cover bounds.
// The arena's memory is kept for the next build pass. Node handles obtained
// before the reset must not be used any more.
func (ix *Index[S]) Reset(bounds Rect) error {
	if !bounds.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidBounds, bounds)
	}
	T().Debugf("superblocks: reset index %s, releasing %d blocks", bounds, len(ix.nodes))
	ix.reset(bounds)
	return nil
}

func (ix *Index[S]) reset(bounds Rect) {
	clear(ix.nodes) // drop segment references
	ix.nodes = ix.nodes[:0]
	ix.gen++
	ix.bounds = bounds
	ix.alloc(bounds, noNode, 0)
}

// alloc appends a new, empty block to the arena. Pointers into the arena are
// invalid after a call to alloc.
func (ix *Index[S]) alloc(bounds Rect, parent nodeID, depth int) nodeID {
	ix.nodes = append(ix.nodes, block[S]{
		bounds:   bounds,
		parent:   parent,
		depth:    depth,
		children: [2]nodeID{noNode, noNode},
	})
	return nodeID(len(ix.nodes) - 1)
}

// Bounds returns the rectangle covered by the index.
func (ix *Index[S]) Bounds() Rect {
	return ix.bounds
}

// MinBlockSize returns the side length at or below which blocks of this index
// are not subdivided.
func (ix *Index[S]) MinBlockSize() int {
	return ix.cfg.minBlockSize
}

// Len returns the number of blocks created so far, including the root.
func (ix *Index[S]) Len() int {
	return len(ix.nodes)
}

// Root returns the root block.
func (ix *Index[S]) Root() Node[S] {
	return ix.node(0)
}

func (ix *Index[S]) node(id nodeID) Node[S] {
	return Node[S]{ix: ix, id: id, gen: ix.gen}
}

// Push links seg into the tree, starting at the root, and returns the block it
// has been linked to.
//
// Both endpoints of seg must lie within the bounds of the index; otherwise
// Push panics with ErrOutOfBounds.
func (ix *Index[S]) Push(seg S) Node[S] {
	return ix.Root().Push(seg)
}

// SegmentCount returns the number of segments in the index, selected by
// category.
func (ix *Index[S]) SegmentCount(real, mini bool) int {
	return ix.Root().SegmentCount(real, mini)
}

// BoundsOfLinkedSegments returns the extent of the endpoints of all segments
// currently linked into the tree. If there are none, the result is a cleared
// box.
func (ix *Index[S]) BoundsOfLinkedSegments() Box {
	box := ClearedBox()
	ix.Traverse(func(n Node[S]) VisitResult {
		for _, seg := range n.block().segs {
			from, to := seg.Endpoints()
			box = box.Extend(from).Extend(to)
		}
		return Continue
	})
	return box
}

// Traverse visits every block of the tree depth-first, children before their
// parent (lower child first). If visit returns Stop, traversal ends and
// Traverse returns Stop.
func (ix *Index[S]) Traverse(visit func(Node[S]) VisitResult) VisitResult {
	return ix.traverse(0, visit)
}

// Collect returns all segments linked into the tree, in traversal order.
// The tree is left unchanged.
func (ix *Index[S]) Collect() []S {
	segs := make([]S, 0, ix.SegmentCount(true, true))
	ix.Traverse(func(n Node[S]) VisitResult {
		segs = append(segs, n.block().segs...)
		return Continue
	})
	return segs
}

// Drain pops all segments from the tree, in traversal order. Afterwards every
// block is empty, but the blocks themselves remain.
func (ix *Index[S]) Drain() []S {
	segs := make([]S, 0, ix.SegmentCount(true, true))
	ix.Traverse(func(n Node[S]) VisitResult {
		for seg, ok := n.Pop(); ok; seg, ok = n.Pop() {
			segs = append(segs, seg)
		}
		return Continue
	})
	return segs
}

// --- Traversal -------------------------------------------------------------

// VisitResult tells Traverse whether to continue.
type VisitResult uint8

const (
	// Continue lets traversal proceed with the next block.
	Continue VisitResult = iota
	// Stop ends traversal.
	Stop
)

type frame struct {
	id       nodeID
	expanded bool
}

// traverse is an iterative post-order walk of the subtree at start.
// Blocks created by visit are not visited.
func (ix *Index[S]) traverse(start nodeID, visit func(Node[S]) VisitResult) VisitResult {
	if visit == nil {
		return Continue
	}
	stack := make([]frame, 1, 16)
	stack[0] = frame{id: start}
	for len(stack) > 0 {
		top := len(stack) - 1
		if !stack[top].expanded {
			stack[top].expanded = true
			children := ix.nodes[stack[top].id].children
			// upper child first, as the stack reverses the order
			for c := 1; c >= 0; c-- {
				if children[c] != noNode {
					stack = append(stack, frame{id: children[c]})
				}
			}
			continue
		}
		id := stack[top].id
		stack = stack[:top]
		if visit(ix.node(id)) == Stop {
			return Stop
		}
	}
	return Continue
}
