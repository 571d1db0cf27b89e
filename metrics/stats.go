package metrics

import (
	"fmt"
	"strings"

	"github.com/npillmayer/superblocks"
)

// Stats summarizes the shape of a superblock tree.
type Stats struct {
	Blocks     int   // materialized blocks, including the root
	Minimal    int   // blocks too small to be subdivided
	Empty      int   // blocks with no segment at or below them
	MaxDepth   int   // depth of the deepest block
	Real       int   // real segments in the tree
	Mini       int   // mini segments in the tree
	Straddling int   // segments linked to blocks which are split
	PerDepth   []int // number of segments linked at each depth
}

// Collect gathers statistics for the subtree at n.
func Collect[S superblocks.Segment](n superblocks.Node[S]) Stats {
	st := Stats{
		Real: n.SegmentCount(true, false),
		Mini: n.SegmentCount(false, true),
	}
	base := n.Depth()
	n.Traverse(func(b superblocks.Node[S]) superblocks.VisitResult {
		st.Blocks++
		depth := b.Depth() - base
		st.MaxDepth = max(st.MaxDepth, depth)
		for len(st.PerDepth) <= depth {
			st.PerDepth = append(st.PerDepth, 0)
		}
		st.PerDepth[depth] += b.Len()
		if b.IsMinimal() {
			st.Minimal++
		} else {
			st.Straddling += b.Len()
		}
		if b.SegmentCount(true, true) == 0 {
			st.Empty++
		}
		return superblocks.Continue
	})
	tracer().Debugf("metrics: %d blocks, %d segments, max depth %d", st.Blocks, st.Real+st.Mini, st.MaxDepth)
	return st
}

// Segments returns the total number of segments.
func (st Stats) Segments() int {
	return st.Real + st.Mini
}

// LeafOccupancy returns the average number of segments linked to minimal
// blocks, or 0 if there are no minimal blocks.
func (st Stats) LeafOccupancy() float64 {
	if st.Minimal == 0 {
		return 0
	}
	return float64(st.Segments()-st.Straddling) / float64(st.Minimal)
}

func (st Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "blocks=%d (minimal=%d, empty=%d) depth=%d ", st.Blocks, st.Minimal, st.Empty, st.MaxDepth)
	fmt.Fprintf(&b, "segments=%d (real=%d, mini=%d, straddling=%d)", st.Segments(), st.Real, st.Mini, st.Straddling)
	return b.String()
}

// ---------------------------------------------------------------------------

// Balance tells how the segments below a block are distributed.
type Balance struct {
	Local int // segments linked to the block itself
	Lower int // segments at or below the lower child
	Upper int // segments at or below the upper child
}

// Balancing returns the distribution of segments selected by category below
// block n.
func Balancing[S superblocks.Segment](n superblocks.Node[S], real, mini bool) Balance {
	bal := Balance{}
	if c, ok := n.Child(0); ok {
		bal.Lower = c.SegmentCount(real, mini)
	}
	if c, ok := n.Child(1); ok {
		bal.Upper = c.SegmentCount(real, mini)
	}
	bal.Local = n.SegmentCount(real, mini) - bal.Lower - bal.Upper
	return bal
}

// Skew returns the difference between the larger and the smaller half,
// relative to all segments below the block. A block with no segments in its
// children has a skew of 0.
func (bal Balance) Skew() float64 {
	total := bal.Lower + bal.Upper
	if total == 0 {
		return 0
	}
	diff := bal.Lower - bal.Upper
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(total)
}
