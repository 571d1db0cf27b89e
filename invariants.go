package superblocks

import "fmt"

// Check validates structural invariants of the tree:
//
//   - children halve their parent's rectangle on the parent's split axis,
//   - minimal blocks have no children,
//   - parent links and depths match the tree structure,
//   - every linked segment is inside its block and belongs there,
//   - counts equal local segments plus the children's counts.
//
// Check walks the whole tree and is meant for tests and debugging.
func (ix *Index[S]) Check() error {
	if ix == nil {
		return fmt.Errorf("%w: nil index", ErrInvariant)
	}
	if len(ix.nodes) == 0 {
		return fmt.Errorf("%w: index has no root", ErrInvariant)
	}
	if ix.nodes[0].bounds != ix.bounds {
		return fmt.Errorf("%w: root bounds %s differ from index bounds %s",
			ErrInvariant, ix.nodes[0].bounds, ix.bounds)
	}
	if ix.nodes[0].parent != noNode {
		return fmt.Errorf("%w: root has a parent", ErrInvariant)
	}
	reached := make([]bool, len(ix.nodes))
	if _, _, err := ix.checkNode(0, reached); err != nil {
		return err
	}
	for id, ok := range reached {
		if !ok {
			return fmt.Errorf("%w: block #%d is not reachable from the root", ErrInvariant, id)
		}
	}
	return nil
}

func (ix *Index[S]) checkNode(id nodeID, reached []bool) (real, mini int, err error) {
	if reached[id] {
		return 0, 0, fmt.Errorf("%w: block #%d reached twice", ErrInvariant, id)
	}
	reached[id] = true
	b := &ix.nodes[id]
	minimal := b.bounds.minimal(ix.cfg.minBlockSize)
	for _, seg := range b.segs {
		if seg.Category() == Real {
			real++
		} else {
			mini++
		}
		if err := ix.checkLinked(id, seg); err != nil {
			return 0, 0, err
		}
	}
	axis := b.bounds.SplitAxis()
	for c, child := range b.children {
		if child == noNode {
			continue
		}
		if minimal {
			return 0, 0, fmt.Errorf("%w: minimal block #%d %s has children", ErrInvariant, id, b.bounds)
		}
		cb := &ix.nodes[child]
		if want := b.bounds.Half(axis, c == 1); cb.bounds != want {
			return 0, 0, fmt.Errorf("%w: child #%d of block #%d covers %s, expected %s",
				ErrInvariant, child, id, cb.bounds, want)
		}
		if cb.parent != id {
			return 0, 0, fmt.Errorf("%w: child #%d does not link back to #%d", ErrInvariant, child, id)
		}
		if cb.depth != b.depth+1 {
			return 0, 0, fmt.Errorf("%w: child #%d has depth %d, parent %d", ErrInvariant,
				child, cb.depth, b.depth)
		}
		r, m, err := ix.checkNode(child, reached)
		if err != nil {
			return 0, 0, err
		}
		real += r
		mini += m
	}
	if real != b.real || mini != b.mini {
		return 0, 0, fmt.Errorf("%w: block #%d counts real=%d/mini=%d, found %d/%d",
			ErrInvariant, id, b.real, b.mini, real, mini)
	}
	return real, mini, nil
}

// checkLinked verifies that seg is linked to the block Push would have chosen.
func (ix *Index[S]) checkLinked(id nodeID, seg S) error {
	b := &ix.nodes[id]
	from, to := seg.Endpoints()
	if !b.bounds.Contains(from) || !b.bounds.Contains(to) {
		return fmt.Errorf("%w: segment %v–%v outside of block #%d %s",
			ErrInvariant, from, to, id, b.bounds)
	}
	if b.bounds.minimal(ix.cfg.minBlockSize) {
		return nil
	}
	axis := b.bounds.SplitAxis()
	mid := float64(b.bounds.Mid(axis))
	if (axis.coord(from) >= mid) == (axis.coord(to) >= mid) {
		return fmt.Errorf("%w: segment %v–%v in block #%d does not cross the split line",
			ErrInvariant, from, to, id)
	}
	return nil
}
