package superblocks

import (
	"fmt"
	"math"
)

// MinBlockSize is the side length (in map units) at or below which a block is
// never subdivided. A block is minimal if both its width and its height do not
// exceed this value.
const MinBlockSize = 256

// blockBits is log2 of the granularity used when rounding a bounding box up to
// superblock bounds (see BlockRect).
const blockBits = 7

// Axis denotes a coordinate axis along which a block is split.
type Axis uint8

const (
	// AxisX splits a block by a vertical line into a left and a right half.
	AxisX Axis = iota
	// AxisY splits a block by a horizontal line into a lower and an upper half.
	AxisY
)

// TieAxis is the split axis used for square blocks. Blocks which are wider
// than high split along AxisX, blocks which are higher than wide split along
// AxisY. Partition selection of BSP builders depends on the exact block
// layout, so this must stay fixed.
const TieAxis = AxisX

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// coord returns the coordinate of p along axis a.
func (a Axis) coord(p Point) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

// Point is a location on the map plane.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Rect is the integer rectangle covered by a block. X1/Y1 is the lower left
// corner, X2/Y2 the upper right one. Both edges belong to the rectangle.
type Rect struct {
	X1, Y1 int
	X2, Y2 int
}

// Dx returns the width of r.
func (r Rect) Dx() int {
	return r.X2 - r.X1
}

// Dy returns the height of r.
func (r Rect) Dy() int {
	return r.Y2 - r.Y1
}

// Valid reports whether r has non-negative extent on both axes.
func (r Rect) Valid() bool {
	return r.X2 >= r.X1 && r.Y2 >= r.Y1
}

// Contains reports whether p lies within r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= float64(r.X1) && p.X <= float64(r.X2) &&
		p.Y >= float64(r.Y1) && p.Y <= float64(r.Y2)
}

// minimal reports whether a block of size r is not to be subdivided.
func (r Rect) minimal(size int) bool {
	return r.Dx() <= size && r.Dy() <= size
}

// SplitAxis returns the axis a block covering r is split along.
func (r Rect) SplitAxis() Axis {
	w, h := r.Dx(), r.Dy()
	switch {
	case w > h:
		return AxisX
	case h > w:
		return AxisY
	}
	return TieAxis
}

// Mid returns the split coordinate of r on axis a. Coordinates at or above Mid
// belong to the upper half.
func (r Rect) Mid(a Axis) int {
	if a == AxisX {
		return (r.X1 + r.X2) >> 1
	}
	return (r.Y1 + r.Y2) >> 1
}

// Half returns the lower (upper == false) or upper half of r, split on axis a.
func (r Rect) Half(a Axis, upper bool) Rect {
	mid := r.Mid(a)
	h := r
	switch {
	case a == AxisX && upper:
		h.X1 = mid
	case a == AxisX:
		h.X2 = mid
	case upper:
		h.Y1 = mid
	default:
		h.Y2 = mid
	}
	return h
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d–%d,%d]", r.X1, r.Y1, r.X2, r.Y2)
}

// Box is the extent of a set of segment endpoints. A box which has not seen
// any point is cleared, i.e. its minimum is greater than its maximum.
type Box struct {
	Min, Max Point
}

// ClearedBox returns an empty box, ready to be extended.
func ClearedBox() Box {
	return Box{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty reports whether b is cleared.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend returns b grown to include p.
func (b Box) Extend(p Point) Box {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// BlockRect returns superblock bounds for b: anchored at the (floored) minimum
// of b, with width and height rounded up to a power-of-two multiple of 128
// units. The result always contains b.
//
// An empty box yields ErrInvalidBounds.
func (b Box) BlockRect() (Rect, error) {
	if b.IsEmpty() {
		return Rect{}, fmt.Errorf("%w: empty box", ErrInvalidBounds)
	}
	x1, y1 := int(math.Floor(b.Min.X)), int(math.Floor(b.Min.Y))
	x2, y2 := int(math.Ceil(b.Max.X)), int(math.Ceil(b.Max.Y))
	dx := (x2 - x1 + (1 << blockBits) - 1) >> blockBits
	dy := (y2 - y1 + (1 << blockBits) - 1) >> blockBits
	return Rect{
		X1: x1,
		Y1: y1,
		X2: x1 + roundPow2(dx)<<blockBits,
		Y2: y1 + roundPow2(dy)<<blockBits,
	}, nil
}

func (b Box) String() string {
	if b.IsEmpty() {
		return "[empty]"
	}
	return fmt.Sprintf("[%g,%g–%g,%g]", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// roundPow2 returns the smallest power of two >= x, and 1 for x < 1.
func roundPow2(x int) int {
	n := 1
	for n < x {
		n <<= 1
	}
	return n
}
