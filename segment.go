package superblocks

import "fmt"

// Category tells real segments from mini segments.
type Category uint8

const (
	// Real segments are derived from the linedefs of the map.
	Real Category = iota
	// Mini segments are synthesized by a BSP builder as a side-effect of
	// splitting a region.
	Mini
)

func (c Category) String() string {
	if c == Real {
		return "real"
	}
	return "mini"
}

// Segment is the interface an index requires from the segments it stores.
// Implementations are usually pointer types, acting as handles to segments
// owned by a BSP builder.
type Segment interface {
	Endpoints() (from, to Point)
	Category() Category
}

// Seg is a plain segment type, implementing Segment. Use *Seg as the handle
// type of an index.
type Seg struct {
	From, To Point
	Kind     Category
}

// NewSeg creates a segment from (x1,y1) to (x2,y2).
func NewSeg(x1, y1, x2, y2 float64, kind Category) *Seg {
	return &Seg{
		From: Point{X: x1, Y: y1},
		To:   Point{X: x2, Y: y2},
		Kind: kind,
	}
}

// Endpoints is part of interface Segment.
func (s *Seg) Endpoints() (Point, Point) {
	return s.From, s.To
}

// Category is part of interface Segment.
func (s *Seg) Category() Category {
	return s.Kind
}

func (s *Seg) String() string {
	return fmt.Sprintf("%s–%s/%s", s.From, s.To, s.Kind)
}
