package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/npillmayer/superblocks"
	"golang.org/x/net/html"
)

// SVG draws the blocks and linked segments of an index as an SVG image.
// Minimal blocks are outlined in blue, other blocks in gray; real segments are
// drawn solid, mini segments dashed. The y-axis points upwards, as on a map.
func SVG[S superblocks.Segment](ix *superblocks.Index[S], w io.Writer) error {
	b := ix.Bounds()
	svg := element("svg",
		"xmlns", "http://www.w3.org/2000/svg",
		"viewBox", fmt.Sprintf("%d %d %d %d", b.X1, -b.Y2, max(b.Dx(), 1), max(b.Dy(), 1)),
	)
	blocks := element("g", "transform", "scale(1,-1)", "fill", "none", "stroke-width", "1")
	segs := element("g", "transform", "scale(1,-1)", "stroke-width", "2")
	svg.AppendChild(blocks)
	svg.AppendChild(segs)
	ix.Traverse(func(n superblocks.Node[S]) superblocks.VisitResult {
		r := n.Bounds()
		stroke := "#999999"
		if n.IsMinimal() {
			stroke = "#3366cc"
		}
		blocks.AppendChild(element("rect",
			"x", strconv.Itoa(r.X1), "y", strconv.Itoa(r.Y1),
			"width", strconv.Itoa(r.Dx()), "height", strconv.Itoa(r.Dy()),
			"stroke", stroke,
		))
		for _, seg := range n.Segments() {
			from, to := seg.Endpoints()
			line := element("line",
				"x1", ftoa(from.X), "y1", ftoa(from.Y),
				"x2", ftoa(to.X), "y2", ftoa(to.Y),
				"stroke", "black",
			)
			if seg.Category() == superblocks.Mini {
				line.Attr = append(line.Attr, html.Attribute{Key: "stroke-dasharray", Val: "4 2"})
			}
			segs.AppendChild(line)
		}
		return superblocks.Continue
	})
	if err := html.Render(w, svg); err != nil {
		T().Errorf("superblocks SVG: %s", err.Error())
		return err
	}
	return nil
}

// element creates an element node with attributes given as key/value pairs.
func element(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
