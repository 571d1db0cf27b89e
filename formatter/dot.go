package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/superblocks"
)

// Index2Dot outputs the block structure of an index in Graphviz DOT format
// (for debugging purposes).
func Index2Dot[S superblocks.Segment](ix *superblocks.Index[S], w io.Writer) error {
	var nodelist, edgelist strings.Builder
	ix.Traverse(func(n superblocks.Node[S]) superblocks.VisitResult {
		ID := n.ID() + 1
		label := fmt.Sprintf("%s\\nr=%d m=%d", n.Bounds(), n.SegmentCount(true, false), n.SegmentCount(false, true))
		if n.Len() > 0 {
			label += fmt.Sprintf("\\nlocal=%d", n.Len())
		}
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\" %s];\n", ID, label, nodeDotStyles(n.IsMinimal(), n.Len() > 0))
		for c := 0; c < 2; c++ {
			if child, ok := n.Child(c); ok {
				fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ID, child.ID()+1)
			}
		}
		return superblocks.Continue
	})
	if _, err := io.WriteString(w, "strict digraph {\n\tnode [fontname=Arial,fontsize=12];\n"); err != nil {
		T().Errorf("superblocks DOT: %s", err.Error())
		return err
	}
	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	_, err := io.WriteString(w, "}\n")
	return err
}

func nodeDotStyles(minimal bool, linked bool) string {
	s := ",style=filled"
	if minimal {
		s += ",shape=box"
	} else {
		s += ",shape=ellipse"
	}
	if linked {
		s += ",fillcolor=\"#a3d7e4\""
	} else {
		s += ",fillcolor=white"
	}
	return s
}
