package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/npillmayer/superblocks"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

// Role classifies blocks for coloring.
type Role int

const (
	// EmptyBlock is a block with no segments at or below it.
	EmptyBlock Role = iota
	// InnerBlock is a block which is split and has no segments linked to itself.
	InnerBlock
	// StraddledBlock is a split block with segments crossing its split line.
	StraddledBlock
	// MinimalBlock is a block too small to be split.
	MinimalBlock
)

// ConsoleTree prints the blocks of an index as an indented tree, one line per
// block, to a console with a fixed width font.
type ConsoleTree struct {
	colors map[Role]*color.Color
}

var setupGraphemes sync.Once

// NewConsoleTree creates a console printer. colors maps block roles to
// colors; it may contain a subset of the roles or be nil for a default palette.
func NewConsoleTree(colors map[Role]*color.Color) *ConsoleTree {
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	ct := &ConsoleTree{colors: colors}
	if colors == nil {
		ct.colors = makeDefaultPalette()
	}
	return ct
}

func makeDefaultPalette() map[Role]*color.Color {
	return map[Role]*color.Color{
		EmptyBlock:     color.New(color.Faint),
		StraddledBlock: color.New(color.FgRed),
		MinimalBlock:   color.New(color.FgBlue),
	}
}

// Print outputs the tree of an index to stdout. If config is nil, it is
// derived from the terminal.
func Print[S superblocks.Segment](ct *ConsoleTree, ix *superblocks.Index[S], config *Config) error {
	if config == nil {
		config = ConfigFromTerminal()
	}
	return Output(ct, ix.Root(), os.Stdout, config)
}

// Output writes the subtree at n to w, pre-order, children indented below
// their parent.
func Output[S superblocks.Segment](ct *ConsoleTree, n superblocks.Node[S], w io.Writer, config *Config) error {
	config = config.normalized()
	var err error
	var walk func(n superblocks.Node[S], level int)
	walk = func(n superblocks.Node[S], level int) {
		if err != nil || (config.MaxDepth > 0 && level > config.MaxDepth) {
			return
		}
		line := fit(strings.Repeat("  ", level)+blockLabel(n), config)
		if c, ok := ct.colors[roleOf(n)]; ok {
			_, err = c.Fprintln(w, line)
		} else {
			_, err = fmt.Fprintln(w, line)
		}
		for i := 0; i < 2; i++ {
			if child, ok := n.Child(i); ok {
				walk(child, level+1)
			}
		}
	}
	walk(n, 0)
	return err
}

func roleOf[S superblocks.Segment](n superblocks.Node[S]) Role {
	switch {
	case n.SegmentCount(true, true) == 0:
		return EmptyBlock
	case n.IsMinimal():
		return MinimalBlock
	case n.Len() > 0:
		return StraddledBlock
	}
	return InnerBlock
}

func blockLabel[S superblocks.Segment](n superblocks.Node[S]) string {
	split := "min"
	if axis, mid, ok := n.SplitAxis(); ok {
		split = fmt.Sprintf("%s@%d", axis, mid)
	}
	return fmt.Sprintf("#%d %s %s real=%d mini=%d local=%d", n.ID(), n.Bounds(), split,
		n.SegmentCount(true, false), n.SegmentCount(false, true), n.Len())
}

// fit truncates line to the configured line width, marking truncation with
// an ellipsis.
func fit(line string, config *Config) string {
	width := uax11.StringWidth(grapheme.StringFromString(line), config.Context)
	if width <= config.LineWidth {
		return line
	}
	runes := []rune(line)
	cut := len(runes) - (width - config.LineWidth) - 1
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + "…"
}
