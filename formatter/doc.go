/*
Package formatter renders superblock indices for debugging: as Graphviz DOT
graphs, as SVG drawings of blocks and segments, and as colored trees on a
console.

None of the formats is meant to be parsed back; they are for humans looking at
how an index subdivided a map.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package formatter

import (
	"github.com/npillmayer/schuko/tracing"
)

// T traces to the superblocks tracer.
func T() tracing.Trace {
	return tracing.Select("superblocks")
}
