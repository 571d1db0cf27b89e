/*
Package superblocks maintains a lazily built k-d tree of 2D line segments, as
used by BSP node builders to select partition candidates and to count segment
populations within sub-regions of a map.

Superblocks

A BSP builder repeatedly picks a partition line out of the segments of a region
and divides the region into two half-spaces. Evaluating a candidate means
looking at every other segment of the region, which gets expensive for large
maps. Superblocks cut this down: the region's rectangle is halved along its
longer axis again and again, and every segment is linked into the smallest
block which still contains both of its endpoints. A builder may then classify
whole blocks against a candidate line at once, using the aggregate segment
counts of a block instead of visiting its segments one by one.

Blocks are created on demand only. Pushing a segment creates exactly the
blocks on its descent path which did not exist before, so the tree's size is
proportional to the geometry actually present. Blocks with both dimensions at
or below MinBlockSize are never subdivided.

Every block counts the segments linked to it or to any block beneath it,
separately for real segments (taken from the map's linedefs) and mini segments
(created as a by-product of earlier splits). Counts are maintained
incrementally on every push and pop.

Ownership

An Index owns its blocks; they live in an arena and are addressed by Node
handles. Segments are not owned: the index stores whatever handle type the
client instantiates it with (usually a pointer), and the client has to keep the
segments alive for as long as the index references them.

An Index is not safe for concurrent use.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package superblocks

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// BlockError is an error type for the superblocks module.
type BlockError string

func (e BlockError) Error() string {
	return string(e)
}

// ErrOutOfBounds is raised (as a panic) whenever a segment is pushed into a
// block which does not contain both of its endpoints.
const ErrOutOfBounds = BlockError("segment outside of block bounds")

// ErrInvalidBounds is flagged whenever a rectangle is not usable as the bounds
// of an index.
const ErrInvalidBounds = BlockError("invalid bounds")

// ErrInvalidConfig is flagged for unusable index options.
const ErrInvalidConfig = BlockError("invalid index configuration")

// ErrInvariant is flagged by Check for a corrupted tree.
const ErrInvariant = BlockError("superblock invariant violated")

// ErrStaleNode is raised (as a panic) if a node handle is used after its
// index has been reset.
const ErrStaleNode = BlockError("node handle refers to a reset index")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
