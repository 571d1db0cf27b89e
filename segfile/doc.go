/*
Package segfile loads segments from plain text files, mainly as fixtures for
tests and for inspecting superblock trees with the blockview tool.

A segment file holds one segment per line:

	x1 y1 x2 y2 [real|mini]

Coordinates are decimal numbers. The category defaults to real. Empty lines and
lines starting with '#' are ignored.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package segfile

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'superblocks'
func tracer() tracing.Trace {
	return tracing.Select("superblocks")
}

var (
	// ErrSyntax signals a malformed line in a segment file.
	ErrSyntax = errors.New("segfile: syntax error")
	// ErrNotRegular signals that a path does not denote a regular file.
	ErrNotRegular = errors.New("segfile: not a regular file")
)
