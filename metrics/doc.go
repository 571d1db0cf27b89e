/*
Package metrics provides statistics on superblock indices.

Statistics are gathered by traversing an index, without changing it. They help
to judge the shape of a tree built for a map: how deep it got, how many blocks
have been materialized, and how segments spread over minimal blocks versus
blocks they straddle.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package metrics

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'superblocks'
func tracer() tracing.Trace {
	return tracing.Select("superblocks")
}
