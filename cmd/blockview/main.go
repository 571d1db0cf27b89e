/*
Command blockview loads a segment file, builds a superblock index for it and
prints the resulting tree together with some statistics.

Usage:

	blockview [flags] file.segs

Flags:

	-min n      minimal block size (default 256)
	-depth n    print the tree down to depth n only
	-dot file   write the tree as a Graphviz DOT graph
	-svg file   draw blocks and segments as SVG
	-v          trace at debug level

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/superblocks"
	"github.com/npillmayer/superblocks/formatter"
	"github.com/npillmayer/superblocks/metrics"
	"github.com/npillmayer/superblocks/segfile"
)

func main() {
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "blockview: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	minSize int
	depth   int
	dotFile string
	svgFile string
	verbose bool
	input   string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("blockview", flag.ContinueOnError)
	fs.IntVar(&opts.minSize, "min", superblocks.MinBlockSize, "minimal block size")
	fs.IntVar(&opts.depth, "depth", 0, "print tree down to this depth (0 = all)")
	fs.StringVar(&opts.dotFile, "dot", "", "write tree as DOT graph to `file`")
	fs.StringVar(&opts.svgFile, "svg", "", "write SVG drawing to `file`")
	fs.BoolVar(&opts.verbose, "v", false, "trace at debug level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one segment file, have %d arguments", fs.NArg())
	}
	opts.input = fs.Arg(0)
	return opts, nil
}

func run(args []string, w io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.verbose {
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	}
	segs, err := segfile.Load(opts.input)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return fmt.Errorf("no segments in %s", opts.input)
	}
	ix, err := buildIndex(segs, opts.minSize)
	if err != nil {
		return err
	}
	if err = ix.Check(); err != nil {
		return err
	}
	config := formatter.ConfigFromTerminal()
	config.MaxDepth = opts.depth
	if err = formatter.Output(formatter.NewConsoleTree(nil), ix.Root(), w, config); err != nil {
		return err
	}
	st := metrics.Collect(ix.Root())
	bal := metrics.Balancing(ix.Root(), true, true)
	fmt.Fprintf(w, "%d segments loaded from %s\n", len(segs), opts.input)
	fmt.Fprintf(w, "%s\n", st)
	fmt.Fprintf(w, "root balance: local=%d lower=%d upper=%d skew=%.2f\n",
		bal.Local, bal.Lower, bal.Upper, bal.Skew())
	if opts.dotFile != "" {
		if err = writeFile(opts.dotFile, func(f io.Writer) error {
			return formatter.Index2Dot(ix, f)
		}); err != nil {
			return err
		}
	}
	if opts.svgFile != "" {
		if err = writeFile(opts.svgFile, func(f io.Writer) error {
			return formatter.SVG(ix, f)
		}); err != nil {
			return err
		}
	}
	return nil
}

func buildIndex(segs []*superblocks.Seg, minSize int) (*superblocks.Index[*superblocks.Seg], error) {
	box := superblocks.ClearedBox()
	for _, s := range segs {
		box = box.Extend(s.From).Extend(s.To)
	}
	ix, err := superblocks.NewForBox[*superblocks.Seg](box, superblocks.WithMinBlockSize(minSize))
	if err != nil {
		return nil, err
	}
	for _, s := range segs {
		ix.Push(s)
	}
	return ix, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
