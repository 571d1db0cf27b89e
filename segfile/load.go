package segfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/guiguan/caster"
	"github.com/npillmayer/superblocks"
)

// DefaultBatchSize is the number of segments per published batch if Open is
// called with a batch size <= 0.
const DefaultBatchSize = 256

// Batch is a message published to subscribers of a File while it is loading.
type Batch struct {
	Line     int                 // line number of the last segment in the batch
	Segments []*superblocks.Seg // segments parsed since the previous batch
}

// File is a segment file being loaded in the background.
type File struct {
	path      string
	file      *os.File
	cast      *caster.Caster // broadcaster for parsed batches
	batchSize int
	start     sync.Once
	done      chan struct{}
	segs      []*superblocks.Seg
	lastError error
}

// Open opens a segment file. Loading does not begin before Start is called,
// which gives clients the chance to subscribe to batches first.
func Open(name string, batchSize int) (*File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, name)
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &File{
		path:      name,
		file:      file,
		cast:      caster.New(nil), // we will broadcast messages when batches are parsed
		batchSize: batchSize,
		done:      make(chan struct{}),
	}, nil
}

// Subscribe returns a channel receiving a Batch for every chunk of segments
// parsed. Subscribers have to drain their channel, otherwise loading stalls.
// The channel is closed when loading has finished or ctx is done.
func (f *File) Subscribe(ctx context.Context) (<-chan interface{}, bool) {
	return f.cast.Sub(ctx, 16)
}

// Start begins loading in the background. Calling Start more than once has
// no effect.
func (f *File) Start() {
	f.start.Do(func() {
		go f.load()
	})
}

// Wait starts loading if necessary, waits for it to finish and returns all
// segments of the file, in file order.
func (f *File) Wait() ([]*superblocks.Seg, error) {
	f.Start()
	<-f.done
	return f.segs, f.lastError
}

func (f *File) load() {
	defer close(f.done)
	defer f.cast.Close()
	defer f.file.Close()
	var batch []*superblocks.Seg
	lineno := 0
	f.lastError = scan(f.file, func(seg *superblocks.Seg, line int) {
		f.segs = append(f.segs, seg)
		batch = append(batch, seg)
		lineno = line
		if len(batch) == f.batchSize {
			f.cast.Pub(Batch{Line: lineno, Segments: batch})
			batch = nil
		}
	})
	if len(batch) > 0 {
		f.cast.Pub(Batch{Line: lineno, Segments: batch})
	}
	if f.lastError != nil {
		tracer().Errorf("segfile: loading %s: %v", f.path, f.lastError)
		return
	}
	tracer().Debugf("segfile: loaded %d segments from %s", len(f.segs), f.path)
}

// Load reads a segment file synchronously.
func Load(name string) ([]*superblocks.Seg, error) {
	f, err := Open(name, 0)
	if err != nil {
		return nil, err
	}
	return f.Wait()
}

// Parse reads segments from r.
func Parse(r io.Reader) ([]*superblocks.Seg, error) {
	var segs []*superblocks.Seg
	err := scan(r, func(seg *superblocks.Seg, _ int) {
		segs = append(segs, seg)
	})
	return segs, err
}

func scan(r io.Reader, emit func(*superblocks.Seg, int)) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		seg, err := parseLine(text)
		if err != nil {
			return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, err.Error())
		}
		emit(seg, line)
	}
	return scanner.Err()
}

func parseLine(text string) (*superblocks.Seg, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 && len(fields) != 5 {
		return nil, fmt.Errorf("expected 4 coordinates and an optional category, have %d fields", len(fields))
	}
	var c [4]float64
	for i := range c {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q", fields[i])
		}
		c[i] = v
	}
	kind := superblocks.Real
	if len(fields) == 5 {
		switch fields[4] {
		case "real":
		case "mini":
			kind = superblocks.Mini
		default:
			return nil, fmt.Errorf("unknown category %q", fields[4])
		}
	}
	return superblocks.NewSeg(c[0], c[1], c[2], c[3], kind), nil
}
