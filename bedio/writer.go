package bedio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/wjgreenleaf/BPCells/fragments"
	"github.com/wjgreenleaf/BPCells/genome"
	"github.com/wjgreenleaf/BPCells/intcodec"
)

// WriterOption configures a Writer, following the teacher's functional
// options convention.
type WriterOption func(*writerOptions)

type writerOptions struct {
	fifthColumn bool
}

// WithFifthColumn emits a trailing zero-valued 5th column on every line,
// matching the fragment file convention some downstream tools expect.
func WithFifthColumn() WriterOption {
	return func(o *writerOptions) { o.fifthColumn = true }
}

// Writer serializes a fragments.Iter to fragment BED text.
type Writer struct {
	w      *bufio.Writer
	closer io.Closer
	opts   writerOptions
}

// Create creates path for writing, transparently gzip-compressing it if its
// name ends in ".gz".
func Create(path string, opts ...WriterOption) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	var w io.Writer = f
	var closer io.Closer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		w = gz
		closer = multiCloser{inner: gz, outer: f}
	}
	return NewWriter(w, closer, opts...), nil
}

// NewWriter wraps an already-open stream. closer may be nil if the caller
// owns w's lifecycle.
func NewWriter(w io.Writer, closer io.Closer, opts ...WriterOption) *Writer {
	var o writerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer{w: bufio.NewWriter(w), closer: closer, opts: o}
}

// WriteFrom drains src to completion, writing one BED line per fragment,
// and returns the number of fragments written.
func (w *Writer) WriteFrom(src fragments.Iter) (int, error) {
	buf := fragments.NewBuffer(intcodec.ChunkSize)
	count := 0
	for {
		ok, err := src.NextChr()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}
		chrName, err := src.ChrName(src.CurrentChr())
		if err != nil {
			return count, err
		}
		for {
			n, err := src.Load(&buf)
			if err != nil {
				return count, err
			}
			if n == 0 {
				break
			}
			for i := 0; i < n; i++ {
				cellName, err := src.CellName(genome.CellID(buf.Cell[i]))
				if err != nil {
					return count, err
				}
				if w.opts.fifthColumn {
					fmt.Fprintf(w.w, "%s\t%d\t%d\t%s\t0\n", chrName, buf.Start[i], buf.End[i], cellName)
				} else {
					fmt.Fprintf(w.w, "%s\t%d\t%d\t%s\n", chrName, buf.Start[i], buf.End[i], cellName)
				}
				count++
			}
		}
	}
	return count, w.w.Flush()
}

// Close flushes and closes the underlying stream.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
