package bedio

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/fragments"
	"github.com/wjgreenleaf/BPCells/genome"
)

// ReaderOption configures a Reader, following the teacher's functional
// options convention (mirrors WriterOption).
type ReaderOption func(*readerOptions)

type readerOptions struct {
	commentPrefixes []string
	interrupt       *bpcells.Interrupter
}

// defaultCommentPrefixes are skipped when no WithCommentPrefix option is
// given, preserving the reader's historical behavior.
var defaultCommentPrefixes = []string{"#", "track", "browser"}

// WithCommentPrefix adds prefix to the set of line prefixes readLine skips,
// replacing the built-in defaults ("#", "track", "browser") the first time
// it's given so callers can fully control which lines count as comments
// (spec §6, SPEC_FULL.md §10).
func WithCommentPrefix(prefix string) ReaderOption {
	return func(o *readerOptions) { o.commentPrefixes = append(o.commentPrefixes, prefix) }
}

// WithInterrupter polls ir every line read, so a caller can cancel a
// long-running read (spec §5).
func WithInterrupter(ir *bpcells.Interrupter) ReaderOption {
	return func(o *readerOptions) { o.interrupt = ir }
}

// Reader is a streaming, single-pass fragments.Iter over a fragment BED
// file. It does not support Seek or Restart: BED is a flat text stream,
// and the whole point of this reader is to avoid materializing it (spec
// §9: "the file reader is necessarily single-pass").
//
// Chromosome and cell names are interned in order of first appearance, so
// ChrCount and CellCount return genome.Unknown until the stream is fully
// drained (spec §9's "counts may be discovered late").
type Reader struct {
	name   string
	sc     *bufio.Scanner
	line   int
	closer io.Closer

	commentPrefixes []string
	interrupt       *bpcells.Interrupter

	chrNames  *genome.Builder
	cellNames *genome.Builder
	guard     fragments.SortGuard

	lookahead *validatedLine
	exhausted bool
	curChrID  genome.ChrID
}

type rawLine struct {
	chrName    string
	start, end uint32
	cellName   string
}

type validatedLine struct {
	chrID      genome.ChrID
	start, end uint32
	cellName   string
}

// Open opens path for reading, transparently gzip-decompressing it if its
// name ends in ".gz".
func Open(path string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = f
	var closer io.Closer = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r = gz
		closer = multiCloser{inner: gz, outer: f}
	}
	return NewReader(path, r, closer, opts...), nil
}

// NewReader wraps an already-open stream. closer may be nil if the caller
// owns r's lifecycle.
func NewReader(name string, r io.Reader, closer io.Closer, opts ...ReaderOption) *Reader {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}
	prefixes := o.commentPrefixes
	if len(prefixes) == 0 {
		prefixes = defaultCommentPrefixes
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4<<20)
	return &Reader{
		name:            name,
		sc:              sc,
		closer:          closer,
		commentPrefixes: prefixes,
		interrupt:       o.interrupt,
		chrNames:        genome.NewBuilder(),
		cellNames:       genome.NewBuilder(),
	}
}

func (r *Reader) isComment(text string) bool {
	if text == "" {
		return true
	}
	for _, p := range r.commentPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

func (r *Reader) readLine() (rawLine, bool, error) {
	for r.sc.Scan() {
		r.line++
		if err := r.interrupt.Tick(1); err != nil {
			return rawLine{}, false, err
		}
		text := r.sc.Text()
		if r.isComment(text) {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 4 {
			return rawLine{}, false, bpcells.NewParseError(r.name, r.line, "expected at least 4 tab-separated fields", nil)
		}
		start, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return rawLine{}, false, bpcells.NewParseError(r.name, r.line, "invalid start coordinate", err)
		}
		end, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return rawLine{}, false, bpcells.NewParseError(r.name, r.line, "invalid end coordinate", err)
		}
		if start >= end {
			return rawLine{}, false, bpcells.NewParseError(r.name, r.line, "start >= end", nil)
		}
		return rawLine{chrName: fields[0], start: uint32(start), end: uint32(end), cellName: fields[3]}, true, nil
	}
	if err := r.sc.Err(); err != nil {
		return rawLine{}, false, err
	}
	return rawLine{}, false, nil
}

// advance reads and validates the next line, interning its chromosome and
// checking the sort invariant. Cell names are interned lazily in Load, not
// here, so that a chromosome-boundary line peeked by NextChr doesn't
// consume a cell id before its fragment is actually delivered.
func (r *Reader) advance() (validatedLine, bool, error) {
	raw, ok, err := r.readLine()
	if err != nil || !ok {
		return validatedLine{}, ok, err
	}
	chrID := uint32(r.chrNames.Intern(raw.chrName))
	if err := r.guard.Check(chrID, raw.start); err != nil {
		return validatedLine{}, false, err
	}
	return validatedLine{chrID: genome.ChrID(chrID), start: raw.start, end: raw.end, cellName: raw.cellName}, true, nil
}

func (r *Reader) ensureLookahead() error {
	if r.lookahead != nil || r.exhausted {
		return nil
	}
	line, ok, err := r.advance()
	if err != nil {
		return err
	}
	if !ok {
		r.exhausted = true
		return nil
	}
	r.lookahead = &line
	return nil
}

func (r *Reader) NextChr() (bool, error) {
	if err := r.ensureLookahead(); err != nil {
		return false, err
	}
	if r.lookahead == nil {
		return false, nil
	}
	r.curChrID = r.lookahead.chrID
	return true, nil
}

func (r *Reader) CurrentChr() genome.ChrID { return r.curChrID }

func (r *Reader) ChrName(id genome.ChrID) (string, error) {
	name, ok := r.chrNames.Name(int(id))
	if !ok {
		return "", bpcells.ErrNotFound
	}
	return name, nil
}

func (r *Reader) CellName(id genome.CellID) (string, error) {
	name, ok := r.cellNames.Name(int(id))
	if !ok {
		return "", bpcells.ErrNotFound
	}
	return name, nil
}

func (r *Reader) ChrCount() int {
	if r.exhausted {
		return r.chrNames.Len()
	}
	return genome.Unknown
}

func (r *Reader) CellCount() int {
	if r.exhausted {
		return r.cellNames.Len()
	}
	return genome.Unknown
}

func (r *Reader) Load(buf *fragments.Buffer) (int, error) {
	buf.Reset()
	capacity := buf.Cap()
	for buf.Len() < capacity {
		if err := r.ensureLookahead(); err != nil {
			return buf.Len(), err
		}
		if r.lookahead == nil || r.lookahead.chrID != r.curChrID {
			break
		}
		cellID := uint32(r.cellNames.Intern(r.lookahead.cellName))
		buf.Push(r.lookahead.start, r.lookahead.end, cellID)
		r.lookahead = nil
	}
	return buf.Len(), nil
}

func (r *Reader) Seekable() bool                  { return false }
func (r *Reader) Seek(genome.ChrID, uint32) error { return bpcells.ErrUnsupported }
func (r *Reader) Restartable() bool               { return false }
func (r *Reader) Restart() error                  { return bpcells.ErrUnsupported }

func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

var _ fragments.Iter = (*Reader)(nil)
