package fragments

import (
	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/genome"
)

// Iter is the pull-based fragment iterator protocol (spec §4.3). A caller
// drives it by alternating NextChr and Load: NextChr advances to the next
// chromosome (fragments are grouped and consumed one chromosome at a time),
// and Load fills buf with up to buf.Cap() fragments from the current
// chromosome, returning how many it wrote. A Load returning 0 means the
// current chromosome is exhausted; NextChr must be called again.
//
// Implementations are single-pass unless Restartable reports true, and
// support random access to a chromosome/position only if Seekable reports
// true (spec §9: "seek is a capability, not a guarantee").
type Iter interface {
	// NextChr advances to the next chromosome with data, returning false
	// once the stream is exhausted.
	NextChr() (bool, error)

	// CurrentChr returns the chromosome id last returned by a successful
	// NextChr. Undefined before the first call to NextChr.
	CurrentChr() genome.ChrID

	// ChrName resolves a chromosome id to its name.
	ChrName(id genome.ChrID) (string, error)

	// CellName resolves a cell id to its name.
	CellName(id genome.CellID) (string, error)

	// ChrCount returns the total chromosome count, or genome.Unknown if
	// the source cannot report it before exhaustion.
	ChrCount() int

	// CellCount returns the total cell count, or genome.Unknown if the
	// source cannot report it before exhaustion.
	CellCount() int

	// Load fills buf (already reset by the caller or reused across calls)
	// with up to buf.Cap() fragments from the current chromosome and
	// returns how many were written.
	Load(buf *Buffer) (int, error)

	// Seekable reports whether Seek is supported.
	Seekable() bool
	// Seek repositions the iterator to the first fragment of chr with
	// start >= base. Returns ErrUnsupported if Seekable is false.
	Seek(chr genome.ChrID, base uint32) error

	// Restartable reports whether Restart is supported.
	Restartable() bool
	// Restart repositions the iterator before the first chromosome.
	// Returns ErrUnsupported if Restartable is false.
	Restart() error

	// Close releases any resources held by the iterator.
	Close() error
}

// Buffer holds one Load call's worth of fragments as three parallel slices.
// Callers allocate it once with NewBuffer and reuse it across Load calls;
// Load resets it before writing.
type Buffer struct {
	Start []uint32
	End   []uint32
	Cell  []uint32
}

// NewBuffer allocates a Buffer with room for capacity fragments.
func NewBuffer(capacity int) Buffer {
	return Buffer{
		Start: make([]uint32, 0, capacity),
		End:   make([]uint32, 0, capacity),
		Cell:  make([]uint32, 0, capacity),
	}
}

// Cap returns the buffer's fragment capacity.
func (b *Buffer) Cap() int { return cap(b.Start) }

// Len returns the number of fragments currently held.
func (b *Buffer) Len() int { return len(b.Start) }

// Reset empties the buffer while retaining its backing arrays.
func (b *Buffer) Reset() {
	b.Start = b.Start[:0]
	b.End = b.End[:0]
	b.Cell = b.Cell[:0]
}

// push appends one fragment, assuming len(b.Start) < cap(b.Start).
func (b *Buffer) push(start, end, cell uint32) {
	b.Start = append(b.Start, start)
	b.End = append(b.End, end)
	b.Cell = append(b.Cell, cell)
}

// Push appends one fragment. Callers (e.g. bedio's streaming reader) must
// ensure Len() < Cap() before calling.
func (b *Buffer) Push(start, end, cell uint32) { b.push(start, end, cell) }

// CellNames resolves the full cell vocabulary in id order, for consumers
// (peakmatrix, tilematrix) that index output rows by raw cell id directly
// and need every registered cell to get a row — including one with no
// counted overlap at all — rather than only cells actually touched by a
// fragment. it must have been fully drained (a false NextChr) so CellCount
// is resolved.
func CellNames(it Iter) ([]string, error) {
	n := it.CellCount()
	if n < 0 {
		return nil, &bpcells.ShapeError{Op: "CellNames", Detail: "cell count unresolved before exhaustion"}
	}
	names := make([]string, n)
	for i := range names {
		name, err := it.CellName(genome.CellID(i))
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}
