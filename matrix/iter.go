package matrix

import "github.com/wjgreenleaf/BPCells"

// Numeric is the set of value types a matrix may carry in memory or
// through a transforms.TypeConvert. float64 is included per spec §8's
// MatrixConverter<u32→f64→u32> round trip, even though MatrixStore's
// on-disk arrays (spec §4.1) are typed over only {u32, u64, f32}: a
// float64-valued matrix persists by bit-reinterpreting each value into
// the existing u64 array (see matrix/store.go's writeVal/readVal), not by
// a fourth on-disk array type.
type Numeric interface {
	~uint32 | ~uint64 | ~float32 | ~float64
}

// Iter is the pull-based, column-major matrix iterator protocol (spec
// §4.5), the columnar analog of fragments.Iter: a caller alternates NextCol
// and Load, with Load filling a buffer of (row, value) pairs for the
// current column.
type Iter[T Numeric] interface {
	NextCol() (bool, error)
	CurrentCol() int
	RowName(i int) (string, error)
	ColName(j int) (string, error)
	RowCount() int
	ColCount() int
	Load(buf *Buffer[T]) (int, error)
	Seekable() bool
	Seek(col int) error
	Restartable() bool
	Restart() error
	Close() error
}

// Buffer holds one Load call's worth of (row, value) pairs for the current
// column. Row indices within a column must be strictly ascending (spec
// §4.5's sort invariant).
type Buffer[T Numeric] struct {
	Row []uint32
	Val []T
}

// NewBuffer allocates a Buffer with room for capacity entries.
func NewBuffer[T Numeric](capacity int) Buffer[T] {
	return Buffer[T]{Row: make([]uint32, 0, capacity), Val: make([]T, 0, capacity)}
}

func (b *Buffer[T]) Cap() int { return cap(b.Row) }
func (b *Buffer[T]) Len() int { return len(b.Row) }
func (b *Buffer[T]) Reset() {
	b.Row = b.Row[:0]
	b.Val = b.Val[:0]
}

// Push appends one (row, value) pair. Callers must ensure Len() < Cap().
func (b *Buffer[T]) Push(row uint32, val T) {
	b.Row = append(b.Row, row)
	b.Val = append(b.Val, val)
}

// SortGuard checks that row indices within a column are strictly
// ascending, resetting at every column boundary (spec §8 scenario, matrix
// analog of fragments.SortGuard).
type SortGuard struct {
	haveCol bool
	lastRow uint32
	haveRow bool
}

func (g *SortGuard) NextCol() {
	g.haveCol = true
	g.haveRow = false
}

func (g *SortGuard) Check(row uint32, index int) error {
	if g.haveRow && row <= g.lastRow {
		return &bpcells.SortError{Context: "matrix.row", Index: index, Previous: uint64(g.lastRow), Current: uint64(row)}
	}
	g.lastRow = row
	g.haveRow = true
	return nil
}
