package matrix

import (
	"github.com/wjgreenleaf/BPCells"
)

// Entry is one (row, col, value) triple, used only to build a MemIter from
// a flat list.
type Entry[T Numeric] struct {
	Row, Col uint32
	Val      T
}

// MemIter is a fully materialized, seekable, restartable Iter over CSC
// arrays. MatrixStore's readers decode onto exactly this shape.
type MemIter[T Numeric] struct {
	colPtr   []int // length colCount+1
	row      []uint32
	val      []T
	rowNames []string
	colNames []string

	pos     int // current column index, -1 before the first NextCol
	loadPos int
}

// NewMemIter builds a MemIter directly from pre-grouped CSC arrays.
func NewMemIter[T Numeric](colPtr []int, row []uint32, val []T, rowNames, colNames []string) *MemIter[T] {
	return &MemIter[T]{colPtr: colPtr, row: row, val: val, rowNames: rowNames, colNames: colNames, pos: -1}
}

// BuildMemIter groups entries by column (entries must already be sorted by
// (Col, Row), spec §3's matrix ordering invariant) and returns a MemIter,
// or a *bpcells.SortError if the ordering is violated.
func BuildMemIter[T Numeric](entries []Entry[T], rowNames, colNames []string) (*MemIter[T], error) {
	numCol := len(colNames)
	colPtr := make([]int, numCol+1)
	var guard SortGuard
	var lastCol int32 = -1
	for _, e := range entries {
		if int32(e.Col) != lastCol {
			if int32(e.Col) < lastCol {
				return nil, &bpcells.SortError{Context: "matrix.col", Previous: uint64(lastCol), Current: uint64(e.Col)}
			}
			lastCol = int32(e.Col)
			guard.NextCol()
		}
		if err := guard.Check(e.Row, 0); err != nil {
			return nil, err
		}
		colPtr[e.Col+1]++
	}
	for c := 0; c < numCol; c++ {
		colPtr[c+1] += colPtr[c]
	}
	row := make([]uint32, len(entries))
	val := make([]T, len(entries))
	cursor := append([]int(nil), colPtr[:numCol]...)
	for _, e := range entries {
		i := cursor[e.Col]
		row[i], val[i] = e.Row, e.Val
		cursor[e.Col]++
	}
	return NewMemIter(colPtr, row, val, rowNames, colNames), nil
}

func (m *MemIter[T]) NextCol() (bool, error) {
	m.pos++
	m.loadPos = 0
	return m.pos < len(m.colPtr)-1, nil
}

func (m *MemIter[T]) CurrentCol() int { return m.pos }

func (m *MemIter[T]) RowName(i int) (string, error) {
	if i < 0 || i >= len(m.rowNames) {
		return "", bpcells.ErrNotFound
	}
	return m.rowNames[i], nil
}

func (m *MemIter[T]) ColName(j int) (string, error) {
	if j < 0 || j >= len(m.colNames) {
		return "", bpcells.ErrNotFound
	}
	return m.colNames[j], nil
}

func (m *MemIter[T]) RowCount() int { return len(m.rowNames) }
func (m *MemIter[T]) ColCount() int { return len(m.colNames) }

func (m *MemIter[T]) Load(buf *Buffer[T]) (int, error) {
	buf.Reset()
	if m.pos < 0 || m.pos >= len(m.colPtr)-1 {
		return 0, nil
	}
	lo, hi := m.colPtr[m.pos], m.colPtr[m.pos+1]
	from := lo + m.loadPos
	remaining := hi - from
	if remaining <= 0 {
		return 0, nil
	}
	n := buf.Cap()
	if n > remaining || n == 0 {
		n = remaining
	}
	for i := 0; i < n; i++ {
		buf.Push(m.row[from+i], m.val[from+i])
	}
	m.loadPos += n
	return n, nil
}

func (m *MemIter[T]) Seekable() bool { return true }

func (m *MemIter[T]) Seek(col int) error {
	if col < 0 || col >= len(m.colPtr)-1 {
		return bpcells.ErrNotFound
	}
	m.pos = col
	m.loadPos = 0
	return nil
}

func (m *MemIter[T]) Restartable() bool { return true }

func (m *MemIter[T]) Restart() error {
	m.pos = -1
	m.loadPos = 0
	return nil
}

func (m *MemIter[T]) Close() error { return nil }

// Dense materializes the matrix as a row-major dense [][]T, for use in
// small-fixture test comparisons (spec §8's testable properties).
func (m *MemIter[T]) Dense() [][]T {
	out := make([][]T, len(m.rowNames))
	for i := range out {
		out[i] = make([]T, len(m.colNames))
	}
	for c := 0; c < len(m.colPtr)-1; c++ {
		lo, hi := m.colPtr[c], m.colPtr[c+1]
		for i := lo; i < hi; i++ {
			out[m.row[i]][c] = m.val[i]
		}
	}
	return out
}
