package transforms

import (
	"fmt"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// ConcatCols concatenates matrices sharing the same row space column-wise
// (spec §4.7). Shape is validated once at construction time, raising a
// *bpcells.ShapeError immediately rather than failing partway through
// iteration.
type ConcatCols[T matrix.Numeric] struct {
	srcs       []matrix.Iter[T]
	colOffsets []int
	activeIdx  int
	pos        int
}

// NewConcatCols validates that every source has the same RowCount, then
// returns a matrix.Iter over their columns in source order.
func NewConcatCols[T matrix.Numeric](srcs ...matrix.Iter[T]) (*ConcatCols[T], error) {
	if len(srcs) == 0 {
		return nil, &bpcells.ShapeError{Op: "ConcatCols", Detail: "no sources"}
	}
	rowCount := srcs[0].RowCount()
	for i, s := range srcs[1:] {
		if s.RowCount() != rowCount {
			return nil, &bpcells.ShapeError{Op: "ConcatCols", Detail: fmt.Sprintf("source %d has %d rows, want %d", i+1, s.RowCount(), rowCount)}
		}
	}
	offsets := make([]int, len(srcs)+1)
	for i, s := range srcs {
		offsets[i+1] = offsets[i] + s.ColCount()
	}
	return &ConcatCols[T]{srcs: srcs, colOffsets: offsets, pos: -1}, nil
}

func (c *ConcatCols[T]) NextCol() (bool, error) {
	for c.activeIdx < len(c.srcs) {
		ok, err := c.srcs[c.activeIdx].NextCol()
		if err != nil {
			return false, err
		}
		if ok {
			c.pos++
			return true, nil
		}
		c.activeIdx++
	}
	return false, nil
}

func (c *ConcatCols[T]) CurrentCol() int               { return c.pos }
func (c *ConcatCols[T]) RowName(i int) (string, error) { return c.srcs[0].RowName(i) }

func (c *ConcatCols[T]) locate(j int) (int, int) {
	for i := 0; i < len(c.srcs); i++ {
		if j < c.colOffsets[i+1] {
			return i, j - c.colOffsets[i]
		}
	}
	return -1, 0
}

func (c *ConcatCols[T]) ColName(j int) (string, error) {
	idx, local := c.locate(j)
	if idx < 0 {
		return "", bpcells.ErrNotFound
	}
	return c.srcs[idx].ColName(local)
}

func (c *ConcatCols[T]) RowCount() int { return c.srcs[0].RowCount() }
func (c *ConcatCols[T]) ColCount() int { return c.colOffsets[len(c.colOffsets)-1] }

func (c *ConcatCols[T]) Load(buf *matrix.Buffer[T]) (int, error) {
	if c.activeIdx >= len(c.srcs) {
		buf.Reset()
		return 0, nil
	}
	return c.srcs[c.activeIdx].Load(buf)
}

func (c *ConcatCols[T]) Seekable() bool { return false }
func (c *ConcatCols[T]) Seek(int) error { return bpcells.ErrUnsupported }

func (c *ConcatCols[T]) Restartable() bool {
	for _, s := range c.srcs {
		if !s.Restartable() {
			return false
		}
	}
	return true
}

func (c *ConcatCols[T]) Restart() error {
	for _, s := range c.srcs {
		if err := s.Restart(); err != nil {
			return err
		}
	}
	c.activeIdx, c.pos = 0, -1
	return nil
}

func (c *ConcatCols[T]) Close() error { return closeAll(c.srcs) }

// ConcatRows concatenates matrices sharing the same column space row-wise
// (spec §4.7): every source is advanced in lock-step, and each source's
// rows are offset into a disjoint region of the combined row space.
type ConcatRows[T matrix.Numeric] struct {
	srcs       []matrix.Iter[T]
	rowOffsets []int
	pos        int
	activeIdx  int
}

// NewConcatRows validates that every source has the same ColCount, then
// returns a matrix.Iter over the stacked row space.
func NewConcatRows[T matrix.Numeric](srcs ...matrix.Iter[T]) (*ConcatRows[T], error) {
	if len(srcs) == 0 {
		return nil, &bpcells.ShapeError{Op: "ConcatRows", Detail: "no sources"}
	}
	colCount := srcs[0].ColCount()
	for i, s := range srcs[1:] {
		if s.ColCount() != colCount {
			return nil, &bpcells.ShapeError{Op: "ConcatRows", Detail: fmt.Sprintf("source %d has %d cols, want %d", i+1, s.ColCount(), colCount)}
		}
	}
	offsets := make([]int, len(srcs)+1)
	for i, s := range srcs {
		offsets[i+1] = offsets[i] + s.RowCount()
	}
	return &ConcatRows[T]{srcs: srcs, rowOffsets: offsets, pos: -1}, nil
}

func (c *ConcatRows[T]) NextCol() (bool, error) {
	for _, s := range c.srcs {
		ok, err := s.NextCol()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	c.pos++
	c.activeIdx = 0
	return true, nil
}

func (c *ConcatRows[T]) CurrentCol() int { return c.pos }

func (c *ConcatRows[T]) locate(i int) (int, int) {
	for s := 0; s < len(c.srcs); s++ {
		if i < c.rowOffsets[s+1] {
			return s, i - c.rowOffsets[s]
		}
	}
	return -1, 0
}

func (c *ConcatRows[T]) RowName(i int) (string, error) {
	idx, local := c.locate(i)
	if idx < 0 {
		return "", bpcells.ErrNotFound
	}
	return c.srcs[idx].RowName(local)
}

func (c *ConcatRows[T]) ColName(j int) (string, error) { return c.srcs[0].ColName(j) }
func (c *ConcatRows[T]) RowCount() int                 { return c.rowOffsets[len(c.rowOffsets)-1] }
func (c *ConcatRows[T]) ColCount() int                 { return c.srcs[0].ColCount() }

func (c *ConcatRows[T]) Load(buf *matrix.Buffer[T]) (int, error) {
	buf.Reset()
	for buf.Len() < buf.Cap() && c.activeIdx < len(c.srcs) {
		want := buf.Cap() - buf.Len()
		tmp := matrix.NewBuffer[T](want)
		n, err := c.srcs[c.activeIdx].Load(&tmp)
		if err != nil {
			return buf.Len(), err
		}
		if n == 0 {
			c.activeIdx++
			continue
		}
		offset := uint32(c.rowOffsets[c.activeIdx])
		for i := 0; i < n; i++ {
			buf.Push(tmp.Row[i]+offset, tmp.Val[i])
		}
	}
	return buf.Len(), nil
}

func (c *ConcatRows[T]) Seekable() bool { return false }
func (c *ConcatRows[T]) Seek(int) error { return bpcells.ErrUnsupported }

func (c *ConcatRows[T]) Restartable() bool {
	for _, s := range c.srcs {
		if !s.Restartable() {
			return false
		}
	}
	return true
}

func (c *ConcatRows[T]) Restart() error {
	for _, s := range c.srcs {
		if err := s.Restart(); err != nil {
			return err
		}
	}
	c.pos, c.activeIdx = -1, 0
	return nil
}

func (c *ConcatRows[T]) Close() error { return closeAll(c.srcs) }

func closeAll[T matrix.Numeric](srcs []matrix.Iter[T]) error {
	var firstErr error
	for _, s := range srcs {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
