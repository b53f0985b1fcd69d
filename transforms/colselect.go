package transforms

import "github.com/wjgreenleaf/BPCells"
import "github.com/wjgreenleaf/BPCells/matrix"

// ColSelect reorders and/or subsets columns of src according to cols
// (values may repeat, spec §8 scenario D). It requires a seekable source
// (spec §4.7): each selected column is reached by Seek rather than a
// linear scan.
type ColSelect[T matrix.Numeric] struct {
	src  matrix.Iter[T]
	cols []int
	pos  int
}

// NewColSelect wraps src, exposing only the columns named by cols in that
// order. Returns bpcells.ErrUnsupported if src is not seekable.
func NewColSelect[T matrix.Numeric](src matrix.Iter[T], cols []int) (*ColSelect[T], error) {
	if !src.Seekable() {
		return nil, bpcells.ErrUnsupported
	}
	return &ColSelect[T]{src: src, cols: cols, pos: -1}, nil
}

func (c *ColSelect[T]) NextCol() (bool, error) {
	c.pos++
	if c.pos >= len(c.cols) {
		return false, nil
	}
	if err := c.src.Seek(c.cols[c.pos]); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ColSelect[T]) CurrentCol() int               { return c.pos }
func (c *ColSelect[T]) RowName(i int) (string, error) { return c.src.RowName(i) }

func (c *ColSelect[T]) ColName(j int) (string, error) {
	if j < 0 || j >= len(c.cols) {
		return "", bpcells.ErrNotFound
	}
	return c.src.ColName(c.cols[j])
}

func (c *ColSelect[T]) RowCount() int { return c.src.RowCount() }
func (c *ColSelect[T]) ColCount() int { return len(c.cols) }

func (c *ColSelect[T]) Load(buf *matrix.Buffer[T]) (int, error) { return c.src.Load(buf) }

func (c *ColSelect[T]) Seekable() bool { return true }

func (c *ColSelect[T]) Seek(col int) error {
	if col < 0 || col >= len(c.cols) {
		return bpcells.ErrNotFound
	}
	c.pos = col
	return c.src.Seek(c.cols[col])
}

func (c *ColSelect[T]) Restartable() bool { return true }
func (c *ColSelect[T]) Restart() error    { c.pos = -1; return nil }
func (c *ColSelect[T]) Close() error      { return c.src.Close() }
