package transforms

import (
	"sort"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// RowSelect emits only the rows named by idx, in the order of idx (spec §8
// scenario C: RowSelect(M, [0,4,2]) on a 6-row matrix yields a 3-row matrix
// whose row 0 is the source's row 0, row 1 is the source's row 4, and row 2
// is the source's row 2). idx follows the same selection-list convention as
// ColSelect's cols: len(idx) is the output row count and values may repeat.
// It does not require a seekable source: it buffers the current column,
// selects and relabels each entry, and re-sorts by new row id before
// emitting.
type RowSelect[T matrix.Numeric] struct {
	src     matrix.Iter[T]
	idx     []int
	reverse map[int][]uint32 // old row -> new row ids selecting it

	srcBuf matrix.Buffer[T]
	colBuf []rowVal[T]
	colPos int
	curCol int
}

type rowVal[T matrix.Numeric] struct {
	row uint32
	val T
}

// NewRowSelect wraps src, exposing only the rows named by idx in that
// order.
func NewRowSelect[T matrix.Numeric](src matrix.Iter[T], idx []int) *RowSelect[T] {
	reverse := make(map[int][]uint32, len(idx))
	for newRow, oldRow := range idx {
		reverse[oldRow] = append(reverse[oldRow], uint32(newRow))
	}
	return &RowSelect[T]{src: src, idx: idx, reverse: reverse}
}

func (r *RowSelect[T]) NextCol() (bool, error) {
	ok, err := r.src.NextCol()
	if err != nil || !ok {
		return ok, err
	}
	r.curCol = r.src.CurrentCol()
	if err := r.bufferColumn(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RowSelect[T]) bufferColumn() error {
	if cap(r.srcBuf.Row) == 0 {
		r.srcBuf = matrix.NewBuffer[T](256)
	}
	r.colBuf = r.colBuf[:0]
	for {
		n, err := r.src.Load(&r.srcBuf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			oldRow := int(r.srcBuf.Row[i])
			for _, newRow := range r.reverse[oldRow] {
				r.colBuf = append(r.colBuf, rowVal[T]{row: newRow, val: r.srcBuf.Val[i]})
			}
		}
	}
	sort.Slice(r.colBuf, func(i, j int) bool { return r.colBuf[i].row < r.colBuf[j].row })
	r.colPos = 0
	return nil
}

func (r *RowSelect[T]) CurrentCol() int { return r.curCol }

func (r *RowSelect[T]) RowName(i int) (string, error) {
	if i < 0 || i >= len(r.idx) {
		return "", bpcells.ErrNotFound
	}
	return r.src.RowName(r.idx[i])
}

func (r *RowSelect[T]) ColName(j int) (string, error) { return r.src.ColName(j) }
func (r *RowSelect[T]) RowCount() int                 { return len(r.idx) }
func (r *RowSelect[T]) ColCount() int                 { return r.src.ColCount() }

func (r *RowSelect[T]) Load(buf *matrix.Buffer[T]) (int, error) {
	buf.Reset()
	n := 0
	for buf.Len() < buf.Cap() && r.colPos < len(r.colBuf) {
		e := r.colBuf[r.colPos]
		buf.Push(e.row, e.val)
		r.colPos++
		n++
	}
	return n, nil
}

func (r *RowSelect[T]) Seekable() bool    { return false }
func (r *RowSelect[T]) Seek(int) error    { return bpcells.ErrUnsupported }
func (r *RowSelect[T]) Restartable() bool { return r.src.Restartable() }

func (r *RowSelect[T]) Restart() error {
	if err := r.src.Restart(); err != nil {
		return err
	}
	r.colBuf = nil
	return nil
}

func (r *RowSelect[T]) Close() error { return r.src.Close() }
