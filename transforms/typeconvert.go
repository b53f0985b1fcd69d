package transforms

import (
	"fmt"
	"math"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// TypeConvert wraps a matrix.Iter[From], converting every value to To
// (spec §4.7). Conversions that would lose information silently (a
// fractional or negative float converted to an unsigned integer type) fail
// with a *bpcells.TypeError instead.
type TypeConvert[From, To matrix.Numeric] struct {
	src    matrix.Iter[From]
	srcBuf matrix.Buffer[From]
}

// NewTypeConvert wraps src, converting From values to To on Load.
func NewTypeConvert[From, To matrix.Numeric](src matrix.Iter[From]) *TypeConvert[From, To] {
	return &TypeConvert[From, To]{src: src}
}

func (t *TypeConvert[From, To]) NextCol() (bool, error)        { return t.src.NextCol() }
func (t *TypeConvert[From, To]) CurrentCol() int               { return t.src.CurrentCol() }
func (t *TypeConvert[From, To]) RowName(i int) (string, error) { return t.src.RowName(i) }
func (t *TypeConvert[From, To]) ColName(j int) (string, error) { return t.src.ColName(j) }
func (t *TypeConvert[From, To]) RowCount() int                 { return t.src.RowCount() }
func (t *TypeConvert[From, To]) ColCount() int                 { return t.src.ColCount() }
func (t *TypeConvert[From, To]) Seekable() bool                { return t.src.Seekable() }
func (t *TypeConvert[From, To]) Seek(col int) error            { return t.src.Seek(col) }
func (t *TypeConvert[From, To]) Restartable() bool             { return t.src.Restartable() }
func (t *TypeConvert[From, To]) Restart() error                { return t.src.Restart() }
func (t *TypeConvert[From, To]) Close() error                  { return t.src.Close() }

func (t *TypeConvert[From, To]) Load(buf *matrix.Buffer[To]) (int, error) {
	if cap(t.srcBuf.Row) != buf.Cap() {
		t.srcBuf = matrix.NewBuffer[From](buf.Cap())
	}
	n, err := t.src.Load(&t.srcBuf)
	if err != nil {
		return 0, err
	}
	buf.Reset()
	for i := 0; i < n; i++ {
		v, err := convertValue[From, To](t.srcBuf.Val[i])
		if err != nil {
			return 0, err
		}
		buf.Push(t.srcBuf.Row[i], v)
	}
	return n, nil
}

// convertValue converts v from From to To, rejecting a float value that
// cannot be represented exactly by an integral To.
func convertValue[From, To matrix.Numeric](v From) (To, error) {
	var out To
	fv, isFloat := floatValue(v)
	if isFloat {
		_, isU32 := any(out).(uint32)
		_, isU64 := any(out).(uint64)
		if isU32 || isU64 {
			if err := requireIntegral(fv); err != nil {
				return out, err
			}
		}
	}
	return To(v), nil
}

// floatValue reports whether v holds a float32 or float64, returning its
// value widened to float64 for a uniform integral check.
func floatValue[From matrix.Numeric](v From) (float64, bool) {
	if fv, ok := any(v).(float32); ok {
		return float64(fv), true
	}
	if fv, ok := any(v).(float64); ok {
		return fv, true
	}
	return 0, false
}

func requireIntegral(fv float64) error {
	if fv < 0 || fv != math.Trunc(fv) {
		return &bpcells.TypeError{Expected: "non-negative integral value", Actual: fmt.Sprintf("%v", fv)}
	}
	return nil
}

var _ matrix.Iter[uint32] = (*TypeConvert[float32, uint32])(nil)
