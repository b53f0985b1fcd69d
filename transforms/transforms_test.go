package transforms_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/matrix"
	"github.com/wjgreenleaf/BPCells/transforms"
)

func buildFloatMatrix(t *testing.T) *matrix.MemIter[float32] {
	t.Helper()
	entries := []matrix.Entry[float32]{
		{Row: 0, Col: 0, Val: 1},
		{Row: 1, Col: 0, Val: 2},
		{Row: 2, Col: 0, Val: 3},
		{Row: 0, Col: 1, Val: 4},
		{Row: 2, Col: 1, Val: 6},
	}
	it, err := matrix.BuildMemIter(entries, []string{"r0", "r1", "r2"}, []string{"c0", "c1"})
	require.NoError(t, err)
	return it
}

func drain[T matrix.Numeric](t *testing.T, it matrix.Iter[T]) [][]struct {
	Row uint32
	Val T
} {
	t.Helper()
	var out [][]struct {
		Row uint32
		Val T
	}
	buf := matrix.NewBuffer[T](64)
	for {
		ok, err := it.NextCol()
		require.NoError(t, err)
		if !ok {
			break
		}
		var col []struct {
			Row uint32
			Val T
		}
		for {
			n, err := it.Load(&buf)
			require.NoError(t, err)
			if n == 0 {
				break
			}
			for i := 0; i < n; i++ {
				col = append(col, struct {
					Row uint32
					Val T
				}{buf.Row[i], buf.Val[i]})
			}
		}
		out = append(out, col)
	}
	return out
}

func TestTypeConvertFloatToUint32(t *testing.T) {
	src := buildFloatMatrix(t)
	conv := transforms.NewTypeConvert[float32, uint32](src)
	cols := drain[uint32](t, conv)
	require.Equal(t, uint32(1), cols[0][0].Val)
	require.Equal(t, uint32(3), cols[0][2].Val)
}

func TestTypeConvertRejectsFractional(t *testing.T) {
	entries := []matrix.Entry[float32]{{Row: 0, Col: 0, Val: 1.5}}
	it, err := matrix.BuildMemIter(entries, []string{"r0"}, []string{"c0"})
	require.NoError(t, err)
	conv := transforms.NewTypeConvert[float32, uint32](it)

	ok, err := conv.NextCol()
	require.NoError(t, err)
	require.True(t, ok)
	buf := matrix.NewBuffer[uint32](4)
	_, err = conv.Load(&buf)
	require.Error(t, err)
}

func TestTypeConvertRoundTripUint32Float64Uint32(t *testing.T) {
	entries := []matrix.Entry[uint32]{
		{Row: 0, Col: 0, Val: 1},
		{Row: 1, Col: 0, Val: 2},
		{Row: 2, Col: 0, Val: 3},
	}
	src, err := matrix.BuildMemIter(entries, []string{"r0", "r1", "r2"}, []string{"c0"})
	require.NoError(t, err)

	toFloat := transforms.NewTypeConvert[uint32, float64](src)
	cols := drain[float64](t, toFloat)
	require.Equal(t, float64(1), cols[0][0].Val)
	require.Equal(t, float64(2), cols[0][1].Val)
	require.Equal(t, float64(3), cols[0][2].Val)

	backSrc, err := matrix.BuildMemIter([]matrix.Entry[float64]{
		{Row: 0, Col: 0, Val: 1},
		{Row: 1, Col: 0, Val: 2},
		{Row: 2, Col: 0, Val: 3},
	}, []string{"r0", "r1", "r2"}, []string{"c0"})
	require.NoError(t, err)
	toUint32 := transforms.NewTypeConvert[float64, uint32](backSrc)
	roundTripped := drain[uint32](t, toUint32)
	require.Equal(t, uint32(1), roundTripped[0][0].Val)
	require.Equal(t, uint32(2), roundTripped[0][1].Val)
	require.Equal(t, uint32(3), roundTripped[0][2].Val)
}

func TestTypeConvertRejectsFractionalFloat64(t *testing.T) {
	entries := []matrix.Entry[float64]{{Row: 0, Col: 0, Val: 1.5}}
	it, err := matrix.BuildMemIter(entries, []string{"r0"}, []string{"c0"})
	require.NoError(t, err)
	conv := transforms.NewTypeConvert[float64, uint64](it)

	ok, err := conv.NextCol()
	require.NoError(t, err)
	require.True(t, ok)
	buf := matrix.NewBuffer[uint64](4)
	_, err = conv.Load(&buf)
	require.Error(t, err)
}

func TestRowSelectRelabelsAndReordersRows(t *testing.T) {
	src := buildFloatMatrix(t)
	// select old row2 as new row0, drop row1 entirely, select old row0 as new row1.
	idx := []int{2, 0}
	rs := transforms.NewRowSelect[float32](src, idx)

	cols := drain[float32](t, rs)
	require.Len(t, cols[0], 2)
	require.Equal(t, uint32(0), cols[0][0].Row)
	require.Equal(t, float32(3), cols[0][0].Val) // old row2 -> new row0
	require.Equal(t, uint32(1), cols[0][1].Row)
	require.Equal(t, float32(1), cols[0][1].Val) // old row0 -> new row1
}

// TestRowSelectScenarioC replays spec §8 scenario C verbatim: a 6x5 matrix
// with M[i,j] = j + 5*i, RowSelect(M, [0,4,2]) selects rows 0, 4, 2 (in that
// order) into a 3-row output.
func TestRowSelectScenarioC(t *testing.T) {
	var entries []matrix.Entry[uint32]
	for j := uint32(0); j < 5; j++ {
		for i := uint32(0); i < 6; i++ {
			entries = append(entries, matrix.Entry[uint32]{Row: i, Col: j, Val: j + 5*i})
		}
	}
	rowNames := []string{"r0", "r1", "r2", "r3", "r4", "r5"}
	colNames := []string{"c0", "c1", "c2", "c3", "c4"}
	src, err := matrix.BuildMemIter(entries, rowNames, colNames)
	require.NoError(t, err)

	rs := transforms.NewRowSelect[uint32](src, []int{0, 4, 2})
	require.Equal(t, 3, rs.RowCount())

	name, err := rs.RowName(1)
	require.NoError(t, err)
	require.Equal(t, "r4", name)

	cols := drain[uint32](t, rs)
	require.Len(t, cols, 5)
	for j, col := range cols {
		require.Len(t, col, 3)
		require.Equal(t, uint32(j), col[0].Val)    // new row0 = old row0
		require.Equal(t, uint32(j)+20, col[1].Val) // new row1 = old row4
		require.Equal(t, uint32(j)+10, col[2].Val) // new row2 = old row2
	}
}

func TestColSelectRequiresSeekable(t *testing.T) {
	src := buildFloatMatrix(t)
	sel, err := transforms.NewColSelect[float32](src, []int{1, 0, 1})
	require.NoError(t, err)

	cols := drain[float32](t, sel)
	require.Len(t, cols, 3)
	name, err := sel.ColName(2)
	require.NoError(t, err)
	require.Equal(t, "c1", name)

	// RowSelect is not seekable, so ColSelect must refuse it.
	nonSeekable := transforms.NewRowSelect[float32](buildFloatMatrix(t), []int{0})
	_, err = transforms.NewColSelect[float32](nonSeekable, []int{0})
	require.ErrorIs(t, err, bpcells.ErrUnsupported)
}

func TestConcatColsValidatesShape(t *testing.T) {
	a, err := matrix.BuildMemIter([]matrix.Entry[float32]{{Row: 0, Col: 0, Val: 1}}, []string{"r0"}, []string{"c0"})
	require.NoError(t, err)
	b, err := matrix.BuildMemIter([]matrix.Entry[float32]{{Row: 0, Col: 0, Val: 2}, {Row: 1, Col: 0, Val: 3}}, []string{"r0", "r1"}, []string{"c0"})
	require.NoError(t, err)

	_, err = transforms.NewConcatCols[float32](a, b)
	require.Error(t, err)
}

func TestConcatRowsStacks(t *testing.T) {
	a, err := matrix.BuildMemIter([]matrix.Entry[float32]{{Row: 0, Col: 0, Val: 1}}, []string{"r0"}, []string{"c0"})
	require.NoError(t, err)
	b, err := matrix.BuildMemIter([]matrix.Entry[float32]{{Row: 0, Col: 0, Val: 2}}, []string{"r1"}, []string{"c0"})
	require.NoError(t, err)

	cr, err := transforms.NewConcatRows[float32](a, b)
	require.NoError(t, err)
	require.Equal(t, 2, cr.RowCount())

	cols := drain[float32](t, cr)
	require.Len(t, cols[0], 2)
	require.Equal(t, uint32(0), cols[0][0].Row)
	require.Equal(t, uint32(1), cols[0][1].Row)
}
