package anndata_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wjgreenleaf/BPCells/anndata"
	"github.com/wjgreenleaf/BPCells/bytestore"
)

func writeCSC(t *testing.T, store *bytestore.Memory, indptr, indices []uint32, data []float32) {
	t.Helper()
	w32, err := store.CreateWriteU32("indptr", 0)
	require.NoError(t, err)
	require.NoError(t, w32.Append(indptr))
	require.NoError(t, w32.Finalize())

	w32, err = store.CreateWriteU32("indices", 0)
	require.NoError(t, err)
	require.NoError(t, w32.Append(indices))
	require.NoError(t, w32.Finalize())

	wf, err := store.CreateWriteF32("data", 0)
	require.NoError(t, err)
	require.NoError(t, wf.Append(data))
	require.NoError(t, wf.Finalize())
}

func newObsVar(t *testing.T, obsNames, varNames []string) (*bytestore.Memory, *bytestore.Memory) {
	t.Helper()
	obs := bytestore.NewMemory()
	require.NoError(t, obs.WriteStringArray("_index", obsNames))
	v := bytestore.NewMemory()
	require.NoError(t, v.WriteStringArray("_index", varNames))
	return obs, v
}

func TestOpenCscEncodingNoSwap(t *testing.T) {
	// csc_matrix: indptr is keyed by var (genes) and indices hold obs
	// (cell) positions, so with no swap rows are cells and columns are genes.
	x := bytestore.NewMemory()
	writeCSC(t, x,
		[]uint32{0, 1, 2},
		[]uint32{0, 1},
		[]float32{1.5, 2.5},
	)
	require.NoError(t, x.SetAttr("encoding-type", "csc_matrix"))
	obs, v := newObsVar(t, []string{"cell0", "cell1"}, []string{"gene0", "gene1"})

	m, err := anndata.Open(x, obs, v)
	require.NoError(t, err)
	require.Equal(t, 2, m.RowCount()) // cells
	require.Equal(t, 2, m.ColCount()) // genes

	name, err := m.RowName(0)
	require.NoError(t, err)
	require.Equal(t, "cell0", name)
	name, err = m.ColName(0)
	require.NoError(t, err)
	require.Equal(t, "gene0", name)
}

func TestOpenCsrEncodingSwapsAxes(t *testing.T) {
	// csr_matrix: indptr/indices are keyed by obs (cells); Open must expose
	// var as rows and obs as columns, without rewriting the arrays.
	x := bytestore.NewMemory()
	writeCSC(t, x,
		[]uint32{0, 1, 2},
		[]uint32{0, 1},
		[]float32{3.5, 4.5},
	)
	require.NoError(t, x.SetAttr("encoding-type", "csr_matrix"))
	obs, v := newObsVar(t, []string{"cell0", "cell1"}, []string{"gene0", "gene1"})

	m, err := anndata.Open(x, obs, v)
	require.NoError(t, err)
	require.Equal(t, 2, m.RowCount()) // genes
	require.Equal(t, 2, m.ColCount()) // cells

	name, err := m.RowName(0)
	require.NoError(t, err)
	require.Equal(t, "gene0", name)
	name, err = m.ColName(0)
	require.NoError(t, err)
	require.Equal(t, "cell0", name)
}

func TestOpenLegacyH5SparseFormatAttribute(t *testing.T) {
	x := bytestore.NewMemory()
	writeCSC(t, x,
		[]uint32{0, 1, 2},
		[]uint32{0, 1},
		[]float32{1, 2},
	)
	// legacy attribute name, no modern "encoding-type" set.
	require.NoError(t, x.SetAttr("h5sparse_format", "csc_matrix"))
	obs, v := newObsVar(t, []string{"cell0", "cell1"}, []string{"gene0", "gene1"})

	m, err := anndata.Open(x, obs, v)
	require.NoError(t, err)
	require.Equal(t, 2, m.RowCount())
}

func TestOpenDefaultsToCsrWhenEncodingAbsent(t *testing.T) {
	x := bytestore.NewMemory()
	writeCSC(t, x,
		[]uint32{0, 1, 2},
		[]uint32{0, 1},
		[]float32{1, 2},
	)
	obs, v := newObsVar(t, []string{"cell0", "cell1"}, []string{"gene0", "gene1"})

	m, err := anndata.Open(x, obs, v)
	require.NoError(t, err)
	// defaulting to csr_matrix means the axes are still swapped: rows are
	// var (genes), columns are obs (cells).
	name, err := m.RowName(0)
	require.NoError(t, err)
	require.Equal(t, "gene0", name)
}
