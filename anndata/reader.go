package anndata

import (
	"github.com/wjgreenleaf/BPCells/bytestore"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// csrEncoding/cscEncoding are the two sparse encodings AnnData's
// "encoding-type" (modern layout) or "h5sparse_format" (legacy layout)
// attribute names.
const (
	csrEncoding = "csr_matrix"
	cscEncoding = "csc_matrix"
)

// Open reads an AnnData file's "X" matrix out of x, using obs and var for
// the cell and gene name dataframes, and returns it as a
// matrix.Iter[float32]: genes-by-cells for csr_matrix input, cells-by-genes
// for csc_matrix input. Taking three bytestore.Store handles directly,
// rather than a path, lets callers point this at any backend, including
// in-memory stores built by a test.
//
// X is stored cells-by-genes on disk; which axis indptr is keyed by
// depends on the sparse encoding. Under csr_matrix, indptr is keyed by
// obs (cells) and indices holds var (gene) positions — exactly the CSC
// arrays of X's transpose, so Open exposes X as genes-by-cells by
// swapping the row and column name providers rather than rewriting any
// array. Under csc_matrix, indptr is already keyed by var and indices
// already holds obs positions, so no swap is applied: rows are cells (obs)
// and columns are genes (var), X's own orientation. Open reads the encoding attribute under
// both its modern ("encoding-type") and legacy ("h5sparse_format") names
// and defaults to csr_matrix (AnnData's historical default for sparse X)
// when neither is present.
func Open(x, obs, varStore bytestore.Store) (*matrix.MemIter[float32], error) {
	encoding, err := readEncoding(x)
	if err != nil {
		return nil, err
	}

	obsNames, err := obs.ReadStringArray("_index")
	if err != nil {
		return nil, err
	}
	varNames, err := varStore.ReadStringArray("_index")
	if err != nil {
		return nil, err
	}

	indptr, err := readU32(x, "indptr")
	if err != nil {
		return nil, err
	}
	indices, err := readU32(x, "indices")
	if err != nil {
		return nil, err
	}
	data, err := readF32(x, "data")
	if err != nil {
		return nil, err
	}

	colPtr := make([]int, len(indptr))
	for i, v := range indptr {
		colPtr[i] = int(v)
	}

	if encoding == cscEncoding {
		// indptr/indices are already keyed by var (genes): no swap.
		return matrix.NewMemIter(colPtr, indices, data, obsNames, varNames), nil
	}
	// csr_matrix: indptr/indices are keyed by obs (cells); as the
	// transpose's CSC, obs becomes columns and var becomes rows.
	return matrix.NewMemIter(colPtr, indices, data, varNames, obsNames), nil
}

// OpenFile opens an AnnData HDF5 file at path and reads its "X" matrix via
// Open, resolving the "obs" and "var" dataframe groups from the same file.
func OpenFile(path string) (*matrix.MemIter[float32], error) {
	x, err := bytestore.OpenHDF5Read(path, "X")
	if err != nil {
		return nil, err
	}
	defer x.Close()

	obs, err := bytestore.OpenHDF5Read(path, "obs")
	if err != nil {
		return nil, err
	}
	defer obs.Close()

	varStore, err := bytestore.OpenHDF5Read(path, "var")
	if err != nil {
		return nil, err
	}
	defer varStore.Close()

	return Open(x, obs, varStore)
}

// readEncoding reads X's sparse-matrix encoding attribute, checking the
// modern name first and falling back to the legacy one, defaulting to
// csr_matrix when neither attribute is present.
func readEncoding(store bytestore.Store) (string, error) {
	if v, ok, err := store.Attr("encoding-type"); err != nil {
		return "", err
	} else if ok {
		return v, nil
	}
	if v, ok, err := store.Attr("h5sparse_format"); err != nil {
		return "", err
	} else if ok {
		return v, nil
	}
	return csrEncoding, nil
}

func readU32(store bytestore.Store, name string) ([]uint32, error) {
	arr, err := store.OpenReadU32(name)
	if err != nil {
		return nil, err
	}
	defer arr.Close()
	out := make([]uint32, arr.Len())
	if _, err := arr.ReadAt(0, out); err != nil {
		return nil, err
	}
	return out, nil
}

func readF32(store bytestore.Store, name string) ([]float32, error) {
	arr, err := store.OpenReadF32(name)
	if err != nil {
		return nil, err
	}
	defer arr.Close()
	out := make([]float32, arr.Len())
	if _, err := arr.ReadAt(0, out); err != nil {
		return nil, err
	}
	return out, nil
}
