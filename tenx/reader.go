package tenx

import (
	"github.com/wjgreenleaf/BPCells/bytestore"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// Open reads a 10x Genomics feature-barcode matrix out of store and returns
// a features-by-barcodes matrix.Iter[uint32]. store must already be
// positioned at the group holding indptr/indices/data/barcodes and either a
// "features" group (modern CellRanger 3.0+ layout) or a "genes" dataset
// (legacy layout) — see OpenFile for how that group is chosen against an
// HDF5 file. Taking store directly, rather than a path, lets callers point
// this at any bytestore.Store, including an in-memory one built by a test.
//
// The 10x layout stores indices/indptr/data as signed HDF5 integers; this
// reads them through the same fixed-width unsigned array handles as every
// other bytestore consumer, which is exact for the non-negative index and
// count values 10x actually writes.
func Open(store bytestore.Store) (*matrix.MemIter[uint32], error) {
	featureNames, err := readFeatureNames(store)
	if err != nil {
		return nil, err
	}
	barcodes, err := store.ReadStringArray("barcodes")
	if err != nil {
		return nil, err
	}
	indptr, err := readU32(store, "indptr")
	if err != nil {
		return nil, err
	}
	indices, err := readU32(store, "indices")
	if err != nil {
		return nil, err
	}
	data, err := readU32(store, "data")
	if err != nil {
		return nil, err
	}

	colPtr := make([]int, len(indptr))
	for i, v := range indptr {
		colPtr[i] = int(v)
	}
	return matrix.NewMemIter(colPtr, indices, data, featureNames, barcodes), nil
}

// OpenFile opens a 10x Genomics HDF5 file at path and reads its
// feature-barcode matrix via Open. Modern CellRanger output (3.0+) nests
// the CSC arrays under a top-level "matrix" group; legacy (pre-3.0) files
// store them directly under a single per-genome group at the file root, so
// OpenFile falls back to the root group when "matrix" doesn't exist.
func OpenFile(path string) (*matrix.MemIter[uint32], error) {
	store, err := bytestore.OpenHDF5Read(path, "matrix")
	if err != nil {
		store, err = bytestore.OpenHDF5Read(path, "")
		if err != nil {
			return nil, err
		}
	}
	defer store.Close()
	return Open(store)
}

// readFeatureNames prefers the modern "features/name" dataset and falls
// back to the legacy "genes" dataset used before CellRanger 3.0's Feature
// Reference format.
func readFeatureNames(store bytestore.Store) ([]string, error) {
	if store.Has("features") {
		return store.ReadStringArray("features/name")
	}
	return store.ReadStringArray("genes")
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
