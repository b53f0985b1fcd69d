// Package anndata reads an AnnData/H5AD file's primary "X" sparse matrix
// as a matrix.Iter (spec §6, supplemented from original_source's
// external-format adapters). Read-only: this package never writes H5AD
// files.
package anndata
