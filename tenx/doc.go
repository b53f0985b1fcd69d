// Package tenx reads 10x Genomics CellRanger feature-barcode matrix HDF5
// files as a matrix.Iter (spec §6, supplemented from original_source's
// external-format adapters). Read-only: this package never writes 10x
// files.
package tenx
