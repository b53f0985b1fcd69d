// Package bpcells provides shared types for a streaming toolkit for
// single-cell genomics: composable pull-based iterators over sorted genomic
// fragments and sparse count matrices, backed by columnar, chunked,
// optionally bit-packed on-disk storage.
//
// The toolkit is organized as a set of small packages rather than a single
// facade:
//
//   - bytestore: the keyed typed-array storage abstraction (an in-memory
//     implementation; no file-backed one).
//   - intcodec: the chunked bit-packed delta codec for sorted uint32 streams.
//   - fragments: the FragmentIter pull protocol plus FragmentStore
//     read/write over bytestore.
//   - bedio: a gzip-transparent BED file reader/writer.
//   - matrix: the MatrixIter pull protocol plus MatrixStore (CSC) over
//     bytestore.
//   - transforms: streaming MatrixIter combinators (select, concat,
//     type-convert).
//   - peakmatrix, tilematrix: fragment-to-matrix aggregation engines.
//   - tenx, anndata: read-only adapters for two common HDF5 matrix layouts.
//
// This root package holds only the error kinds and small cross-cutting
// types (interrupt hooks, logging) shared by every other package, to avoid
// import cycles between them.
package bpcells
