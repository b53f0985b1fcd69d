// Package fragments implements the pull-based FragmentIter protocol (spec
// §4.3) and the FragmentStore unpacked/packed on-disk layouts (spec §4.4)
// over bytestore, grounded on the teacher's segment read/write pattern
// (persistence.BinaryIndexWriter/Reader) generalized from a single flat
// header to per-column chunked arrays, and on core.LocalID's convention of
// small dedicated identifier types (see genome.ChrID/CellID).
package fragments
