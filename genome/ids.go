// Package genome holds the small dense-integer identifier types and the
// shared string-table abstraction spec §3 describes: "Chromosome and cell
// identifiers are dense small integers into string tables owned by the
// iterator." Kept separate from fragments/matrix so both can depend on it
// without importing each other.
package genome

// ChrID is a dense index into a chromosome name table.
type ChrID uint32

// CellID is a dense index into a cell (barcode) name table.
type CellID uint32

// Unknown is the sentinel spec §9 describes for counts not yet known:
// "chr_count() and cell_count() may return -1 until the stream is
// exhausted". Go has no unsigned -1, so counts are represented as int
// with Unknown standing in for the C-family "-1 until known" convention.
const Unknown = -1
