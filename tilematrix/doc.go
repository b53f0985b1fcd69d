// Package tilematrix builds a cells-by-tiles count matrix.MemIter[uint32]
// from a fragments.Iter, tiling each caller-supplied region into contiguous,
// non-overlapping fixed-width windows (spec §4.9). Overlap counting uses
// the same additive endpoint-inside rule as package peakmatrix: a
// fragment's start and end-1 are each checked independently, so a
// fragment landing both endpoints in the same tile adds 2 to that tile's
// count. Tile membership is computed arithmetically ((x-start)/width)
// rather than searched, since tiles are contiguous and non-overlapping by
// construction.
package tilematrix
