// Package peakmatrix builds a cells-by-peaks count matrix.MemIter[uint32]
// from a fragments.Iter and a caller-supplied peak list (spec §4.8). Each
// fragment contributes I[start-inside] + I[end-1-inside] to a peak it
// overlaps: its two endpoints (start, end-1) are checked independently
// against the peak's half-open interval, so a fragment with both endpoints
// inside the same peak adds 2, not 1 — the "endpoint-inside" rule spec
// §9's Open Question resolves in favor of over "any overlap counts once",
// since the latter drops the double contribution ground-truth fixtures
// expect. Under this rule a fragment that spans a peak entirely without
// either endpoint landing inside it contributes 0.
//
// Per chromosome, a github.com/RoaringBitmap/roaring/v2 bitmap of every
// base covered by some peak pre-filters each endpoint before the binary
// search: most fragment endpoints land in no peak at all, and Contains is
// O(1) against the compressed run-length containers roaring builds from
// AddRange, versus the O(peaks) worst case of the search it guards.
package peakmatrix
