// Package intcodec implements the bit-packed delta codec from spec §4.2:
// chunk-aligned (B = 128 values) packing of non-decreasing or bounded-range
// uint32 streams, used to compress fragment coordinates, matrix row
// indices, and column pointers before they hit bytestore.
//
// The packing scheme generalizes the bit-level idiom the teacher uses in
// quantization.BinaryQuantizer (pack booleans into uint64 words via
// bits.OnesCount-friendly shifts) to an arbitrary per-chunk bit width
// computed from the chunk's own value range.
package intcodec
