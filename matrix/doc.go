// Package matrix implements the pull-based MatrixIter protocol (spec
// §4.5) over compressed-sparse-column data, and the MatrixStore on-disk
// layout (spec §4.6). It mirrors package fragments' structure (Iter
// protocol, MemIter fixture/decode target, Store read/write) but is
// generic over the stored value type (spec §4.1's u32/u64/f32 dtypes),
// grounded on the teacher's quantization package's habit of parameterizing
// codec code by element type.
package matrix
