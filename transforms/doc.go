// Package transforms implements the composable MatrixIter transforms from
// spec §4.7: TypeConvert, ColSelect, RowSelect, ConcatRows and ConcatCols.
// Each transform wraps one or more matrix.Iter[T] sources and is itself a
// matrix.Iter, so they compose freely, mirroring the teacher's habit of
// building small composable wrappers (see blobstore.CachingStore wrapping
// a Store) rather than one monolithic pipeline type.
package transforms
