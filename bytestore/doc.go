// Package bytestore implements the abstract keyed store of typed 1-D
// arrays described in spec §4.1: named uint32/uint64/float32 arrays, named
// string arrays, and a free-form version attribute, addressed within a
// "group".
//
// One implementation is provided: Memory, for tests and small in-process
// pipelines. This package has no file-backed (HDF5) Store.
package bytestore
