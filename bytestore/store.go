package bytestore

import (
	"github.com/wjgreenleaf/BPCells"
)

// DType identifies the element type of a stored array (spec §4.1: arrays
// are typed over {u32, u64, f32}).
type DType uint8

const (
	DTypeU32 DType = iota
	DTypeU64
	DTypeF32
)

func (d DType) String() string {
	switch d {
	case DTypeU32:
		return "u32"
	case DTypeU64:
		return "u64"
	case DTypeF32:
		return "f32"
	default:
		return "unknown"
	}
}

// DefaultWriteBufferSize is the default in-memory buffer writers accumulate
// before flushing to the backing medium (spec §4.1).
const DefaultWriteBufferSize = 1 << 20 // 1 MiB

// DefaultReadBufferSize is the default buffer readers use (spec §4.1).
const DefaultReadBufferSize = 64 << 10 // 64 KiB

// Store is a named group holding typed 1-D arrays, string arrays, and a
// version attribute (spec §4.1). A Store instance corresponds to exactly
// one such group; nested organization (e.g. multiple fragment sets in one
// file) is expressed by opening multiple Store handles at different group
// paths against the same backing medium.
type Store interface {
	// Has reports whether a named array (of any type) or string array
	// exists in this group.
	Has(name string) bool

	// ListChildren returns the names of every array and string array in
	// this group, in no particular order.
	ListChildren() ([]string, error)

	OpenReadU32(name string) (Uint32Array, error)
	OpenReadU64(name string) (Uint64Array, error)
	OpenReadF32(name string) (Float32Array, error)

	// CreateWriteU32/U64/F32 create a new named array for sequential
	// append. chunkSize is a hint for the backing medium's chunking
	// (ignored by Memory); 0 selects a backend default.
	CreateWriteU32(name string, chunkSize int) (Uint32Writer, error)
	CreateWriteU64(name string, chunkSize int) (Uint64Writer, error)
	CreateWriteF32(name string, chunkSize int) (Float32Writer, error)

	ReadStringArray(name string) ([]string, error)
	WriteStringArray(name string, values []string) error

	// Version returns the version attribute, or "" if unset.
	Version() (string, error)
	SetVersion(version string) error

	// Attr reads an arbitrary string attribute off this group, reporting
	// whether it was set. Used for interoperability with external formats
	// (e.g. AnnData's "encoding-type") that carry attributes this module
	// never writes itself.
	Attr(name string) (string, bool, error)
	SetAttr(name, value string) error

	// Close releases any resources (file handles) held by this Store.
	// Safe to call multiple times.
	Close() error
}

// Uint32Array is a read handle to a named uint32 array.
type Uint32Array interface {
	// Len returns the number of elements in the array.
	Len() int
	// ReadAt copies min(len(out), Len()-start) elements starting at
	// index start into out, and returns the number copied. This is
	// random-access by design: intcodec relies on O(1) chunk seeks
	// (spec §4.2), which random access over a chunked backing dataset
	// gives for free.
	ReadAt(start int, out []uint32) (int, error)
	Close() error
}

// Uint64Array is a read handle to a named uint64 array.
type Uint64Array interface {
	Len() int
	ReadAt(start int, out []uint64) (int, error)
	Close() error
}

// Float32Array is a read handle to a named float32 array.
type Float32Array interface {
	Len() int
	ReadAt(start int, out []float32) (int, error)
	Close() error
}

// Uint32Writer is a sequential append handle to a named uint32 array.
type Uint32Writer interface {
	Append(vals []uint32) error
	// Finalize flushes buffered data and makes the array visible to
	// subsequent OpenReadU32 calls (and to future Store instances
	// reopening this group). A writer that is never finalized leaves
	// the group in an undefined state.
	Finalize() error
}

// Uint64Writer is a sequential append handle to a named uint64 array.
type Uint64Writer interface {
	Append(vals []uint64) error
	Finalize() error
}

// Float32Writer is a sequential append handle to a named float32 array.
type Float32Writer interface {
	Append(vals []float32) error
	Finalize() error
}

// RequireFresh enforces spec §4.1's write contract: reopening an existing
// non-empty group for write is a Conflict. Writers for FragmentStore and
// MatrixStore call this once before creating any array.
func RequireFresh(s Store) error {
	children, err := s.ListChildren()
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return bpcells.ErrConflict
	}
	return nil
}
