package matrix

import (
	"context"
	"fmt"
	"math"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/bytestore"
	"github.com/wjgreenleaf/BPCells/intcodec"
)

const (
	versionUnpacked = "unpacked-matrix-v1"
	versionPacked   = "packed-matrix-v1"
)

// Option configures a store write, following the teacher's functional
// options convention (mirrors bedio.WriterOption).
type Option func(*options)

type options struct {
	interrupt *bpcells.Interrupter
	logger    *bpcells.Logger
}

// WithInterrupter polls ir every chunk load during WriteUnpacked/WritePacked,
// so a caller can cancel a long-running write (spec §5).
func WithInterrupter(ir *bpcells.Interrupter) Option {
	return func(o *options) { o.interrupt = ir }
}

// WithLogger records store-open and write-complete events on l. The
// default is a no-op logger, so nothing logs unless a caller opts in.
func WithLogger(l *bpcells.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WriteUnpacked drains src into store using the unpacked layout (spec
// §4.6): row and val are stored as raw arrays, alongside col_ptr,
// row_names and col_names.
func WriteUnpacked[T Numeric](store bytestore.Store, src Iter[T], chunkSize int, opts ...Option) (int, error) {
	return writeStore(store, src, chunkSize, false, opts)
}

// WritePacked drains src into store using the packed layout (spec §4.6):
// row is delta-coded via intcodec, val is stored raw.
func WritePacked[T Numeric](store bytestore.Store, src Iter[T], chunkSize int, opts ...Option) (int, error) {
	return writeStore(store, src, chunkSize, true, opts)
}

func writeStore[T Numeric](store bytestore.Store, src Iter[T], chunkSize int, packed bool, opts []Option) (int, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = bpcells.NoopLogger()
	}
	ctx := context.Background()
	if err := bytestore.RequireFresh(store); err != nil {
		o.logger.LogStoreOpen(ctx, "matrix", true, err)
		return 0, err
	}
	o.logger.LogStoreOpen(ctx, "matrix", true, nil)

	var rows []uint32
	var vals []T
	var colPtr []uint32
	var rowNames, colNames []string

	var guard SortGuard
	var count uint32

	buf := NewBuffer[T](intcodec.ChunkSize)
	for {
		ok, err := src.NextCol()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		colPtr = append(colPtr, count)
		guard.NextCol()
		for {
			n, err := src.Load(&buf)
			if err != nil {
				return 0, err
			}
			if n == 0 {
				break
			}
			if err := o.interrupt.Tick(uint64(n)); err != nil {
				return 0, err
			}
			for i := 0; i < n; i++ {
				if err := guard.Check(buf.Row[i], int(count)); err != nil {
					return 0, err
				}
				rows = append(rows, buf.Row[i])
				vals = append(vals, buf.Val[i])
				count++
			}
		}
	}
	colPtr = append(colPtr, count)

	rowNames = namesOf(src.RowCount(), src.RowName)
	colNames = namesOf(src.ColCount(), src.ColName)

	if packed {
		if err := intcodec.WriteStream(store, "row", intcodec.EncodeStream(rows, intcodec.DeltaMode), chunkSize); err != nil {
			return 0, err
		}
	} else {
		if err := writeRawU32(store, "row", rows, chunkSize); err != nil {
			return 0, err
		}
	}
	if err := writeVal(store, "val", vals, chunkSize); err != nil {
		return 0, err
	}
	if err := writeRawU32(store, "col_ptr", colPtr, chunkSize); err != nil {
		return 0, err
	}
	if err := store.WriteStringArray("row_names", rowNames); err != nil {
		return 0, err
	}
	if err := store.WriteStringArray("col_names", colNames); err != nil {
		return 0, err
	}
	version := versionUnpacked
	if packed {
		version = versionPacked
	}
	if err := store.SetVersion(version); err != nil {
		o.logger.LogWriteComplete(ctx, "matrix", int(count), err)
		return 0, err
	}
	o.logger.LogWriteComplete(ctx, "matrix", int(count), nil)
	return int(count), nil
}

// namesOf resolves all names 0..count-1 via nameFn, used once counts are
// known after draining src fully.
func namesOf(count int, nameFn func(int) (string, error)) []string {
	if count <= 0 {
		return nil
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		name, err := nameFn(i)
		if err != nil {
			continue
		}
		out[i] = name
	}
	return out
}

// OpenReader opens a MatrixStore previously written by WriteUnpacked or
// WritePacked, dispatching on the stored version attribute.
func OpenReader[T Numeric](store bytestore.Store, opts ...Option) (*MemIter[T], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = bpcells.NoopLogger()
	}
	ctx := context.Background()

	version, err := store.Version()
	if err != nil {
		o.logger.LogStoreOpen(ctx, "matrix", false, err)
		return nil, err
	}
	o.logger.LogStoreOpen(ctx, "matrix", false, nil)
	var packed bool
	switch version {
	case versionUnpacked:
		packed = false
	case versionPacked:
		packed = true
	default:
		return nil, &bpcells.ParseError{Msg: "unrecognized matrix store version: " + version}
	}

	colPtrU32, err := readRawU32(store, "col_ptr")
	if err != nil {
		return nil, err
	}
	rowNames, err := store.ReadStringArray("row_names")
	if err != nil {
		return nil, err
	}
	colNames, err := store.ReadStringArray("col_names")
	if err != nil {
		return nil, err
	}

	total := 0
	if len(colPtrU32) > 0 {
		total = int(colPtrU32[len(colPtrU32)-1])
	}

	var row []uint32
	if !packed {
		if row, err = readRawU32(store, "row"); err != nil {
			return nil, err
		}
	} else {
		re, err := intcodec.ReadStream(store, "row", intcodec.DeltaMode, total)
		if err != nil {
			return nil, err
		}
		row = re.Decode()
	}
	val, err := readVal[T](store, "val")
	if err != nil {
		return nil, err
	}

	colPtr := make([]int, len(colPtrU32))
	for i, v := range colPtrU32 {
		colPtr[i] = int(v)
	}
	return NewMemIter(colPtr, row, val, rowNames, colNames), nil
}

func writeRawU32(store bytestore.Store, name string, vals []uint32, chunkSize int) error {
	w, err := store.CreateWriteU32(name, chunkSize)
	if err != nil {
		return err
	}
	if err := w.Append(vals); err != nil {
		return err
	}
	return w.Finalize()
}

func readRawU32(store bytestore.Store, name string) ([]uint32, error) {
	arr, err := store.OpenReadU32(name)
	if err != nil {
		return nil, err
	}
	defer arr.Close()
	out := make([]uint32, arr.Len())
	if _, err := arr.ReadAt(0, out); err != nil {
		return nil, err
	}
	return out, nil
}

// writeVal dispatches to the typed writer matching T's concrete type.
func writeVal[T Numeric](store bytestore.Store, name string, vals []T, chunkSize int) error {
	switch any(vals).(type) {
	case []uint32:
		w, err := store.CreateWriteU32(name, chunkSize)
		if err != nil {
			return err
		}
		if err := w.Append(castSlice[uint32](vals)); err != nil {
			return err
		}
		return w.Finalize()
	case []uint64:
		w, err := store.CreateWriteU64(name, chunkSize)
		if err != nil {
			return err
		}
		if err := w.Append(castSlice[uint64](vals)); err != nil {
			return err
		}
		return w.Finalize()
	case []float32:
		w, err := store.CreateWriteF32(name, chunkSize)
		if err != nil {
			return err
		}
		if err := w.Append(castSlice[float32](vals)); err != nil {
			return err
		}
		return w.Finalize()
	case []float64:
		// bytestore.Store is fixed at three array types (u32/u64/f32, spec
		// §4.1); a float64 value stores bit-for-bit in the existing u64
		// array rather than growing the on-disk type surface.
		fvals := any(vals).([]float64)
		bits := make([]uint64, len(fvals))
		for i, v := range fvals {
			bits[i] = math.Float64bits(v)
		}
		w, err := store.CreateWriteU64(name, chunkSize)
		if err != nil {
			return err
		}
		if err := w.Append(bits); err != nil {
			return err
		}
		return w.Finalize()
	default:
		return fmt.Errorf("matrix: unsupported value type")
	}
}

// readVal dispatches to the typed reader matching T's concrete type.
func readVal[T Numeric](store bytestore.Store, name string) ([]T, error) {
	var zero T
	switch any(zero).(type) {
	case uint32:
		raw, err := readRawU32(store, name)
		if err != nil {
			return nil, err
		}
		return castSlice[T](raw), nil
	case uint64:
		arr, err := store.OpenReadU64(name)
		if err != nil {
			return nil, err
		}
		defer arr.Close()
		raw := make([]uint64, arr.Len())
		if _, err := arr.ReadAt(0, raw); err != nil {
			return nil, err
		}
		return castSlice[T](raw), nil
	case float32:
		arr, err := store.OpenReadF32(name)
		if err != nil {
			return nil, err
		}
		defer arr.Close()
		raw := make([]float32, arr.Len())
		if _, err := arr.ReadAt(0, raw); err != nil {
			return nil, err
		}
		return castSlice[T](raw), nil
	case float64:
		arr, err := store.OpenReadU64(name)
		if err != nil {
			return nil, err
		}
		defer arr.Close()
		bits := make([]uint64, arr.Len())
		if _, err := arr.ReadAt(0, bits); err != nil {
			return nil, err
		}
		out := make([]float64, len(bits))
		for i, b := range bits {
			out[i] = math.Float64frombits(b)
		}
		return any(out).([]T), nil
	default:
		return nil, fmt.Errorf("matrix: unsupported value type")
	}
}

// castSlice element-wise converts a slice of numeric type U to numeric
// type T. Both type parameters are constrained to Numeric, so every
// conversion in the loop is a valid Go numeric conversion.
func castSlice[T, U Numeric](in []U) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = T(v)
	}
	return out
}
