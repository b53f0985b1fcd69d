package fragments

import (
	"context"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/bytestore"
	"github.com/wjgreenleaf/BPCells/genome"
	"github.com/wjgreenleaf/BPCells/intcodec"
)

const (
	versionUnpacked = "unpacked-fragments-v1"
	versionPacked   = "packed-fragments-v1"
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

// WithLogger records store-open, per-chromosome, and write-complete events
// on l. The default is a no-op logger, so nothing logs unless a caller opts
// in.
func WithLogger(l *bpcells.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WriteUnpacked drains src into store using the unpacked layout (spec
// §4.4): start, end and cell are stored as raw u32 arrays, alongside
// chr_ptr, end_max, chr_names and cell_names. Returns the total fragment
// count written.
func WriteUnpacked(store bytestore.Store, src Iter, chunkSize int, opts ...Option) (int, error) {
	return writeStore(store, src, chunkSize, false, opts)
}

// WritePacked drains src into store using the packed layout (spec §4.4):
// start is delta-coded, end is stored as (end-start) delta-coded, and cell
// is range-coded, via intcodec.
func WritePacked(store bytestore.Store, src Iter, chunkSize int, opts ...Option) (int, error) {
	return writeStore(store, src, chunkSize, true, opts)
}

func writeStore(store bytestore.Store, src Iter, chunkSize int, packed bool, opts []Option) (int, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = bpcells.NoopLogger()
	}
	ctx := context.Background()
	if err := bytestore.RequireFresh(store); err != nil {
		o.logger.LogStoreOpen(ctx, "fragments", true, err)
		return 0, err
	}
	o.logger.LogStoreOpen(ctx, "fragments", true, nil)

	var starts, ends, cells []uint32
	// chrPtr holds numChr+1 prefix-sum boundaries (chrPtr[c]..chrPtr[c+1]
	// delimits chromosome c), the same convention matrix/store.go's colPtr
	// uses: one open boundary per chromosome on NextChr, plus a single
	// final close boundary once the source is exhausted.
	var chrPtr []uint32
	var endMax []uint32
	chrNames := genome.NewBuilder()
	cellNames := genome.NewBuilder()

	var guard SortGuard
	var count uint32
	var chunkMax uint32
	var chunkCount int

	buf := NewBuffer(intcodec.ChunkSize)
	for {
		ok, err := src.NextChr()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		name, err := src.ChrName(src.CurrentChr())
		if err != nil {
			return 0, err
		}
		chrID := uint32(chrNames.Intern(name))
		chrPtr = append(chrPtr, count)
		chrStart := count

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
				start, end, cell := buf.Start[i], buf.End[i], buf.Cell[i]
				if start >= end {
					return 0, &bpcells.ParseError{Msg: "fragment start >= end"}
				}
				if err := guard.Check(chrID, start); err != nil {
					return 0, err
				}
				cellName, err := src.CellName(genome.CellID(cell))
				if err != nil {
					return 0, err
				}
				cellID := uint32(cellNames.Intern(cellName))

				starts = append(starts, start)
				if packed {
					ends = append(ends, end-start)
				} else {
					ends = append(ends, end)
				}
				cells = append(cells, cellID)

				if end > chunkMax {
					chunkMax = end
				}
				chunkCount++
				if chunkCount == intcodec.ChunkSize {
					endMax = append(endMax, chunkMax)
					chunkMax, chunkCount = 0, 0
				}
				count++
			}
		}
		o.logger.LogChromosome(ctx, chrID, int(count-chrStart))
	}
	chrPtr = append(chrPtr, count)
	if chunkCount > 0 {
		endMax = append(endMax, chunkMax)
	}

	if packed {
		if err := intcodec.WriteStream(store, "start", intcodec.EncodeStream(starts, intcodec.DeltaMode), chunkSize); err != nil {
			return 0, err
		}
		if err := intcodec.WriteStream(store, "end", intcodec.EncodeStream(ends, intcodec.DeltaMode), chunkSize); err != nil {
			return 0, err
		}
		if err := intcodec.WriteStream(store, "cell", intcodec.EncodeStream(cells, intcodec.RangeMode), chunkSize); err != nil {
			return 0, err
		}
	} else {
		if err := writeRawU32(store, "start", starts, chunkSize); err != nil {
			return 0, err
		}
		if err := writeRawU32(store, "end", ends, chunkSize); err != nil {
			return 0, err
		}
		if err := writeRawU32(store, "cell", cells, chunkSize); err != nil {
			return 0, err
		}
	}
	if err := writeRawU32(store, "chr_ptr", chrPtr, chunkSize); err != nil {
		return 0, err
	}
	if err := writeRawU32(store, "end_max", endMax, chunkSize); err != nil {
		return 0, err
	}
	if err := store.WriteStringArray("chr_names", []string(chrNames.Freeze())); err != nil {
		return 0, err
	}
	if err := store.WriteStringArray("cell_names", []string(cellNames.Freeze())); err != nil {
		return 0, err
	}
	version := versionUnpacked
	if packed {
		version = versionPacked
	}
	if err := store.SetVersion(version); err != nil {
		o.logger.LogWriteComplete(ctx, "fragments", int(count), err)
		return 0, err
	}
	o.logger.LogWriteComplete(ctx, "fragments", int(count), nil)
	return int(count), nil
}

// OpenReader opens a FragmentStore previously written by WriteUnpacked or
// WritePacked, dispatching on the stored version attribute, and returns a
// MemIter positioned before the first chromosome.
func OpenReader(store bytestore.Store, opts ...Option) (*MemIter, error) {
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
		o.logger.LogStoreOpen(ctx, "fragments", false, err)
		return nil, err
	}
	o.logger.LogStoreOpen(ctx, "fragments", false, nil)
	var packed bool
	switch version {
	case versionUnpacked:
		packed = false
	case versionPacked:
		packed = true
	default:
		return nil, &bpcells.ParseError{Msg: "unrecognized fragment store version: " + version}
	}

	chrPtrU32, err := readRawU32(store, "chr_ptr")
	if err != nil {
		return nil, err
	}
	chrNames, err := store.ReadStringArray("chr_names")
	if err != nil {
		return nil, err
	}
	cellNames, err := store.ReadStringArray("cell_names")
	if err != nil {
		return nil, err
	}

	total := 0
	if len(chrPtrU32) > 0 {
		total = int(chrPtrU32[len(chrPtrU32)-1])
	}

	var start, end, cell []uint32
	if !packed {
		if start, err = readRawU32(store, "start"); err != nil {
			return nil, err
		}
		if end, err = readRawU32(store, "end"); err != nil {
			return nil, err
		}
		if cell, err = readRawU32(store, "cell"); err != nil {
			return nil, err
		}
	} else {
		se, err := intcodec.ReadStream(store, "start", intcodec.DeltaMode, total)
		if err != nil {
			return nil, err
		}
		start = se.Decode()

		ee, err := intcodec.ReadStream(store, "end", intcodec.DeltaMode, total)
		if err != nil {
			return nil, err
		}
		endDiff := ee.Decode()
		end = make([]uint32, total)
		for i := range end {
			end[i] = start[i] + endDiff[i]
		}

		ce, err := intcodec.ReadStream(store, "cell", intcodec.RangeMode, total)
		if err != nil {
			return nil, err
		}
		cell = ce.Decode()
	}

	chrOffsets := make([]int, len(chrPtrU32))
	for i, v := range chrPtrU32 {
		chrOffsets[i] = int(v)
	}
	return NewMemIter(chrOffsets, start, end, cell, chrNames, cellNames), nil
}

// EndMax reads back the per-chunk maximum-end summary array (spec §4.4,
// "end_max – if present"), which bounds the end coordinate of every
// fragment in a chunk. peakmatrix and tilematrix do not read it; they scan
// every fragment. Returns ErrNotFound if the store predates this optional
// array.
func EndMax(store bytestore.Store) ([]uint32, error) {
	return readRawU32(store, "end_max")
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
