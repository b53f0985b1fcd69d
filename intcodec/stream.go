package intcodec

// Mode selects the per-dataset encoding policy (spec §4.2: "the encoding
// choice is fixed per dataset").
type Mode int

const (
	// DeltaMode first-differences each chunk against a running anchor.
	// Used for non-decreasing streams: fragment starts, row indices
	// within a column, column-pointer deltas.
	DeltaMode Mode = iota
	// RangeMode raw bit-packs each chunk without differencing. Used for
	// bounded-range streams such as cell ids.
	RangeMode
)

// EncodedStream is the three-parallel-array framing from spec §4.2:
// val_data (packed payload, one bit-width header word per chunk followed
// by that chunk's packed words), val_idx (word offset of each chunk's
// header into val_data, length numChunks+1 with a trailing sentinel), and
// row_starts (per-chunk anchor, DeltaMode only).
type EncodedStream struct {
	Mode      Mode
	Count     int
	ValData   []uint32
	ValIdx    []uint32
	RowStarts []uint32 // nil for RangeMode
}

// EncodeStream packs values into chunk-aligned, bit-packed form.
func EncodeStream(values []uint32, mode Mode) EncodedStream {
	n := len(values)
	numChunks := (n + ChunkSize - 1) / ChunkSize

	valIdx := make([]uint32, 0, numChunks+1)
	var valData []uint32
	var rowStarts []uint32
	if mode == DeltaMode {
		rowStarts = make([]uint32, 0, numChunks)
	}

	anchor := uint32(0)
	for k := 0; k < numChunks; k++ {
		start := k * ChunkSize
		end := start + ChunkSize
		if end > n {
			end = n
		}
		chunk := values[start:end]

		valIdx = append(valIdx, uint32(len(valData)))

		var bitWidth int
		var words []uint32
		if mode == DeltaMode {
			bitWidth, words = EncodeDeltaChunk(chunk, anchor)
			rowStarts = append(rowStarts, anchor)
			if len(chunk) > 0 {
				anchor = chunk[len(chunk)-1]
			}
		} else {
			bitWidth, words = EncodeRangeChunk(chunk)
		}

		valData = append(valData, uint32(bitWidth))
		valData = append(valData, words...)
	}
	valIdx = append(valIdx, uint32(len(valData)))

	return EncodedStream{Mode: mode, Count: n, ValData: valData, ValIdx: valIdx, RowStarts: rowStarts}
}

// NumChunks returns the number of chunks in the stream.
func (s EncodedStream) NumChunks() int {
	if len(s.ValIdx) == 0 {
		return 0
	}
	return len(s.ValIdx) - 1
}

func (s EncodedStream) chunkLen(k int) int {
	remain := s.Count - k*ChunkSize
	if remain > ChunkSize {
		return ChunkSize
	}
	return remain
}

func (s EncodedStream) decodeChunk(k int) []uint32 {
	start := int(s.ValIdx[k])
	end := int(s.ValIdx[k+1])
	words := s.ValData[start:end]
	bitWidth := int(words[0])
	payload := words[1:]
	count := s.chunkLen(k)
	if s.Mode == DeltaMode {
		return DecodeDeltaChunk(payload, count, bitWidth, s.RowStarts[k])
	}
	return DecodeRangeChunk(payload, count, bitWidth)
}

// Decode fully reconstructs the original value stream.
func (s EncodedStream) Decode() []uint32 {
	out := make([]uint32, 0, s.Count)
	for k := 0; k < s.NumChunks(); k++ {
		out = append(out, s.decodeChunk(k)...)
	}
	return out
}

// DecodeRange reconstructs values in [lo, hi), decoding only the chunks
// that overlap the range: the O(1)-per-chunk seek spec §4.2 requires.
func (s EncodedStream) DecodeRange(lo, hi int) []uint32 {
	if lo < 0 {
		lo = 0
	}
	if hi > s.Count {
		hi = s.Count
	}
	if lo >= hi {
		return nil
	}
	firstChunk := lo / ChunkSize
	lastChunk := (hi - 1) / ChunkSize

	out := make([]uint32, 0, hi-lo)
	for k := firstChunk; k <= lastChunk; k++ {
		vals := s.decodeChunk(k)
		chunkStart := k * ChunkSize
		lo2, hi2 := 0, len(vals)
		if k == firstChunk {
			lo2 = lo - chunkStart
		}
		if k == lastChunk {
			hi2 = hi - chunkStart
		}
		out = append(out, vals[lo2:hi2]...)
	}
	return out
}

// At decodes a single value at index i without materializing its whole
// chunk's neighbors beyond what decodeChunk needs internally.
func (s EncodedStream) At(i int) uint32 {
	k := i / ChunkSize
	vals := s.decodeChunk(k)
	return vals[i-k*ChunkSize]
}
