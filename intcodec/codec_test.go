package intcodec_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wjgreenleaf/BPCells/intcodec"
)

func TestBitPackRoundTrip(t *testing.T) {
	for _, bw := range []int{0, 1, 3, 7, 8, 17, 31, 32} {
		max := uint32(1)<<uint(bw) - 1
		if bw == 32 {
			max = 0xFFFFFFFF
		}
		if bw == 0 {
			max = 0
		}
		values := make([]uint32, 200)
		for i := range values {
			if max == 0 {
				values[i] = 0
			} else {
				values[i] = uint32(rand.Int63n(int64(max) + 1))
			}
		}
		words := intcodec.PackBits(values, bw)
		got := intcodec.UnpackBits(words, len(values), bw)
		require.Equal(t, values, got, "bitwidth=%d", bw)
	}
}

func TestEncodeDecodeStreamDelta(t *testing.T) {
	n := 1000
	values := make([]uint32, n)
	cur := uint32(0)
	for i := range values {
		cur += uint32(rand.Intn(50))
		values[i] = cur
	}
	enc := intcodec.EncodeStream(values, intcodec.DeltaMode)
	require.Equal(t, values, enc.Decode())

	for _, lo := range []int{0, 1, 127, 128, 500} {
		for _, hi := range []int{lo + 1, lo + 5, n} {
			if hi <= lo || hi > n {
				continue
			}
			got := enc.DecodeRange(lo, hi)
			require.Equal(t, values[lo:hi], got, "range [%d,%d)", lo, hi)
		}
	}
}

func TestEncodeDecodeStreamRange(t *testing.T) {
	n := 513
	values := make([]uint32, n)
	for i := range values {
		values[i] = uint32(rand.Intn(64))
	}
	enc := intcodec.EncodeStream(values, intcodec.RangeMode)
	require.Nil(t, enc.RowStarts)
	require.Equal(t, values, enc.Decode())
}

func TestAt(t *testing.T) {
	n := 300
	values := make([]uint32, n)
	cur := uint32(10)
	for i := range values {
		cur += uint32(i % 3)
		values[i] = cur
	}
	enc := intcodec.EncodeStream(values, intcodec.DeltaMode)
	for i := 0; i < n; i++ {
		require.Equal(t, values[i], enc.At(i))
	}
}

func TestEmptyStream(t *testing.T) {
	enc := intcodec.EncodeStream(nil, intcodec.DeltaMode)
	require.Equal(t, []uint32{}, enc.Decode())
	require.Equal(t, 0, enc.NumChunks())
}
