package bytestore_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wjgreenleaf/BPCells/bytestore"
)

func TestMemoryRoundTrip(t *testing.T) {
	s := bytestore.NewMemory()

	w, err := s.CreateWriteU32("start", 128)
	require.NoError(t, err)
	require.NoError(t, w.Append([]uint32{1, 2, 3}))
	require.NoError(t, w.Append([]uint32{4, 5}))
	require.NoError(t, w.Finalize())

	r, err := s.OpenReadU32("start")
	require.NoError(t, err)
	require.Equal(t, 5, r.Len())

	out := make([]uint32, 5)
	n, err := r.ReadAt(0, out)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []uint32{1, 2, 3, 4, 5}, out)

	partial := make([]uint32, 2)
	n, err = r.ReadAt(3, partial)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []uint32{4, 5}, partial)
}

func TestMemoryStringArrayAndVersion(t *testing.T) {
	s := bytestore.NewMemory()
	require.NoError(t, s.WriteStringArray("chr_names", []string{"chr1", "chr2"}))
	got, err := s.ReadStringArray("chr_names")
	require.NoError(t, err)
	require.Equal(t, []string{"chr1", "chr2"}, got)

	v, err := s.Version()
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, s.SetVersion("unpacked-fragments-v1"))
	v, err = s.Version()
	require.NoError(t, err)
	require.Equal(t, "unpacked-fragments-v1", v)
}

func TestMemoryConflictOnReopen(t *testing.T) {
	s := bytestore.NewMemory()
	w, err := s.CreateWriteU32("cell", 128)
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	require.Error(t, bytestore.RequireFresh(s))

	_, err = s.CreateWriteU32("cell", 128)
	require.Error(t, err)
}

func TestMemoryNotFound(t *testing.T) {
	s := bytestore.NewMemory()
	_, err := s.OpenReadU32("missing")
	require.Error(t, err)
}
