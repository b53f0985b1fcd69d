package genome_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wjgreenleaf/BPCells/genome"
)

func TestBuilderInternsAndFreezes(t *testing.T) {
	b := genome.NewBuilder()
	require.Equal(t, 0, b.Intern("chr1"))
	require.Equal(t, 1, b.Intern("chr2"))
	require.Equal(t, 0, b.Intern("chr1")) // repeated name reuses its id
	require.Equal(t, 2, b.Len())

	name, ok := b.Name(1)
	require.True(t, ok)
	require.Equal(t, "chr2", name)

	_, ok = b.Name(2)
	require.False(t, ok)

	frozen := b.Freeze()
	require.Equal(t, 2, frozen.Len())
	require.Equal(t, "chr1", frozen.Name(0))
	require.Equal(t, "chr2", frozen.Name(1))
}

func TestSliceStringTable(t *testing.T) {
	var s genome.StringTable = genome.Slice{"a", "b", "c"}
	require.Equal(t, 3, s.Len())
	require.Equal(t, "b", s.Name(1))
}
