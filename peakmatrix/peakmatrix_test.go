package peakmatrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/fragments"
	"github.com/wjgreenleaf/BPCells/peakmatrix"
)

func TestBuildCountsEndpointInsideOnly(t *testing.T) {
	frags := []fragments.Fragment{
		// spans clean over the peak without either endpoint landing
		// inside it: must NOT count under the endpoint-inside rule.
		{Chr: 0, Start: 50, End: 500, Cell: 0},
		// entirely inside the peak: both endpoints land inside it, so it
		// contributes 2, not 1.
		{Chr: 0, Start: 110, End: 120, Cell: 0},
		// only the start endpoint lands inside the peak: contributes 1.
		{Chr: 0, Start: 150, End: 400, Cell: 1},
		// on a different chromosome, no peak defined: never counted.
		{Chr: 1, Start: 5, End: 15, Cell: 0},
	}
	src, err := fragments.BuildMemIter(frags, []string{"chr1", "chr2"}, []string{"cellA", "cellB"})
	require.NoError(t, err)

	peaks := []peakmatrix.Peak{
		{ChrName: "chr1", Start: 100, End: 200},
	}
	m, err := peakmatrix.Build(src, peaks)
	require.NoError(t, err)

	dense := m.Dense()
	require.Len(t, dense, 2)
	require.Equal(t, uint32(2), dense[0][0]) // cellA: fully-inside fragment counts both endpoints
	require.Equal(t, uint32(1), dense[1][0]) // cellB: start-inside fragment counts once
}

// TestBuildScenarioA replays spec §8 scenario A verbatim (also
// original_source/tests/googletest/test-peakMatrix.cpp's PeakMatrix case):
// a 5-cell, 2-chromosome fragment set against 4 peaks, checked against the
// exact non-zero (cell, peak, count) triplets the reference gives.
func TestBuildScenarioA(t *testing.T) {
	var frags []fragments.Fragment
	// chr1: for j in [0,5), for i in [0,j], emit i+1 copies of
	// (cell=i, start=j, end=1002+i).
	for j := uint32(0); j < 5; j++ {
		for i := uint32(0); i <= j; i++ {
			for k := uint32(0); k < i+1; k++ {
				frags = append(frags, fragments.Fragment{Chr: 0, Start: j, End: 1002 + i, Cell: i})
			}
		}
	}
	// chr2: four fragments at starts 9-10 ending 20-21.
	frags = append(frags,
		fragments.Fragment{Chr: 1, Start: 9, End: 21, Cell: 0},
		fragments.Fragment{Chr: 1, Start: 9, End: 20, Cell: 1},
		fragments.Fragment{Chr: 1, Start: 10, End: 21, Cell: 2},
		fragments.Fragment{Chr: 1, Start: 10, End: 20, Cell: 3},
	)

	src, err := fragments.BuildMemIter(frags, []string{"chr1", "chr2"}, []string{"c0", "c1", "c2", "c3", "c4"})
	require.NoError(t, err)

	peaks := []peakmatrix.Peak{
		{ChrName: "chr1", Start: 2, End: 4},
		{ChrName: "chr1", Start: 1002, End: 1005},
		{ChrName: "chr1", Start: 1004, End: 1006},
		{ChrName: "chr2", Start: 10, End: 20},
	}
	m, err := peakmatrix.Build(src, peaks)
	require.NoError(t, err)

	expected := [][]uint32{
		{2, 0, 0, 0},
		{4, 8, 0, 1},
		{6, 9, 0, 1},
		{4, 8, 8, 2},
		{0, 0, 5, 0},
	}
	require.Equal(t, expected, m.Dense())
}

func TestBuildHonorsInterrupter(t *testing.T) {
	frags := []fragments.Fragment{{Chr: 0, Start: 110, End: 120, Cell: 0}}
	src, err := fragments.BuildMemIter(frags, []string{"chr1"}, []string{"cellA"})
	require.NoError(t, err)

	ir := bpcells.NewInterrupter(func(uint64) error { return bpcells.ErrCancelled }, 1)
	peaks := []peakmatrix.Peak{{ChrName: "chr1", Start: 100, End: 200}}
	_, err = peakmatrix.Build(src, peaks, peakmatrix.WithInterrupter(ir))
	require.ErrorIs(t, err, bpcells.ErrCancelled)
}
