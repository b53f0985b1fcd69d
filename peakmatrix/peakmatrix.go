package peakmatrix

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/fragments"
	"github.com/wjgreenleaf/BPCells/intcodec"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// Peak is a half-open genomic interval [Start, End) on chromosome ChrName.
// Peaks are named by chromosome rather than by fragments.Iter's internal
// genome.ChrID, since a peak set is typically defined independently of any
// one fragment source's id assignment.
type Peak struct {
	ChrName    string
	Start, End uint32
}

// Option configures Build, following the teacher's functional options
// convention.
type Option func(*options)

type options struct {
	interrupt *bpcells.Interrupter
}

// WithInterrupter polls ir every chunk load during Build, so a caller can
// cancel a long-running overlap count (spec §5).
func WithInterrupter(ir *bpcells.Interrupter) Option {
	return func(o *options) { o.interrupt = ir }
}

// Build counts fragment/peak overlaps and returns a cells-by-peaks
// matrix.MemIter[uint32] (spec §4.8's shape (cells × P)). Columns follow
// the order of peaks; rows follow src's cell vocabulary in id order, one
// per registered cell whether or not it has a counted overlap.
func Build(src fragments.Iter, peaks []Peak, opts ...Option) (*matrix.MemIter[uint32], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	byChr := make(map[string][]int)
	for i, p := range peaks {
		byChr[p.ChrName] = append(byChr[p.ChrName], i)
	}
	for chr, idxs := range byChr {
		sort.Slice(idxs, func(a, b int) bool { return peaks[idxs[a]].Start < peaks[idxs[b]].Start })
		byChr[chr] = idxs
	}

	// Rows are indexed by raw cell id directly (spec §4.4's cell array is
	// already an index into the fixed cell_names vocabulary), so a cell
	// with no counted overlap still gets an all-zero row instead of being
	// silently dropped from the output.
	counts := make(map[[2]uint32]uint32) // [peakIdx, rowIdx] -> count

	buf := fragments.NewBuffer(intcodec.ChunkSize)
	for {
		ok, err := src.NextChr()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		chrName, err := src.ChrName(src.CurrentChr())
		if err != nil {
			return nil, err
		}
		idxs := byChr[chrName]
		starts := make([]uint32, len(idxs))
		covered := roaring.New()
		for i, pi := range idxs {
			starts[i] = peaks[pi].Start
			covered.AddRange(uint64(peaks[pi].Start), uint64(peaks[pi].End))
		}

		for {
			n, err := src.Load(&buf)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				break
			}
			if err := o.interrupt.Tick(uint64(n)); err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				start, end, rawCell := buf.Start[i], buf.End[i], buf.Cell[i]
				row := rawCell

				// Each endpoint is counted independently: a fragment whose
				// start and end-1 both land inside the same peak
				// increments that peak's count by 2, not 1 (the counting
				// rule is I[start-inside] + I[end-1-inside], not an
				// OR of the two).
				for _, x := range [2]uint32{start, end - 1} {
					// covered is a cheap membership pre-filter: most
					// fragment endpoints land outside every peak, and
					// skipping those avoids the O(peaks) scan below.
					if !covered.Contains(x) {
						continue
					}
					hi := sort.Search(len(starts), func(k int) bool { return starts[k] > x })
					for k := 0; k < hi; k++ {
						pi := idxs[k]
						if peaks[pi].End > x {
							key := [2]uint32{uint32(pi), row}
							counts[key]++
						}
					}
				}
			}
		}
	}

	colNames := make([]string, len(peaks))
	for i, p := range peaks {
		colNames[i] = fmt.Sprintf("%s:%d-%d", p.ChrName, p.Start, p.End)
	}
	rowNames, err := fragments.CellNames(src)
	if err != nil {
		return nil, err
	}

	entries := make([]matrix.Entry[uint32], 0, len(counts))
	for key, c := range counts {
		entries = append(entries, matrix.Entry[uint32]{Row: key[1], Col: key[0], Val: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Col != entries[j].Col {
			return entries[i].Col < entries[j].Col
		}
		return entries[i].Row < entries[j].Row
	})
	return matrix.BuildMemIter(entries, rowNames, colNames)
}
