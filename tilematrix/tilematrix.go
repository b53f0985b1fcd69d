package tilematrix

import (
	"fmt"
	"sort"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/fragments"
	"github.com/wjgreenleaf/BPCells/intcodec"
	"github.com/wjgreenleaf/BPCells/matrix"
)

// Spec configures tiling for one region: tiles are
// [Start+k*Width, min(Start+(k+1)*Width, End)) for k = 0, 1, 2, ... — the
// last tile in a region is truncated to End (spec §4.9). Regions need not
// be unique per chromosome: multiple Specs may share a ChrName.
type Spec struct {
	ChrName string
	Start   uint32
	End     uint32
	Width   uint32
}

// numTiles returns how many tiles cover this region.
func (s Spec) numTiles() int64 {
	if s.End <= s.Start {
		return 0
	}
	return (int64(s.End-s.Start) + int64(s.Width) - 1) / int64(s.Width)
}

// tileIndex returns the tile index covering x, or false if x falls outside
// [Start, End).
func (s Spec) tileIndex(x uint32) (int64, bool) {
	if x < s.Start || x >= s.End {
		return 0, false
	}
	return int64((x - s.Start) / s.Width), true
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

// Build counts fragment/tile overlaps and returns a cells-by-tiles
// matrix.MemIter[uint32] (spec §4.9's shape, parallel to PeakMatrix's
// cells × P). Columns are ordered by region, then by ascending tile index
// within each region, one column per tile regardless of whether it saw any
// overlaps; rows follow src's cell vocabulary in id order, one per
// registered cell whether or not it has a counted overlap.
func Build(src fragments.Iter, specs []Spec, opts ...Option) (*matrix.MemIter[uint32], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	byChr := make(map[string][]int)
	base := make([]int64, len(specs)) // global column offset of each spec's tile 0
	var total int64
	for i, s := range specs {
		byChr[s.ChrName] = append(byChr[s.ChrName], i)
		base[i] = total
		total += s.numTiles()
	}

	// Rows are indexed by raw cell id directly (spec §4.4's cell array is
	// already an index into the fixed cell_names vocabulary), so a cell
	// with no counted overlap still gets an all-zero row instead of being
	// silently dropped from the output.
	counts := make(map[[2]uint32]uint32) // [tileCol, cellRow] -> count

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
		specIdxs, ok := byChr[chrName]
		if !ok {
			// no tiling defined for this chromosome; drain and skip.
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
			}
			continue
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

				// Each endpoint is counted independently against every
				// region on this chromosome: a fragment whose start and
				// end-1 both land in the same tile increments that tile's
				// count by 2, not 1.
				for _, x := range [2]uint32{start, end - 1} {
					for _, specIdx := range specIdxs {
						t, ok := specs[specIdx].tileIndex(x)
						if !ok {
							continue
						}
						col := uint32(base[specIdx] + t)
						key := [2]uint32{col, row}
						counts[key]++
					}
				}
			}
		}
	}

	colNames := make([]string, 0, total)
	for _, s := range specs {
		n := s.numTiles()
		for t := int64(0); t < n; t++ {
			lo := s.Start + uint32(t)*s.Width
			hi := lo + s.Width
			if hi > s.End {
				hi = s.End
			}
			colNames = append(colNames, fmt.Sprintf("%s:%d-%d", s.ChrName, lo, hi))
		}
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
