package fragments

import (
	"sort"

	"github.com/wjgreenleaf/BPCells"
	"github.com/wjgreenleaf/BPCells/genome"
)

// Fragment is one (chr, start, end, cell) record, used only to build a
// MemIter from a flat list; the pull protocol itself never exposes this
// type (spec §4.3 works in per-chromosome batches, not single records).
type Fragment struct {
	Chr   genome.ChrID
	Start uint32
	End   uint32
	Cell  uint32
}

// MemIter is a fully materialized, seekable, restartable Iter over parallel
// arrays grouped by chromosome. FragmentStore's readers decode onto exactly
// this shape (spec §4.4's read side reduces to "materialize, then serve"),
// and tests build fixtures with it directly.
type MemIter struct {
	chrOffsets []int // length numChr+1, offsets into the flat arrays
	start      []uint32
	end        []uint32
	cell       []uint32
	chrNames   []string
	cellNames  []string

	pos     int // current chromosome index, -1 before the first NextChr
	loadPos int // fragments already served from the current chromosome
}

// NewMemIter builds a MemIter directly from pre-grouped flat arrays.
// chrOffsets[c]..chrOffsets[c+1] must delimit chromosome c's fragments; the
// caller is responsible for the grouping (BuildMemIter validates it from an
// unsorted-by-construction fragment list instead).
func NewMemIter(chrOffsets []int, start, end, cell []uint32, chrNames, cellNames []string) *MemIter {
	return &MemIter{
		chrOffsets: chrOffsets,
		start:      start,
		end:        end,
		cell:       cell,
		chrNames:   chrNames,
		cellNames:  cellNames,
		pos:        -1,
	}
}

// BuildMemIter groups frags by chromosome (frags must already be sorted by
// (Chr, Start), spec §3's fragment ordering invariant) and returns a
// MemIter, or a *bpcells.SortError if the ordering is violated.
func BuildMemIter(frags []Fragment, chrNames, cellNames []string) (*MemIter, error) {
	numChr := len(chrNames)
	chrOffsets := make([]int, numChr+1)
	var guard SortGuard
	for _, f := range frags {
		if err := guard.Check(uint32(f.Chr), f.Start); err != nil {
			return nil, err
		}
		if f.Start >= f.End {
			return nil, &bpcells.ParseError{Msg: "fragment start >= end"}
		}
		chrOffsets[f.Chr+1]++
	}
	for c := 0; c < numChr; c++ {
		chrOffsets[c+1] += chrOffsets[c]
	}
	start := make([]uint32, len(frags))
	end := make([]uint32, len(frags))
	cell := make([]uint32, len(frags))
	cursor := append([]int(nil), chrOffsets[:numChr]...)
	for _, f := range frags {
		i := cursor[f.Chr]
		start[i], end[i], cell[i] = f.Start, f.End, f.Cell
		cursor[f.Chr]++
	}
	return NewMemIter(chrOffsets, start, end, cell, chrNames, cellNames), nil
}

func (m *MemIter) NextChr() (bool, error) {
	m.pos++
	m.loadPos = 0
	return m.pos < len(m.chrOffsets)-1, nil
}

func (m *MemIter) CurrentChr() genome.ChrID { return genome.ChrID(m.pos) }

func (m *MemIter) ChrName(id genome.ChrID) (string, error) {
	if int(id) < 0 || int(id) >= len(m.chrNames) {
		return "", bpcells.ErrNotFound
	}
	return m.chrNames[id], nil
}

func (m *MemIter) CellName(id genome.CellID) (string, error) {
	if int(id) < 0 || int(id) >= len(m.cellNames) {
		return "", bpcells.ErrNotFound
	}
	return m.cellNames[id], nil
}

func (m *MemIter) ChrCount() int  { return len(m.chrNames) }
func (m *MemIter) CellCount() int { return len(m.cellNames) }

func (m *MemIter) Load(buf *Buffer) (int, error) {
	buf.Reset()
	if m.pos < 0 || m.pos >= len(m.chrOffsets)-1 {
		return 0, nil
	}
	lo, hi := m.chrOffsets[m.pos], m.chrOffsets[m.pos+1]
	from := lo + m.loadPos
	remaining := hi - from
	if remaining <= 0 {
		return 0, nil
	}
	n := buf.Cap()
	if n > remaining || n == 0 {
		n = remaining
	}
	for i := 0; i < n; i++ {
		buf.push(m.start[from+i], m.end[from+i], m.cell[from+i])
	}
	m.loadPos += n
	return n, nil
}

func (m *MemIter) Seekable() bool { return true }

func (m *MemIter) Seek(chr genome.ChrID, base uint32) error {
	if int(chr) < 0 || int(chr) >= len(m.chrOffsets)-1 {
		return bpcells.ErrNotFound
	}
	m.pos = int(chr)
	lo, hi := m.chrOffsets[chr], m.chrOffsets[chr+1]
	idx := sort.Search(hi-lo, func(i int) bool { return m.start[lo+i] >= base })
	m.loadPos = idx
	return nil
}

func (m *MemIter) Restartable() bool { return true }

func (m *MemIter) Restart() error {
	m.pos = -1
	m.loadPos = 0
	return nil
}

func (m *MemIter) Close() error { return nil }
