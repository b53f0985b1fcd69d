package fragments

import "github.com/wjgreenleaf/BPCells"

// SortGuard incrementally checks the ordering invariant spec §4.3 and §8
// scenario E require: chromosomes appear contiguously, and within a
// chromosome, starts are non-decreasing. It is shared by the BED reader and
// the FragmentStore writer so both raise the same *bpcells.SortError shape
// for the same violation.
type SortGuard struct {
	have      bool
	curChr    uint32
	lastStart uint32
	idx       int
}

// Check validates the next (chr, start) pair against everything seen so
// far. chr must never decrease relative to the highest chromosome id seen;
// within a run of the same chr, start must not decrease.
func (g *SortGuard) Check(chr, start uint32) error {
	defer func() { g.idx++ }()
	if !g.have {
		g.have = true
		g.curChr = chr
		g.lastStart = start
		return nil
	}
	switch {
	case chr < g.curChr:
		return &bpcells.SortError{Context: "fragment.chr", Index: g.idx, Previous: uint64(g.curChr), Current: uint64(chr)}
	case chr == g.curChr:
		if start < g.lastStart {
			return &bpcells.SortError{Context: "fragment.start", Index: g.idx, Previous: uint64(g.lastStart), Current: uint64(start)}
		}
	}
	g.curChr = chr
	g.lastStart = start
	return nil
}
