package genome

// StringTable is an ordered, index-addressable sequence of names (spec §3):
// chromosome names, cell barcodes, or matrix row/column names. It may be
// fully materialized in memory or backed lazily by a store; both satisfy
// this interface, and downstream transforms only ever borrow it (spec §9:
// "String tables are owned by the top-most source and passed by borrow to
// downstream transforms").
type StringTable interface {
	// Len returns the number of names, or Unknown if not yet known.
	Len() int
	// Name returns the name at index i. Panics if i is out of range for a
	// materialized table such as Slice.
	Name(i int) string
}

// Slice is a StringTable backed by a fully materialized []string.
type Slice []string

func (s Slice) Len() int          { return len(s) }
func (s Slice) Name(i int) string { return s[i] }

// Builder accumulates names while their count is still unknown (spec §9:
// counts may be discovered late), then freezes into a Slice.
type Builder struct {
	names []string
	index map[string]int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Intern returns the dense id for name, assigning a new one on first sight.
func (b *Builder) Intern(name string) int {
	if id, ok := b.index[name]; ok {
		return id
	}
	id := len(b.names)
	b.names = append(b.names, name)
	b.index[name] = id
	return id
}

// Len returns the number of distinct names interned so far.
func (b *Builder) Len() int { return len(b.names) }

// Name returns the name at index i and true, or ("", false) if i is out of
// range. Unlike Freeze, it does not copy the backing slice, so callers on a
// hot path (e.g. a streaming reader resolving one id per record) should
// prefer it over Freeze()[i].
func (b *Builder) Name(i int) (string, bool) {
	if i < 0 || i >= len(b.names) {
		return "", false
	}
	return b.names[i], true
}

// Freeze returns the accumulated names as an immutable StringTable.
func (b *Builder) Freeze() Slice {
	out := make(Slice, len(b.names))
	copy(out, b.names)
	return out
}
