package bytestore

import (
	"sync"

	bpcells "github.com/wjgreenleaf/BPCells"
)

// Memory is an in-memory Store implementation, the "in-memory vectors"
// backend from spec §4.1. It has no filesystem dependency and is the
// natural choice for tests and small in-process pipelines. Safe for
// concurrent reads; not safe for concurrent writes to the same array,
// matching the single-threaded pull model of spec §5.
type Memory struct {
	mu      sync.RWMutex
	u32     map[string][]uint32
	u64     map[string][]uint64
	f32     map[string][]float32
	strs    map[string][]string
	version string
	attrs   map[string]string
}

// NewMemory creates an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{
		u32:   make(map[string][]uint32),
		u64:   make(map[string][]uint64),
		f32:   make(map[string][]float32),
		strs:  make(map[string][]string),
		attrs: make(map[string]string),
	}
}

func (m *Memory) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.u32[name]; ok {
		return true
	}
	if _, ok := m.u64[name]; ok {
		return true
	}
	if _, ok := m.f32[name]; ok {
		return true
	}
	_, ok := m.strs[name]
	return ok
}

func (m *Memory) ListChildren() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.u32)+len(m.u64)+len(m.f32)+len(m.strs))
	for n := range m.u32 {
		names = append(names, n)
	}
	for n := range m.u64 {
		names = append(names, n)
	}
	for n := range m.f32 {
		names = append(names, n)
	}
	for n := range m.strs {
		names = append(names, n)
	}
	return names, nil
}

func (m *Memory) OpenReadU32(name string) (Uint32Array, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.u32[name]
	if !ok {
		return nil, wrapNotFound(name)
	}
	return &memU32Array{vals: vals}, nil
}

func (m *Memory) OpenReadU64(name string) (Uint64Array, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.u64[name]
	if !ok {
		return nil, wrapNotFound(name)
	}
	return &memU64Array{vals: vals}, nil
}

func (m *Memory) OpenReadF32(name string) (Float32Array, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.f32[name]
	if !ok {
		return nil, wrapNotFound(name)
	}
	return &memF32Array{vals: vals}, nil
}

func (m *Memory) CreateWriteU32(name string, _ int) (Uint32Writer, error) {
	if m.Has(name) {
		return nil, bpcells.ErrConflict
	}
	return &memU32Writer{store: m, name: name}, nil
}

func (m *Memory) CreateWriteU64(name string, _ int) (Uint64Writer, error) {
	if m.Has(name) {
		return nil, bpcells.ErrConflict
	}
	return &memU64Writer{store: m, name: name}, nil
}

func (m *Memory) CreateWriteF32(name string, _ int) (Float32Writer, error) {
	if m.Has(name) {
		return nil, bpcells.ErrConflict
	}
	return &memF32Writer{store: m, name: name}, nil
}

func (m *Memory) ReadStringArray(name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.strs[name]
	if !ok {
		return nil, wrapNotFound(name)
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out, nil
}

func (m *Memory) WriteStringArray(name string, values []string) error {
	if m.Has(name) {
		return bpcells.ErrConflict
	}
	cp := make([]string, len(values))
	copy(cp, values)
	m.mu.Lock()
	m.strs[name] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Version() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version, nil
}

func (m *Memory) SetVersion(version string) error {
	m.mu.Lock()
	m.version = version
	m.mu.Unlock()
	return nil
}

// Attr/SetAttr use a separate attrs map rather than folding "version" in,
// since version has its own dedicated field predating this generic
// mechanism and every existing caller goes through Version/SetVersion.

func (m *Memory) Attr(name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.attrs[name]
	return v, ok, nil
}

func (m *Memory) SetAttr(name, value string) error {
	m.mu.Lock()
	m.attrs[name] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

func wrapNotFound(name string) error {
	return &namedNotFound{name: name}
}

type namedNotFound struct{ name string }

func (e *namedNotFound) Error() string { return "bytestore: " + e.name + ": not found" }
func (e *namedNotFound) Unwrap() error { return bpcells.ErrNotFound }

// --- typed array/writer handles ---

type memU32Array struct{ vals []uint32 }

func (a *memU32Array) Len() int { return len(a.vals) }
func (a *memU32Array) ReadAt(start int, out []uint32) (int, error) {
	if start >= len(a.vals) {
		return 0, nil
	}
	n := copy(out, a.vals[start:])
	return n, nil
}
func (a *memU32Array) Close() error { return nil }

type memU64Array struct{ vals []uint64 }

func (a *memU64Array) Len() int { return len(a.vals) }
func (a *memU64Array) ReadAt(start int, out []uint64) (int, error) {
	if start >= len(a.vals) {
		return 0, nil
	}
	n := copy(out, a.vals[start:])
	return n, nil
}
func (a *memU64Array) Close() error { return nil }

type memF32Array struct{ vals []float32 }

func (a *memF32Array) Len() int { return len(a.vals) }
func (a *memF32Array) ReadAt(start int, out []float32) (int, error) {
	if start >= len(a.vals) {
		return 0, nil
	}
	n := copy(out, a.vals[start:])
	return n, nil
}
func (a *memF32Array) Close() error { return nil }

type memU32Writer struct {
	store *Memory
	name  string
	buf   []uint32
}

func (w *memU32Writer) Append(vals []uint32) error {
	w.buf = append(w.buf, vals...)
	return nil
}
func (w *memU32Writer) Finalize() error {
	w.store.mu.Lock()
	w.store.u32[w.name] = w.buf
	w.store.mu.Unlock()
	return nil
}

type memU64Writer struct {
	store *Memory
	name  string
	buf   []uint64
}

func (w *memU64Writer) Append(vals []uint64) error {
	w.buf = append(w.buf, vals...)
	return nil
}
func (w *memU64Writer) Finalize() error {
	w.store.mu.Lock()
	w.store.u64[w.name] = w.buf
	w.store.mu.Unlock()
	return nil
}

type memF32Writer struct {
	store *Memory
	name  string
	buf   []float32
}

func (w *memF32Writer) Append(vals []float32) error {
	w.buf = append(w.buf, vals...)
	return nil
}
func (w *memF32Writer) Finalize() error {
	w.store.mu.Lock()
	w.store.f32[w.name] = w.buf
	w.store.mu.Unlock()
	return nil
}
