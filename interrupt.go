package bpcells

// CheckInterrupt is a caller-supplied hook that iterators poll periodically
// (recommended every 1024 fragments or values, per spec §5) to support
// cancellation of long-running iteration. Returning a non-nil error aborts
// the iteration; the error propagates to the outermost consumer. A nil hook
// disables cancellation entirely.
type CheckInterrupt func(processed uint64) error

// Interrupter wraps a CheckInterrupt hook with a counter and a fixed
// polling period, so callers of the core packages don't need to track
// their own modulo arithmetic.
type Interrupter struct {
	hook   CheckInterrupt
	period uint64
	count  uint64
}

// DefaultInterruptPeriod matches the cadence spec §5 recommends.
const DefaultInterruptPeriod = 1024

// NewInterrupter builds an Interrupter that calls hook every period items.
// A nil hook disables cancellation (Tick always returns nil); a period of 0
// selects DefaultInterruptPeriod.
func NewInterrupter(hook CheckInterrupt, period uint64) *Interrupter {
	if period == 0 {
		period = DefaultInterruptPeriod
	}
	return &Interrupter{hook: hook, period: period}
}

// Tick advances the internal counter by n and, if a polling boundary was
// crossed, invokes the hook. It returns ErrCancelled-wrapping errors as
// produced by the hook, unmodified.
func (ir *Interrupter) Tick(n uint64) error {
	if ir == nil || ir.hook == nil {
		return nil
	}
	before := ir.count / ir.period
	ir.count += n
	after := ir.count / ir.period
	if after == before {
		return nil
	}
	return ir.hook(ir.count)
}
