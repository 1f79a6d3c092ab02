package contracts

import (
	"github.com/google/uuid"
)

// Invocation is the mutable per-call record carried through an interceptor
// chain. Exactly one Invocation exists per dispatched call; it is owned by
// that call, stages within a call run sequentially, and the record is
// discarded when the call completes, so no locking is needed.
type Invocation struct {
	id     string
	method MethodKey
	target any
	args   []any

	result    any
	resultSet bool
	fault     error
}

// NewInvocation creates the per-call record seeded with the method
// identity, the target instance and the caller's argument values.
func NewInvocation(method MethodKey, target any, args []any) *Invocation {
	return &Invocation{
		id:     uuid.NewString(),
		method: method,
		target: target,
		args:   args,
	}
}

// ID returns the unique identifier of this call, used for log correlation.
func (inv *Invocation) ID() string { return inv.id }

// Method returns the identity of the intercepted method.
func (inv *Invocation) Method() MethodKey { return inv.method }

// Target returns the real service instance the call is aimed at. The
// invocation does not own the target.
func (inv *Invocation) Target() any { return inv.target }

// Args returns the live argument slice. Interceptors may mutate elements;
// the terminal stage invokes the real implementation with the current
// values.
func (inv *Invocation) Args() []any { return inv.args }

// SetArg replaces the argument at index i.
func (inv *Invocation) SetArg(i int, v any) { inv.args[i] = v }

// SetResult records the call's return value. Interceptors run
// sequentially, so a later write deliberately replaces an earlier one;
// the last writer wins. A cache interceptor setting the result without
// calling its continuation is the canonical use.
func (inv *Invocation) SetResult(v any) {
	inv.result = v
	inv.resultSet = true
}

// Result returns the recorded return value and whether one has been set.
func (inv *Invocation) Result() (any, bool) {
	return inv.result, inv.resultSet
}

// SetFault records a fault raised by a stage or the real implementation.
func (inv *Invocation) SetFault(err error) { inv.fault = err }

// Fault returns the recorded fault, if any.
func (inv *Invocation) Fault() error { return inv.fault }

// ClearFault clears the fault slot, for interceptors that recover from a
// downstream failure and substitute a result.
func (inv *Invocation) ClearFault() { inv.fault = nil }
