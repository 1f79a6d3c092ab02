package dispatch

import (
	"context"
	"fmt"

	"github.com/bergvall/intercept-go/contracts"
)

// DispatchFunc is the dispatch surface a proxy forwards into: method
// identity plus packed arguments in, result out.
type DispatchFunc func(ctx context.Context, method contracts.MethodKey, args []any) (any, error)

// MethodSet maps method names to their real invokers for one service.
// It is the hand-written (or generated) substitute for runtime proxy
// generation: each entry closes over the concrete method call on the
// target's type.
type MethodSet map[string]RealInvoker

// Binding ties a target instance and its method set to a dispatcher,
// producing the DispatchFunc a forwarding wrapper calls. It plays the
// CreateProxy role: given a target and the dispatcher, it yields the
// substitutable dispatch surface.
type Binding struct {
	dispatcher *Dispatcher
	service    string
	target     any
	methods    MethodSet
}

// NewBinding creates a binding for target under the given service name.
func NewBinding(dispatcher *Dispatcher, service string, target any, methods MethodSet) *Binding {
	return &Binding{
		dispatcher: dispatcher,
		service:    service,
		target:     target,
		methods:    methods,
	}
}

// Call dispatches method on the bound target through the interceptor
// chain. An unknown method name is a resolution error: the binding's
// method set is the type information for this service.
func (b *Binding) Call(ctx context.Context, method string, args ...any) (any, error) {
	real, ok := b.methods[method]
	if !ok {
		return nil, contracts.NewResolutionError(
			fmt.Sprintf("method %s.%s has no binding", b.service, method), nil)
	}
	key := contracts.NewMethodKey(b.service, method)
	return b.dispatcher.Invoke(ctx, key, b.target, args, real)
}

// Dispatch returns the binding as a DispatchFunc for callers that carry
// the method key themselves.
func (b *Binding) Dispatch() DispatchFunc {
	return func(ctx context.Context, method contracts.MethodKey, args []any) (any, error) {
		return b.Call(ctx, method.Method, args...)
	}
}
