package chain

import (
	"context"
	"fmt"
	"sync"

	"github.com/bergvall/intercept-go/contracts"
)

// Handler is one step of an interceptor pipeline: either the next stage's
// continuation or the terminal handler that invokes the real
// implementation.
type Handler interface {
	Handle(ctx context.Context, inv *contracts.Invocation) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, inv *contracts.Invocation) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, inv *contracts.Invocation) error {
	return f(ctx, inv)
}

// Interceptor is a single stage of a method-call pipeline. It may inspect
// or mutate the invocation's arguments and result, continue the chain by
// calling next, or short-circuit by returning without calling next, in
// which case no later stage and no real implementation runs.
type Interceptor interface {
	Intercept(ctx context.Context, inv *contracts.Invocation, next Handler) error

	// Name returns the interceptor name for logging and debugging.
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor.
type InterceptorFunc struct {
	name string
	fn   func(ctx context.Context, inv *contracts.Invocation, next Handler) error
}

// NewInterceptorFunc creates a function-based interceptor.
func NewInterceptorFunc(name string, fn func(ctx context.Context, inv *contracts.Invocation, next Handler) error) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor.
func (i *InterceptorFunc) Intercept(ctx context.Context, inv *contracts.Invocation, next Handler) error {
	return i.fn(ctx, inv, next)
}

// Name implements Interceptor.
func (i *InterceptorFunc) Name() string {
	return i.name
}

// DependencyResolver supplies the dependencies an interceptor factory
// needs, looked up by declared dependency name. A failed lookup is a
// fatal resolution error for the call; it is never silently defaulted.
type DependencyResolver interface {
	Resolve(name string) (any, error)
}

// DependencyResolverFunc is a function adapter for DependencyResolver.
type DependencyResolverFunc func(name string) (any, error)

// Resolve implements DependencyResolver.
func (f DependencyResolverFunc) Resolve(name string) (any, error) {
	return f(name)
}

// Factory constructs one interceptor stage for one call. deps resolves
// the stage's declared dependencies; args are the descriptor's static
// arguments, supplied positionally after the resolved dependencies.
type Factory func(deps DependencyResolver, args []any) (Interceptor, error)

// KindRegistry maps interceptor kind names to their factories. Kinds are
// registered at startup, before the first chain is built.
type KindRegistry struct {
	mu    sync.RWMutex
	kinds map[string]Factory
}

// NewKindRegistry creates an empty kind registry.
func NewKindRegistry() *KindRegistry {
	return &KindRegistry{kinds: make(map[string]Factory)}
}

// Register adds a factory under kind. Registering the same kind twice or
// a nil factory is a configuration error.
func (r *KindRegistry) Register(kind string, factory Factory) error {
	if kind == "" {
		return contracts.NewConfigError("interceptor kind name is empty", nil)
	}
	if factory == nil {
		return contracts.NewConfigError(fmt.Sprintf("interceptor kind %s has nil factory", kind), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[kind]; exists {
		return contracts.NewConfigError(fmt.Sprintf("interceptor kind %s already registered", kind), nil)
	}
	r.kinds[kind] = factory
	return nil
}

// MustRegister is Register but panics on error, for static wiring at
// startup.
func (r *KindRegistry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered under kind.
func (r *KindRegistry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.kinds[kind]
	return f, ok
}
