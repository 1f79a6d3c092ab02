package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/metadata"
)

// RealInvoker invokes the real implementation of a method on target with
// the invocation's current argument values. Proxies supply one per
// forwarded method, closing over the concrete method call.
type RealInvoker func(ctx context.Context, target any, args []any) (any, error)

// Dispatcher routes intercepted calls through their per-method chains.
// It is safe for concurrent use; the chain cache is its only shared
// mutable state.
type Dispatcher struct {
	resolver *metadata.Resolver
	builder  *chain.Builder
	cache    *chain.Cache
	deps     chain.DependencyResolver
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher's logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithDependencyResolver sets the resolver used to satisfy interceptor
// factory dependencies. Without one, any stage that asks for a dependency
// fails its call with a resolution error.
func WithDependencyResolver(deps chain.DependencyResolver) DispatcherOption {
	return func(d *Dispatcher) {
		d.deps = deps
	}
}

// NewDispatcher creates a dispatcher over the given descriptor resolver
// and interceptor kind registry.
func NewDispatcher(resolver *metadata.Resolver, kinds *chain.KindRegistry, options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		resolver: resolver,
		builder:  chain.NewBuilder(kinds),
		cache:    chain.NewCache(),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.deps == nil {
		d.deps = chain.DependencyResolverFunc(func(name string) (any, error) {
			return nil, contracts.NewResolutionError("dependency "+name, nil)
		})
	}
	return d
}

// Invoke runs one intercepted call. The chain for method is fetched from
// the cache, building it on first use; resolution and build failures are
// fatal configuration errors and every later call to the same method
// observes the same error. The invocation's result slot is returned to
// the caller, or the fault is propagated unmodified. If the chain
// completes without setting a result and without a fault, the result is
// nil.
func (d *Dispatcher) Invoke(ctx context.Context, method contracts.MethodKey, target any, args []any, real RealInvoker) (any, error) {
	ch, err := d.cache.GetOrBuild(method, func() (*chain.Chain, error) {
		spec, err := d.resolver.Resolve(method)
		if err != nil {
			return nil, err
		}
		built, err := d.builder.Build(spec)
		if err != nil {
			return nil, err
		}
		d.logger.Debug("built interceptor chain",
			"method", method.String(),
			"stages", built.Len(),
		)
		return built, nil
	})
	if err != nil {
		return nil, err
	}

	inv := contracts.NewInvocation(method, target, args)
	start := time.Now()

	terminal := chain.HandlerFunc(func(ctx context.Context, inv *contracts.Invocation) error {
		res, err := real(ctx, inv.Target(), inv.Args())
		if err != nil {
			inv.SetFault(err)
			return err
		}
		inv.SetResult(res)
		return nil
	})

	if err := ch.Execute(ctx, inv, d.deps, terminal); err != nil {
		d.logger.Debug("intercepted call failed",
			"method", method.String(),
			"invocationId", inv.ID(),
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}
	if fault := inv.Fault(); fault != nil {
		return nil, fault
	}

	result, _ := inv.Result()
	d.logger.Debug("intercepted call completed",
		"method", method.String(),
		"invocationId", inv.ID(),
		"duration", time.Since(start),
	)
	return result, nil
}

// CacheLen reports how many method chains have been built or are
// building, for observability in tests and diagnostics.
func (d *Dispatcher) CacheLen() int {
	return d.cache.Len()
}
