package chain

import (
	"context"
	"fmt"
	"sort"

	"github.com/bergvall/intercept-go/contracts"
)

// Builder materializes resolved chain specs into executable chains. It
// validates every descriptor against the kind registry; an unknown kind
// is a fatal configuration error surfaced at first build.
type Builder struct {
	kinds *KindRegistry
}

// NewBuilder creates a builder over the given kind registry.
func NewBuilder(kinds *KindRegistry) *Builder {
	return &Builder{kinds: kinds}
}

// stage pairs a sorted descriptor with its factory.
type stage struct {
	desc    contracts.ResolvedDescriptor
	factory Factory
}

// Chain is the immutable, ordered pipeline for one method. It carries no
// per-call state; Instantiate creates fresh stage instances for each
// call.
type Chain struct {
	method contracts.MethodKey
	stages []stage
}

// Build validates and orders spec into a Chain. The ordering is a total
// order: primary key is the descriptor's declared order ascending (lower
// runs closer to the caller), ties break by declaration depth ascending
// (method before service before ancestor), remaining ties by discovery
// sequence. Building is pure and executes nothing.
func (b *Builder) Build(spec contracts.ChainSpec) (*Chain, error) {
	c := &Chain{
		method: spec.Method,
		stages: make([]stage, 0, len(spec.Entries)),
	}
	for _, entry := range spec.Entries {
		factory, ok := b.kinds.Lookup(entry.Kind)
		if !ok {
			return nil, contracts.NewConfigError(
				fmt.Sprintf("method %s references interceptor kind %q", spec.Method, entry.Kind),
				contracts.ErrUnknownKind,
			)
		}
		c.stages = append(c.stages, stage{desc: entry, factory: factory})
	}

	sort.Slice(c.stages, func(i, j int) bool {
		di, dj := c.stages[i].desc, c.stages[j].desc
		if di.Order != dj.Order {
			return di.Order < dj.Order
		}
		if di.Depth != dj.Depth {
			return di.Depth < dj.Depth
		}
		return di.Seq < dj.Seq
	})

	return c, nil
}

// Method returns the method this chain was built for.
func (c *Chain) Method() contracts.MethodKey {
	return c.method
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Descriptors returns the stage descriptors in execution order.
func (c *Chain) Descriptors() []contracts.ResolvedDescriptor {
	out := make([]contracts.ResolvedDescriptor, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.desc
	}
	return out
}

// Instantiate constructs one interceptor instance per stage for a single
// call, resolving each stage's dependencies through deps and passing its
// descriptor's static arguments. Instances live for one call.
func (c *Chain) Instantiate(deps DependencyResolver) ([]Interceptor, error) {
	instances := make([]Interceptor, len(c.stages))
	for i, s := range c.stages {
		inst, err := s.factory(deps, s.desc.Args)
		if err != nil {
			return nil, fmt.Errorf("instantiating %q stage for %s: %w", s.desc.Kind, c.method, err)
		}
		instances[i] = inst
	}
	return instances, nil
}

// Execute instantiates the stages for one call and runs them in order,
// each wrapping the next, with terminal invoked last. A stage that does
// not call its continuation stops the chain; terminal never runs.
func (c *Chain) Execute(ctx context.Context, inv *contracts.Invocation, deps DependencyResolver, terminal Handler) error {
	if len(c.stages) == 0 {
		return terminal.Handle(ctx, inv)
	}

	instances, err := c.Instantiate(deps)
	if err != nil {
		return err
	}

	// Wrap back to front so instances[0] runs first.
	next := terminal
	for i := len(instances) - 1; i >= 0; i-- {
		interceptor := instances[i]
		continuation := next
		next = HandlerFunc(func(ctx context.Context, inv *contracts.Invocation) error {
			return interceptor.Intercept(ctx, inv, continuation)
		})
	}

	return next.Handle(ctx, inv)
}
