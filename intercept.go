// Package intercept is the top-level entry point: it wires the
// descriptor registry, the interceptor kind registry and the dispatcher
// into a single client for attaching cross-cutting behavior to service
// method calls.
//
//	client, err := intercept.NewClient(
//		intercept.WithConfigFile(tableYAML),
//		intercept.WithDependency(interceptors.DepCallCache, store),
//	)
//	proxy := client.Bind("OrderService", svc, dispatch.MethodSet{...})
//	res, err := proxy.Call(ctx, "PlaceOrder", order)
package intercept

import (
	"io"
	"log/slog"

	"github.com/bergvall/intercept-go/chain"
	"github.com/bergvall/intercept-go/contracts"
	"github.com/bergvall/intercept-go/dispatch"
	"github.com/bergvall/intercept-go/interceptors"
	"github.com/bergvall/intercept-go/metadata"
)

// Client bundles the registry, kind registry and dispatcher behind one
// entry point. Zero-value construction goes through NewClient.
type Client struct {
	registry   *metadata.Registry
	kinds      *chain.KindRegistry
	dispatcher *dispatch.Dispatcher
}

type clientConfig struct {
	logger       *slog.Logger
	configs      []io.Reader
	services     []metadata.ServiceDef
	kinds        map[string]chain.Factory
	dependencies map[string]any
	noBuiltins   bool
}

// ClientOption configures NewClient.
type ClientOption func(*clientConfig)

// WithClientLogger sets the logger shared by the registry and the
// dispatcher.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// WithConfig loads a YAML descriptor table from r at construction.
func WithConfig(r io.Reader) ClientOption {
	return func(cfg *clientConfig) {
		cfg.configs = append(cfg.configs, r)
	}
}

// WithService registers a service definition at construction.
func WithService(def metadata.ServiceDef) ClientOption {
	return func(cfg *clientConfig) {
		cfg.services = append(cfg.services, def)
	}
}

// WithKind registers a custom interceptor kind at construction.
func WithKind(kind string, factory chain.Factory) ClientOption {
	return func(cfg *clientConfig) {
		cfg.kinds[kind] = factory
	}
}

// WithDependency registers a value the interceptor factories can
// resolve by name.
func WithDependency(name string, value any) ClientOption {
	return func(cfg *clientConfig) {
		cfg.dependencies[name] = value
	}
}

// WithoutBuiltins skips registration of the built-in interceptor kinds.
func WithoutBuiltins() ClientOption {
	return func(cfg *clientConfig) {
		cfg.noBuiltins = true
	}
}

// NewClient wires a ready-to-dispatch client: built-in interceptor kinds
// (unless disabled), any custom kinds, service definitions and the
// dependency table.
func NewClient(options ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		logger:       slog.Default(),
		kinds:        make(map[string]chain.Factory),
		dependencies: make(map[string]any),
	}
	for _, opt := range options {
		opt(cfg)
	}

	kinds := chain.NewKindRegistry()
	if !cfg.noBuiltins {
		if err := interceptors.RegisterBuiltins(kinds); err != nil {
			return nil, err
		}
	}
	for kind, factory := range cfg.kinds {
		if err := kinds.Register(kind, factory); err != nil {
			return nil, err
		}
	}

	registry := metadata.NewRegistry(metadata.WithRegistryLogger(cfg.logger))
	for _, r := range cfg.configs {
		if err := metadata.LoadConfig(r, registry); err != nil {
			return nil, err
		}
	}
	for _, def := range cfg.services {
		if err := registry.RegisterService(def); err != nil {
			return nil, err
		}
	}

	deps := cfg.dependencies
	if _, ok := deps[interceptors.DepLogger]; !ok {
		deps[interceptors.DepLogger] = cfg.logger
	}
	resolver := chain.DependencyResolverFunc(func(name string) (any, error) {
		if v, ok := deps[name]; ok {
			return v, nil
		}
		return nil, contracts.NewResolutionError("dependency "+name, nil)
	})

	dispatcher := dispatch.NewDispatcher(
		metadata.NewResolver(registry),
		kinds,
		dispatch.WithLogger(cfg.logger),
		dispatch.WithDependencyResolver(resolver),
	)

	return &Client{
		registry:   registry,
		kinds:      kinds,
		dispatcher: dispatcher,
	}, nil
}

// Dispatcher exposes the underlying dispatcher for generated proxies.
func (c *Client) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}

// Registry exposes the descriptor registry for late registrations.
func (c *Client) Registry() *metadata.Registry {
	return c.registry
}

// Bind ties a target instance and its method set to the dispatcher,
// returning the binding callers invoke instead of the target.
func (c *Client) Bind(service string, target any, methods dispatch.MethodSet) *dispatch.Binding {
	return dispatch.NewBinding(c.dispatcher, service, target, methods)
}
