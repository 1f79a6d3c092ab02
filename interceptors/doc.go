// Package interceptors provides the built-in interceptor kinds and their
// chain factories.
//
// Each kind wraps a method call with one cross-cutting concern, without
// touching the service implementation:
//   - logging: records entry, outcome and duration via slog
//   - caching: serves repeated calls from a TTL store, short-circuiting
//     the chain (and the real implementation) on a hit
//   - retry: re-invokes the downstream chain on transient failures
//   - metrics: reports call counts, durations and failures to a collector
//   - authorize: denies calls up front, short-circuiting with a fault
//
// RegisterBuiltins wires all of them into a chain.KindRegistry. Factories
// pull their dependencies (logger, cache store, collector, authorizer)
// from the dispatcher's DependencyResolver under the Dep* names and take
// their tuning knobs (TTL, attempt counts) from the descriptor's static
// arguments.
package interceptors
