// Package chain turns a resolved descriptor set into an executable
// interceptor pipeline and caches the result per method.
//
// Interceptor kinds are registered in a KindRegistry as factories. The
// Builder validates every descriptor against the registry, sorts the set
// into its final total order and produces an immutable Chain. A Chain
// instantiates fresh stage instances for every call; stages wrap each
// other back to front so that the lowest-order stage runs closest to the
// caller and the terminal handler invokes the real implementation.
//
// The Cache guarantees at most one build per method key under concurrent
// first calls. Build failures are configuration errors and are cached
// like successful builds: they surface on first use and on every use
// after that, never rebuilding.
package chain
