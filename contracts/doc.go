// Package contracts defines the core data model shared by every layer of
// the interception engine.
//
// The model is deliberately small:
//   - MethodKey identifies a method on a service and keys the chain cache
//   - ProviderDescriptor declares that an interceptor kind applies to a
//     method or service, with its order and static constructor arguments
//   - Suppression removes inherited descriptors from a specific method
//   - ChainSpec is the resolved, ordered, immutable set of descriptors
//     for one method
//   - Invocation is the mutable per-call record carrying arguments, the
//     return value slot, and the fault slot through the chain
//
// Everything in this package is either immutable after construction or,
// in the case of Invocation, owned exclusively by a single call and never
// shared across calls.
package contracts
