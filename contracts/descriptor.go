package contracts

import "fmt"

// DeclarationSite indicates where a provider descriptor was declared.
type DeclarationSite int

const (
	// SiteMethod marks a descriptor declared directly on a method.
	SiteMethod DeclarationSite = iota
	// SiteService marks a descriptor declared on a service or one of its
	// ancestor contracts, applying to all of its methods.
	SiteService
)

// String returns a human-readable site name.
func (s DeclarationSite) String() string {
	switch s {
	case SiteMethod:
		return "method"
	case SiteService:
		return "service"
	default:
		return fmt.Sprintf("site(%d)", int(s))
	}
}

// ProviderDescriptor declares that an interceptor kind applies to a method
// or service. Order is the primary sort key when the chain is built; lower
// orders run closer to the caller. Args are opaque static values handed to
// the interceptor factory positionally, after any resolved dependencies.
//
// The same kind may legally appear more than once on the same method, with
// different arguments; descriptors are never deduplicated.
type ProviderDescriptor struct {
	Kind  string
	Order int
	Args  []any
	Site  DeclarationSite
}

// Validate checks the descriptor for structural problems.
func (d ProviderDescriptor) Validate() error {
	if d.Kind == "" {
		return NewConfigError("descriptor has empty interceptor kind", nil)
	}
	return nil
}

// Suppression removes inherited provider descriptors from a specific
// method. An empty Kinds set suppresses every inherited descriptor.
// Suppressions attach at the method level only and never remove a
// descriptor declared directly on the same method.
type Suppression struct {
	Kinds []string
}

// SuppressesAll reports whether the directive suppresses every inherited
// kind.
func (s Suppression) SuppressesAll() bool {
	return len(s.Kinds) == 0
}

// Suppresses reports whether the directive removes descriptors of kind.
func (s Suppression) Suppresses(kind string) bool {
	if s.SuppressesAll() {
		return true
	}
	for _, k := range s.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ResolvedDescriptor is a provider descriptor tagged with its position in
// the declaration hierarchy. Depth 0 is the method itself, 1 the declaring
// service, 2 and up the distance along the ancestor chain. Seq is the
// stable discovery order during resolution and breaks the final ordering
// tie between descriptors with equal order and depth.
type ResolvedDescriptor struct {
	ProviderDescriptor
	Depth int
	Seq   int
}

// ChainSpec is the resolved, suppression-applied descriptor sequence for
// one method. It is immutable once computed and cached per MethodKey for
// the lifetime of the process.
type ChainSpec struct {
	Method  MethodKey
	Entries []ResolvedDescriptor
}

// Empty reports whether the spec resolves to no interceptors, in which
// case dispatch degenerates to a direct call.
func (s ChainSpec) Empty() bool {
	return len(s.Entries) == 0
}
