package metadata

import (
	"fmt"

	"github.com/bergvall/intercept-go/contracts"
)

// Resolver computes the final descriptor set for a method from the
// registry's declaration hierarchy. Resolution is pure: identical
// registry state always yields an identical ChainSpec.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver over the given registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve walks the declaration hierarchy for key and returns the
// suppression-applied descriptor set, each entry tagged with its
// declaration depth (0 = method, 1 = declaring service, 2+ = ancestor
// distance) and its stable discovery sequence.
//
// Method-level descriptors survive every suppression. Descriptors of the
// same kind declared at different levels are all kept; they may carry
// different static arguments. A method with no applicable descriptors
// resolves to an empty spec.
func (r *Resolver) Resolve(key contracts.MethodKey) (contracts.ChainSpec, error) {
	if _, ok := r.registry.Service(key.Service); !ok {
		return contracts.ChainSpec{}, contracts.NewResolutionError(
			fmt.Sprintf("no type information for service %s", key.Service),
			contracts.ErrUnknownService,
		)
	}

	spec := contracts.ChainSpec{Method: key}
	seq := 0

	// Method-level descriptors, depth 0. Immune to suppression.
	for _, d := range r.registry.DescriptorsForMethod(key) {
		spec.Entries = append(spec.Entries, contracts.ResolvedDescriptor{
			ProviderDescriptor: d,
			Depth:              0,
			Seq:                seq,
		})
		seq++
	}

	suppressions := r.registry.SuppressionsForMethod(key)

	// Declaring service and ancestors, breadth-first, most-derived first.
	// Depth grows with distance; list order within a level is the
	// registration order of the Implements slice, which breaks ordering
	// ties between same-order, same-depth descriptors deterministically.
	type frontier struct {
		name  string
		depth int
	}
	queue := []frontier{{name: key.Service, depth: 1}}
	visited := map[string]bool{key.Service: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		curDef, ok := r.registry.Service(cur.name)
		if !ok {
			return contracts.ChainSpec{}, contracts.NewResolutionError(
				fmt.Sprintf("service %s implements unregistered contract %s", key.Service, cur.name),
				contracts.ErrUnknownService,
			)
		}

		for _, d := range curDef.Descriptors {
			if suppressed(d.Kind, suppressions) {
				continue
			}
			spec.Entries = append(spec.Entries, contracts.ResolvedDescriptor{
				ProviderDescriptor: d,
				Depth:              cur.depth,
				Seq:                seq,
			})
			seq++
		}

		for _, ancestor := range curDef.Implements {
			if visited[ancestor] {
				continue
			}
			visited[ancestor] = true
			queue = append(queue, frontier{name: ancestor, depth: cur.depth + 1})
		}
	}

	return spec, nil
}

func suppressed(kind string, suppressions []contracts.Suppression) bool {
	for _, s := range suppressions {
		if s.Suppresses(kind) {
			return true
		}
	}
	return false
}
