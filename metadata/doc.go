// Package metadata holds the declarative descriptor table and the
// resolver that turns it into per-method chain specifications.
//
// Instead of source-level annotations, interceptor attachments are
// registered explicitly at startup: each service definition lists the
// descriptors declared on the service itself, the descriptors and
// suppressions declared on individual methods, and the ancestor contracts
// the service implements. Definitions can be registered programmatically
// or loaded from a YAML document via LoadConfig.
//
// Resolution walks the declaration hierarchy from the method outward:
// method-level descriptors first (depth 0, immune to suppression), then
// the declaring service (depth 1), then ancestors breadth-first in the
// order they are listed (depth 2 and up). Method-level suppressions
// remove inherited descriptors only. The result is deterministic for a
// given registry state and performs no I/O.
package metadata
