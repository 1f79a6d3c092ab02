package metadata

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bergvall/intercept-go/contracts"
)

// MethodDef declares the interceptor attachments of one method: the
// descriptors declared directly on it and the suppressions that filter
// what it inherits from the service and its ancestors.
type MethodDef struct {
	Descriptors  []contracts.ProviderDescriptor
	Suppressions []contracts.Suppression
}

// ServiceDef declares a service (or an ancestor contract another service
// implements): its service-level descriptors, its per-method definitions,
// and the names of the contracts it implements, most-derived first. An
// ancestor contract is registered the same way as a service.
type ServiceDef struct {
	Name        string
	Implements  []string
	Descriptors []contracts.ProviderDescriptor
	Methods     map[string]MethodDef
}

// Registry is the static descriptor table keyed by service name. It is
// populated at startup and read-only afterwards; registration after the
// first resolution is legal but resolved chains are cached by the caller
// and never recomputed.
type Registry struct {
	mu       sync.RWMutex
	services map[string]ServiceDef
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for registration events.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		services: make(map[string]ServiceDef),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RegisterService adds a service definition to the table. Descriptor
// sites are normalized: service-level descriptors get SiteService,
// method-level descriptors SiteMethod, regardless of what the definition
// carries. Registering the same name twice is a configuration mistake.
func (r *Registry) RegisterService(def ServiceDef) error {
	if def.Name == "" {
		return contracts.NewConfigError("service definition has empty name", nil)
	}
	for i := range def.Descriptors {
		if err := def.Descriptors[i].Validate(); err != nil {
			return fmt.Errorf("service %s: %w", def.Name, err)
		}
		def.Descriptors[i].Site = contracts.SiteService
	}
	for name, m := range def.Methods {
		if name == "" {
			return contracts.NewConfigError(fmt.Sprintf("service %s has method with empty name", def.Name), nil)
		}
		for i := range m.Descriptors {
			if err := m.Descriptors[i].Validate(); err != nil {
				return fmt.Errorf("service %s method %s: %w", def.Name, name, err)
			}
			m.Descriptors[i].Site = contracts.SiteMethod
		}
		def.Methods[name] = m
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[def.Name]; exists {
		return contracts.NewConfigError(fmt.Sprintf("service %s already registered", def.Name), nil)
	}
	r.services[def.Name] = def

	r.logger.Debug("registered service definition",
		"service", def.Name,
		"implements", def.Implements,
		"serviceDescriptors", len(def.Descriptors),
		"methods", len(def.Methods),
	)
	return nil
}

// Service returns the definition registered under name.
func (r *Registry) Service(name string) (ServiceDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.services[name]
	return def, ok
}

// DescriptorsForService lists the descriptors declared at the service
// level, applying to all of its methods.
func (r *Registry) DescriptorsForService(service string) []contracts.ProviderDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.services[service]
	if !ok {
		return nil
	}
	out := make([]contracts.ProviderDescriptor, len(def.Descriptors))
	copy(out, def.Descriptors)
	return out
}

// DescriptorsForMethod lists the descriptors declared directly on the
// method, excluding anything inherited.
func (r *Registry) DescriptorsForMethod(key contracts.MethodKey) []contracts.ProviderDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.services[key.Service]
	if !ok {
		return nil
	}
	m, ok := def.Methods[key.Method]
	if !ok {
		return nil
	}
	out := make([]contracts.ProviderDescriptor, len(m.Descriptors))
	copy(out, m.Descriptors)
	return out
}

// SuppressionsForMethod lists the suppression directives declared on the
// method. Suppressions are never inherited.
func (r *Registry) SuppressionsForMethod(key contracts.MethodKey) []contracts.Suppression {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.services[key.Service]
	if !ok {
		return nil
	}
	m, ok := def.Methods[key.Method]
	if !ok {
		return nil
	}
	out := make([]contracts.Suppression, len(m.Suppressions))
	copy(out, m.Suppressions)
	return out
}

// ServiceNames returns the names of every registered service.
func (r *Registry) ServiceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	return names
}
