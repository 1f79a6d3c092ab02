package contracts

import "fmt"

// MethodKey identifies a method on a service. It is comparable, so it can
// be used directly as a map key; equality is structural.
type MethodKey struct {
	Service string
	Method  string
}

// NewMethodKey creates a method key for the given service and method names.
func NewMethodKey(service, method string) MethodKey {
	return MethodKey{Service: service, Method: method}
}

// String returns the canonical "Service.Method" form.
func (k MethodKey) String() string {
	return fmt.Sprintf("%s.%s", k.Service, k.Method)
}

// IsZero reports whether the key is empty.
func (k MethodKey) IsZero() bool {
	return k.Service == "" && k.Method == ""
}
