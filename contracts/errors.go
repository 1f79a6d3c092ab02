package contracts

import (
	"errors"
	"fmt"
)

// ErrUnknownService is returned when no service definition exists for a
// method key's service.
var ErrUnknownService = errors.New("unknown service")

// ErrUnknownKind is returned when a descriptor names an interceptor kind
// that has no registered factory.
var ErrUnknownKind = errors.New("unknown interceptor kind")

// ConfigError is a fatal configuration problem detected when a chain is
// first built for a method: an unknown interceptor kind, or a descriptor
// that violates the factory convention. It is non-retriable; the failed
// build is cached and every later call to the method observes the same
// error.
type ConfigError struct {
	Reason string
	Err    error
}

// NewConfigError creates a configuration error. err may be nil.
func NewConfigError(reason string, err error) *ConfigError {
	return &ConfigError{Reason: reason, Err: err}
}

// Error implements error.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interception config: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("interception config: %s", e.Reason)
}

// Unwrap returns the wrapped cause.
func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ResolutionError is a fatal resolution failure: type information is
// unavailable for a method, or a stage dependency cannot be resolved.
// It aborts the affected call immediately and is never silently
// defaulted.
type ResolutionError struct {
	Subject string
	Err     error
}

// NewResolutionError creates a resolution error. err may be nil.
func NewResolutionError(subject string, err error) *ResolutionError {
	return &ResolutionError{Subject: subject, Err: err}
}

// Error implements error.
func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interception resolve: %s: %v", e.Subject, e.Err)
	}
	return fmt.Sprintf("interception resolve: %s", e.Subject)
}

// Unwrap returns the wrapped cause.
func (e *ResolutionError) Unwrap() error { return e.Err }

// IsResolutionError reports whether err is, or wraps, a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}
