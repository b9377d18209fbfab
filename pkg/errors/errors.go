// Package errors provides the error taxonomy for the graphmount system.
// Configuration-time failures and request-time dispatch failures are kept
// as distinct families so that a build error can never be mistaken for a
// routine request miss, and so each request-time error maps to its own
// externally visible HTTP status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
// It's an alias for the standard library errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// It's an alias for the standard library errors.As for convenience.
var As = errors.As

// Request-time dispatch errors. Each is distinct so that operators can
// tell "nothing here" from "turned off" from "malformed request" from
// "server misconfiguration".
var (
	// ErrDatasetNotFound indicates the request path names no registered dataset
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrEndpointDisabled indicates the named endpoint exists but is turned off
	ErrEndpointDisabled = errors.New("endpoint disabled")

	// ErrOperationNotResolved indicates no operation could be determined for the request
	ErrOperationNotResolved = errors.New("operation not resolved")

	// ErrHandlerNotResolved indicates a resolved operation has no registered handler.
	// This is a configuration inconsistency, not a client mistake.
	ErrHandlerNotResolved = errors.New("handler not resolved")
)

// General-purpose sentinels shared across packages.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrReadOnly indicates an attempt to modify a read-only resource
	ErrReadOnly = errors.New("read only")

	// ErrInvalidState indicates a lifecycle operation in the wrong state
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidName indicates a dataset name that cannot be canonicalized
	ErrInvalidName = errors.New("invalid name")
)

// StatusCode maps a dispatch error chain to its externally visible HTTP
// status. Unknown errors map to 500 so misconfiguration is never reported
// as a client problem.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOperationNotResolved):
		return http.StatusBadRequest
	case errors.Is(err, ErrEndpointDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ConfigError represents a configuration-time failure. Configuration errors
// are fatal to the build step: the server must not start with one pending.
type ConfigError struct {
	Op   string // what was being configured, e.g. "register dataset"
	Name string // the offending name, if any
	Err  error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("config: %s %q: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Op, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a new ConfigError
func NewConfigError(op, name string, err error) *ConfigError {
	return &ConfigError{Op: op, Name: name, Err: err}
}

// DispatchError wraps a request-time taxonomy sentinel with the resolution
// context it failed in. errors.Is reaches the sentinel through it.
type DispatchError struct {
	Dataset  string
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("dispatch %s/%s: %v", e.Dataset, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("dispatch %s: %v", e.Dataset, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DispatchError) Unwrap() error { return e.Err }

// NewDispatchError creates a new DispatchError
func NewDispatchError(dataset, endpoint string, err error) *DispatchError {
	return &DispatchError{Dataset: dataset, Endpoint: endpoint, Err: err}
}

// WrapResource wraps an error with a verb and resource context.
func WrapResource(verb, resource, name string, err error) error {
	if err == nil {
		return nil
	}
	if name != "" {
		return fmt.Errorf("%s %s %q: %w", verb, resource, name, err)
	}
	return fmt.Errorf("%s %s: %w", verb, resource, err)
}
