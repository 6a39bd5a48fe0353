// Package errors provides the structured error type used across the Lumen
// runtime. Every fatal condition in the instantiation core carries a stable
// code so callers can distinguish configuration faults from contract
// violations without string matching.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind represents different categories of errors.
type Kind string

const (
	KindValidation Kind = "validation"
	KindContract   Kind = "contract"
	KindConfig     Kind = "config"
	KindIO         Kind = "io"
	KindInternal   Kind = "internal"
)

// Error is a structured error with a category, a stable code, and optional
// context. The instantiation core never retries and never degrades: these
// surface immediately to the caller.
type Error struct {
	Kind     Kind
	Code     string
	Message  string
	Cause    error
	Context  map[string]any
	Resource string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Resource != "" {
		parts = append(parts, "resource:"+e.Resource)
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}
	return result
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by kind and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind && e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// WithResource adds resource context.
func (e *Error) WithResource(resource string) *Error {
	e.Resource = resource
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NewContractError creates a programming-contract violation error.
func NewContractError(code, message string) *Error {
	return &Error{Kind: KindContract, Code: code, Message: message}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *Error {
	return &Error{Kind: KindConfig, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *Error {
	return &Error{Kind: KindIO, Code: code, Message: message, Cause: cause}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Cause: cause}
}

// HasCode reports whether err carries the given stable code.
func HasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Common error codes.
const (
	// ErrCodeUnknownCompiler: a definition named a compiler that was never
	// registered with the rendering engine.
	ErrCodeUnknownCompiler = "ERR_UNKNOWN_COMPILER"
	// ErrCodeProviderUnset: a scoped instance provider was resolved before
	// any Prepare call.
	ErrCodeProviderUnset = "ERR_PROVIDER_UNSET"
	// ErrCodeFactoryUnnamed: a nameless default factory reached the
	// replaceable-part lookup path.
	ErrCodeFactoryUnnamed = "ERR_FACTORY_UNNAMED"
	// ErrCodeKeyNotRegistered: container lookup for an unregistered key.
	ErrCodeKeyNotRegistered = "ERR_KEY_NOT_REGISTERED"
	// ErrCodeCircularResolution: a factory resolver re-entered itself.
	ErrCodeCircularResolution = "ERR_CIRCULAR_RESOLUTION"
	// ErrCodeOperationInFlight: BeginComponentOperation called while a prior
	// operation on the same context was not yet disposed.
	ErrCodeOperationInFlight = "ERR_OPERATION_IN_FLIGHT"
	// ErrCodeStateSetTwice: a set-once renderable field was assigned twice.
	ErrCodeStateSetTwice = "ERR_STATE_SET_TWICE"
	// ErrCodeTargetMismatch: instruction rows do not line up with located
	// target nodes.
	ErrCodeTargetMismatch = "ERR_TARGET_MISMATCH"
	// ErrCodeResourceNotFound: a hydrate instruction referenced a resource
	// missing from the context's scope.
	ErrCodeResourceNotFound = "ERR_RESOURCE_NOT_FOUND"
	// ErrCodeBadMarkup: the markup payload could not be parsed.
	ErrCodeBadMarkup = "ERR_BAD_MARKUP"
	// ErrCodeManifestInvalid: a view manifest failed validation.
	ErrCodeManifestInvalid = "ERR_MANIFEST_INVALID"
	// ErrCodeConfigInvalid: configuration failed validation.
	ErrCodeConfigInvalid = "ERR_CONFIG_INVALID"
)

// ErrUnknownCompiler reports a compiler name with no registration.
func ErrUnknownCompiler(name string) *Error {
	return NewConfigError(ErrCodeUnknownCompiler, "no compiler registered under name: "+name)
}

// ErrProviderUnset reports a resolve on a never-prepared provider.
func ErrProviderUnset(key string) *Error {
	return NewContractError(ErrCodeProviderUnset, "provider resolved before prepare").WithResource(key)
}

// ErrFactoryUnnamed reports a nameless factory in replacement lookup.
func ErrFactoryUnnamed() *Error {
	return NewContractError(ErrCodeFactoryUnnamed, "view factory has no name for replacement lookup")
}

// ErrKeyNotRegistered reports a miss for a container key.
func ErrKeyNotRegistered(key string) *Error {
	return NewValidationError(ErrCodeKeyNotRegistered, "key not registered: "+key)
}

// ErrResourceNotFound reports a missing resource registration.
func ErrResourceNotFound(name string) *Error {
	return NewValidationError(ErrCodeResourceNotFound, "resource not found: "+name)
}
