// Package errors defines custom error types for the TrustWire library
package errors

import "fmt"

// DomainError represents errors in the credential domain logic
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped instances created with
// NewDomainError still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Common domain errors
var (
	ErrKeyCertPairMismatch = &DomainError{
		Code:    "INVALID_ARGUMENT",
		Message: "private key and certificate chain must be provided together or omitted together",
	}

	ErrComposeInsecure = &DomainError{
		Code:    "INVALID_OPERATION",
		Message: "cannot compose insecure credential",
	}

	ErrCredentialReleased = &DomainError{
		Code:    "CREDENTIAL_RELEASED",
		Message: "credential handle has already been released",
	}

	ErrCredentialConstruction = &DomainError{
		Code:    "CONSTRUCTION_FAILED",
		Message: "security provider failed to construct credential",
	}

	ErrMissingCallCredential = &DomainError{
		Code:    "INVALID_ARGUMENT",
		Message: "call credential is required",
	}
)

// NewDomainError creates a new domain error with context
func NewDomainError(base *DomainError, err error) error {
	return &DomainError{
		Code:    base.Code,
		Message: base.Message,
		Err:     err,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}
