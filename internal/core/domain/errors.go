// Package domain defines the core value types of snapkv.
package domain

import (
	"errors"
	"fmt"
)

// DomainError is a failure with a stable, machine-readable code.
//
// Codes have the form KV-<AREA>-<NNNN>, where the numeric part mirrors the
// closest HTTP status (4000 bad request, 4040 not found).
type DomainError struct {
	Code    string // e.g. "KV-ARG-4000"
	Message string // human-readable message
	Details string // optional extra context
	Cause   error  // wrapped error, if any
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code, so callers can use
// errors.Is(err, ErrNoBackupAvailable) regardless of attached details.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a DomainError.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of e carrying details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of e wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError reports whether err is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// GetErrorCode extracts the code of a DomainError, or "".
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Argument errors (ARG).
var (
	// ErrInvalidArgument is returned when a required key or field is missing.
	// It is never returned for well-formed identifiers that simply do not exist.
	ErrInvalidArgument = NewDomainError("KV-ARG-4000", "key and field are required")
)

// Backup errors (BKP).
var (
	// ErrNoBackupAvailable is returned by restore when no snapshot exists at
	// or before the requested restore time.
	ErrNoBackupAvailable = NewDomainError("KV-BKP-4040", "no backup available for restoration")
)
