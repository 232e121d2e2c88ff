package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// GraphInconsistent indicates a directed graph failed its adjacency invariants
	GraphInconsistent ErrorCode = "GRAPH_INCONSISTENT"
	// MissingEdgeSource indicates a merged edge with neither static nor runtime evidence
	MissingEdgeSource ErrorCode = "MISSING_EDGE_SOURCE"
	// InvalidCallFact indicates a static or runtime call record violated its invariants
	InvalidCallFact ErrorCode = "INVALID_CALL_FACT"
	// InvalidViolation indicates a violation record with an empty required field
	InvalidViolation ErrorCode = "INVALID_VIOLATION"
	// ConfigInvalid indicates a malformed configuration or rules file
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// CollectFailed indicates a collector could not produce call facts
	CollectFailed ErrorCode = "COLLECT_FAILED"
	// TraceInvalid indicates a runtime trace file could not be decoded
	TraceInvalid ErrorCode = "TRACE_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// CheckError represents a layercheck error with a stable code and message.
//
// Construction-time invariant failures (GRAPH_INCONSISTENT, MISSING_EDGE_SOURCE,
// INVALID_CALL_FACT, INVALID_VIOLATION) are integration defects: callers must
// treat them as fatal and must not catch-and-continue. Detected architecture
// problems are never CheckErrors; they are returned as Violation values.
type CheckError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new CheckError
func New(code ErrorCode, message string) *CheckError {
	return &CheckError{Code: code, Message: message}
}

// Newf creates a new CheckError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CheckError {
	return &CheckError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new CheckError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *CheckError {
	return &CheckError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CheckError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CheckError) WithDetails(details interface{}) *CheckError {
	e.Details = details
	return e
}

// As is errors.As from the standard library, re-exported so callers need
// only one errors import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// CodeOf returns the error's code, or INTERNAL_ERROR for errors that did not
// originate here.
func CodeOf(err error) ErrorCode {
	var ce *CheckError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}

// IsInvariant reports whether the error is a construction-time invariant
// violation (a programmer/integration defect rather than bad user input).
func (e *CheckError) IsInvariant() bool {
	switch e.Code {
	case GraphInconsistent, MissingEdgeSource, InvalidCallFact, InvalidViolation:
		return true
	}
	return false
}
