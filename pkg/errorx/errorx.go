package errorx

import (
	"fmt"
)

// SCHEME ERRORS:

// InvalidSchemeError - descriptor string whose scheme is not one of the recognized backends.
type InvalidSchemeError struct {
	message string
}

// NewInvalidSchemeError - InvalidSchemeError constructor.
func NewInvalidSchemeError(msg string, args ...any) *InvalidSchemeError {
	return &InvalidSchemeError{message: fmt.Sprintf(msg, args...)}
}

// Error - return the error string.
func (e *InvalidSchemeError) Error() string {
	return e.message
}

// UnsupportedSchemeError - scheme with no registered driver. Defensive: unreachable
// for descriptors produced by the parser.
type UnsupportedSchemeError struct {
	message string
}

// NewUnsupportedSchemeError - UnsupportedSchemeError constructor.
func NewUnsupportedSchemeError(msg string, args ...any) *UnsupportedSchemeError {
	return &UnsupportedSchemeError{message: fmt.Sprintf(msg, args...)}
}

// Error - return the error string.
func (e *UnsupportedSchemeError) Error() string {
	return e.message
}

// CONNECTION ERRORS:

// ConnectionEstablishError - the underlying driver failed to open a connection
// (bad credentials, unreachable host, malformed path).
type ConnectionEstablishError struct {
	message string
	err     error
}

// NewConnectionEstablishError - ConnectionEstablishError constructor.
func NewConnectionEstablishError(msg string, args ...any) *ConnectionEstablishError {
	return &ConnectionEstablishError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewConnectionEstablishErrorWrapper - ConnectionEstablishError constructor wrapping a driver error.
func NewConnectionEstablishErrorWrapper(err error, msg string, args ...any) *ConnectionEstablishError {
	return &ConnectionEstablishError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (e *ConnectionEstablishError) Error() string {
	if e.err != nil {
		return fmt.Errorf("%s: %w", e.message, e.err).Error()
	}

	return e.message
}

// Unwrap - return the wrapped driver error.
func (e *ConnectionEstablishError) Unwrap() error {
	return e.err
}

// PoolTimeoutError - a blocked acquire abandoned its wait before a connection
// was released.
type PoolTimeoutError struct {
	message string
	err     error
}

// NewPoolTimeoutError - PoolTimeoutError constructor.
func NewPoolTimeoutError(msg string, args ...any) *PoolTimeoutError {
	return &PoolTimeoutError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewPoolTimeoutErrorWrapper - PoolTimeoutError constructor wrapping a context error.
func NewPoolTimeoutErrorWrapper(err error, msg string, args ...any) *PoolTimeoutError {
	return &PoolTimeoutError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (e *PoolTimeoutError) Error() string {
	if e.err != nil {
		return fmt.Errorf("%s: %w", e.message, e.err).Error()
	}

	return e.message
}

// Unwrap - return the wrapped error.
func (e *PoolTimeoutError) Unwrap() error {
	return e.err
}

// QUERY ERRORS:

// QueryExecutionError - the backend rejected a statement (syntax error,
// constraint violation, type mismatch). The driver-native message is preserved.
type QueryExecutionError struct {
	message string
	err     error
}

// NewQueryExecutionError - QueryExecutionError constructor.
func NewQueryExecutionError(msg string, args ...any) *QueryExecutionError {
	return &QueryExecutionError{message: fmt.Sprintf(msg, args...), err: nil}
}

// NewQueryExecutionErrorWrapper - QueryExecutionError constructor wrapping the driver error.
func NewQueryExecutionErrorWrapper(err error, msg string, args ...any) *QueryExecutionError {
	return &QueryExecutionError{message: fmt.Sprintf(msg, args...), err: err}
}

// Error - return the error string.
func (e *QueryExecutionError) Error() string {
	if e.err != nil {
		return fmt.Errorf("%s: %w", e.message, e.err).Error()
	}

	return e.message
}

// Unwrap - return the wrapped driver error.
func (e *QueryExecutionError) Unwrap() error {
	return e.err
}

// UnsupportedParameterTypeError - a bind parameter that no driver can represent
// natively. Rejected at bind time, never silently coerced.
type UnsupportedParameterTypeError struct {
	message string
}

// NewUnsupportedParameterTypeError - UnsupportedParameterTypeError constructor.
func NewUnsupportedParameterTypeError(msg string, args ...any) *UnsupportedParameterTypeError {
	return &UnsupportedParameterTypeError{message: fmt.Sprintf(msg, args...)}
}

// Error - return the error string.
func (e *UnsupportedParameterTypeError) Error() string {
	return e.message
}
