// Package domain holds the schedule console's core types and the error
// vocabulary shared by every layer.
package domain

import "fmt"

// NotFoundError reports that the requested resource does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError reports that the caller lacks the required permission.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a clash with existing state, such as a duplicate
// resource or an operation already in progress.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UpstreamError indicates the orchestrator request itself failed: transport
// errors, non-2xx responses, GraphQL-level errors, or an undecodable payload.
// Failures the orchestrator reports inside a successful response travel as
// BackendError values in the query result, not as UpstreamError.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

// ErrNotFound formats a NotFoundError.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied formats an AccessDeniedError.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation formats a ValidationError.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict formats a ConflictError.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrUpstream formats an UpstreamError.
func ErrUpstream(format string, args ...interface{}) *UpstreamError {
	return &UpstreamError{Message: fmt.Sprintf(format, args...)}
}
