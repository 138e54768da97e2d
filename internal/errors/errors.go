// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. This enables better error categorization, logging,
// and user experience by providing context-aware error information.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// MissingConfiguration indicates a required configuration key is absent. Fatal at startup.
	MissingConfiguration Kind = "missing_configuration"
	// UnsupportedEngine indicates an unknown database engine kind. Fatal at startup.
	UnsupportedEngine Kind = "unsupported_engine"
	// DangerousOperation indicates SQL rejected by the safety gate before execution.
	DangerousOperation Kind = "dangerous_operation"
	// GenerationFailure indicates the language model call failed.
	GenerationFailure Kind = "generation_failure"
	// ExecutionFailure indicates the database driver rejected the statement.
	ExecutionFailure Kind = "execution_failure"
	// CacheUnavailable indicates the result cache store is unreachable. Never fatal.
	CacheUnavailable Kind = "cache_unavailable"
	// AuthenticationRequired indicates the client refused a call locally because no session is active.
	AuthenticationRequired Kind = "authentication_required"
	// Unauthorized indicates the server rejected the bearer token (401).
	Unauthorized Kind = "unauthorized"
	// AccessDenied indicates the server refused the operation for this user (403).
	AccessDenied Kind = "access_denied"
	// NotFound indicates the requested endpoint or resource does not exist (404).
	NotFound Kind = "not_found"
	// Timeout indicates an outbound call exceeded its deadline.
	Timeout Kind = "timeout"
	// ConnectionError indicates a transport-level failure reaching a remote service.
	ConnectionError Kind = "connection_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of err when it is (or wraps) an *E, or "" otherwise.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
