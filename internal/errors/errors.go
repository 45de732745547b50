// Package errors provides a structured error type hierarchy for the rewind CLI.
//
// This package defines base error types for common error conditions, wrapped error
// types that add contextual information, and helper functions for error wrapping
// and type checking. Wrapping and chain inspection delegate to cockroachdb/errors
// so wrapped errors keep their stack and print the usual "op: cause" message.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - resource not found
//   - ErrInvalid - validation failed
//   - ErrStore - history store operation failed
//   - ErrTerminal - terminal could not be acquired or restored
//
// Wrapped error types (add context):
//   - StoreError{Op, Err} - history store errors
//   - ConfigError{Path, Err} - configuration errors
//   - TerminalError{Err} - interactive terminal errors
//
// # Usage
//
//	// Wrap with context using Wrap
//	return errors.Wrap(err, "openStore")
//
//	// Use structured error types
//	return &errors.StoreError{Op: "search", Err: err}
//
//	// Check error types
//	if errors.IsStore(err) {
//	    // handle store failure
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrStore indicates a history store operation failed.
	ErrStore = baseError("store operation failed")

	// ErrTerminal indicates the terminal could not be driven.
	ErrTerminal = baseError("terminal unavailable")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// StoreError represents an error returned by the history store.
type StoreError struct {
	// Op is the store operation being performed (e.g., "list", "search", "count").
	Op string
	// Err is the underlying error.
	Err error
}

func (e *StoreError) Error() string {
	return "store " + e.Op + ": " + errString(e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStore) match any StoreError.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return "config " + e.Path + ": " + errString(e.Err)
	}
	return "config: " + errString(e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TerminalError represents a failure to acquire or drive the interactive terminal.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return "terminal: " + errString(e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTerminal) match any TerminalError.
func (e *TerminalError) Is(target error) bool { return target == ErrTerminal }

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error allows errors.Is and errors.As to reach the wrapped error.
// Wrap returns nil when err is nil.
func Wrap(err error, op string) error {
	return crdb.Wrap(err, op)
}

// Wrapf is Wrap with a formatted operation name.
func Wrapf(err error, format string, args ...interface{}) error {
	return crdb.Wrapf(err, format, args...)
}

// Newf creates a new formatted error carrying a stack trace.
func Newf(format string, args ...interface{}) error {
	return crdb.Newf(format, args...)
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return crdb.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return crdb.Is(err, ErrInvalid)
}

// IsStore reports whether err is or wraps a store failure.
func IsStore(err error) bool {
	return crdb.Is(err, ErrStore)
}

// IsTerminal reports whether err is or wraps a terminal failure.
func IsTerminal(err error) bool {
	return crdb.Is(err, ErrTerminal)
}

// AsStoreError reports whether err can be typed as a *StoreError.
func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if crdb.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if crdb.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
