// Package errors provides structured error handling for the formkit engine.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPath indicates a malformed field path string.
	KindPath
	// KindSchema indicates a form schema loading or decoding failure.
	KindSchema
	// KindLifecycle indicates a field registration lifecycle violation.
	KindLifecycle
	// KindValidation indicates a validation plumbing error (not a field error payload).
	KindValidation
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindSchema:
		return "schema"
	case KindLifecycle:
		return "lifecycle"
	case KindValidation:
		return "validation"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// FormError represents a structured error in the formkit engine.
type FormError struct {
	// Op is the operation that failed (e.g., "control.SetValue").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Path is the field path involved, if applicable.
	Path string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FormError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s [%s] path=%q: %v", e.Op, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "observe.Hub.flush").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// PathError represents a malformed field path string.
//
// A malformed path is the only fault in the engine with no safe fallback:
// missing fields, unmounted fields, and stale lifecycle events all degrade
// to no-ops, but a path that cannot be parsed has no location to degrade to.
type PathError struct {
	// Path is the offending path string.
	Path string
	// Offset is the byte offset where parsing failed.
	Offset int
	// Reason describes the syntax violation.
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("malformed path %q at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// ErrorHandler receives errors reported by the formkit engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *FormError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
