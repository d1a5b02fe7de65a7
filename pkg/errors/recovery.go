// Package errors provides panic recovery helpers used by the execution backends.
//
// A job that panics must not take the whole process down with it; the backends
// convert the panic into a PanicError and report it like any other job failure.

package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error created from a recovered panic.
type PanicError struct {
	// PanicValue is the value passed to panic().
	PanicValue interface{}

	// StackTrace is the goroutine stack at the time of the panic.
	StackTrace string

	// Operation names the place the panic was recovered.
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String includes the stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// NewPanicError creates a PanicError capturing the current stack.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts a panic into an error assigned to *err. It must be
// deferred directly by the function whose named error result is passed in.
//
//	func (s *Serial) run(job Job) (err error) {
//	    defer Recover(&err, "serial job")
//	    ...
//	}
//
// An error already stored in *err is kept and annotated with the panic.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
			return
		}
		*err = NewPanicError(operation, r)
	}
}

// SafeExecute runs fn and turns a panic into a PanicError.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}

// SafeCall is SafeExecute for functions that also return a value. The zero
// value is returned when fn panics.
func SafeCall[T any](operation string, fn func() (T, error)) (result T, err error) {
	defer Recover(&err, operation)
	return fn()
}
