package types

import (
	"errors"
	"fmt"
	"runtime"
)

// StackFrame is one persisted call-stack entry of a PersistedThrowable.
type StackFrame struct {
	ClassName  string
	MethodName string
	FileName   string
	LineNumber int32
}

// PersistedThrowable is the fixed record shape used to persist caught
// failures. Deserialization always materializes this record; the original
// error type is never reconstructed.
type PersistedThrowable struct {
	ClassName  string
	Message    string
	StackTrace []StackFrame
	Cause      *PersistedThrowable
}

// Error implements the error interface.
func (t *PersistedThrowable) Error() string {
	if t.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %s)", t.ClassName, t.Message, t.Cause.Error())
	}

	return fmt.Sprintf("%s: %s", t.ClassName, t.Message)
}

// Unwrap returns the persisted cause, if any.
func (t *PersistedThrowable) Unwrap() error {
	if t.Cause == nil {
		return nil
	}

	return t.Cause
}

// PersistError converts err into a PersistedThrowable, capturing the current
// call stack and following the wrapped-error chain as the cause chain.
func PersistError(err error) *PersistedThrowable {
	if err == nil {
		return nil
	}

	frames := captureFrames(2)

	head := &PersistedThrowable{
		ClassName:  fmt.Sprintf("%T", err),
		Message:    err.Error(),
		StackTrace: frames,
	}

	cur := head
	for wrapped := errors.Unwrap(err); wrapped != nil; wrapped = errors.Unwrap(wrapped) {
		cur.Cause = &PersistedThrowable{
			ClassName: fmt.Sprintf("%T", wrapped),
			Message:   wrapped.Error(),
		}
		cur = cur.Cause
	}

	return head
}

func captureFrames(skip int) []StackFrame {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		out = append(out, StackFrame{
			MethodName: frame.Function,
			FileName:   frame.File,
			LineNumber: int32(frame.Line),
		})
		if !more {
			break
		}
	}

	return out
}

// Try holds the outcome of a computation: a success value or a persisted
// failure. The zero value is a success holding T's zero value.
type Try[T any] struct {
	value   T
	failure *PersistedThrowable
}

// Success creates a Try holding a value.
func Success[T any](v T) Try[T] {
	return Try[T]{value: v}
}

// Failure creates a Try holding a persisted failure.
func Failure[T any](t *PersistedThrowable) Try[T] {
	return Try[T]{failure: t}
}

// IsSuccess reports whether the Try holds a value.
func (t Try[T]) IsSuccess() bool {
	return t.failure == nil
}

// Value returns the success value and whether it is the held side.
func (t Try[T]) Value() (T, bool) {
	return t.value, t.failure == nil
}

// FailureValue returns the persisted failure, or nil for a success.
func (t Try[T]) FailureValue() *PersistedThrowable {
	return t.failure
}
