package eval

import (
	"errors"
	"fmt"

	"qls/internal/source"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNoEntry        = errors.New("package has no entry point and no top-level statements")
	ErrUnsupported    = errors.New("unsupported intrinsic")
	ErrStepLimit      = errors.New("step limit exceeded")
)

// Error is a run-time failure at a source location.
type Error struct {
	Span source.Span
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("runtime error at %s: %v", e.Span, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FailError is raised by the Fail intrinsic.
type FailError struct {
	Message string
}

func (e *FailError) Error() string {
	return "program failed: " + e.Message
}
