package eval

import (
	"errors"
	"fmt"

	"github.com/roach88/lamir/internal/ident"
)

// RuntimeErrorCode categorizes evaluation failures.
type RuntimeErrorCode string

const (
	// ErrCodeUnboundVariable indicates a variable with no binding in scope.
	ErrCodeUnboundVariable RuntimeErrorCode = "UNBOUND_VARIABLE"

	// ErrCodeNotCallable indicates an application of a non-function value.
	ErrCodeNotCallable RuntimeErrorCode = "NOT_CALLABLE"

	// ErrCodeTypeMismatch indicates a primitive applied to a value of the wrong kind.
	ErrCodeTypeMismatch RuntimeErrorCode = "TYPE_MISMATCH"

	// ErrCodeNotAssignable indicates an Assign to a binding that is not a Variable let.
	ErrCodeNotAssignable RuntimeErrorCode = "NOT_ASSIGNABLE"

	// ErrCodeUnknownForeign indicates an external symbol or module with no host binding.
	ErrCodeUnknownForeign RuntimeErrorCode = "UNKNOWN_FOREIGN"

	// ErrCodeNoMatch indicates a switch with no branch for its scrutinee.
	ErrCodeNoMatch RuntimeErrorCode = "NO_MATCH"

	// ErrCodeDivisionByZero indicates an integer division or modulo by zero.
	ErrCodeDivisionByZero RuntimeErrorCode = "DIVISION_BY_ZERO"

	// ErrCodeStaticExit indicates a static raise with no enclosing handler for its label.
	ErrCodeStaticExit RuntimeErrorCode = "STATIC_EXIT"
)

// RuntimeError is an evaluation failure of a well-formed tree.
type RuntimeError struct {
	Code    RuntimeErrorCode
	Message string
	Loc     ident.Loc // zero when the failing node carries no location
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if !e.Loc.IsNone() {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Loc)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func runtimeErr(code RuntimeErrorCode, loc ident.Loc, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Loc: loc}
}

// HasCode returns true if err is a RuntimeError with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// StepsExceededError is returned when evaluation exceeds its step quota.
// Non-terminating loops and runaway recursion end here.
type StepsExceededError struct {
	Steps int // Number of steps taken
	Limit int // Maximum allowed steps
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("evaluation exceeded max steps quota: %d steps > %d limit", e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}

// Exception is an uncaught raise. Try handlers catch it; nothing else does.
type Exception struct {
	Value Value
}

// Error implements the error interface.
func (e *Exception) Error() string {
	return "uncaught exception: " + e.Value.String()
}

// staticExit unwinds to the StaticCatch with the same label.
type staticExit struct {
	label int
	args  []Value
}

func (e *staticExit) Error() string {
	return fmt.Sprintf("static exit %d", e.label)
}
