// internal/driver/errors.go
package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrCollaborator marks failures reported by the backend. They are never retried.
	ErrCollaborator = errors.New("collaborator failure")
	// ErrAssertion matches every *AssertionError.
	ErrAssertion = errors.New("assertion failed")
)

// AssertionError reports a precondition the caller got wrong, such as an
// out-of-range tab index. It is a test failure rather than a runtime fault.
type AssertionError struct {
	Op  string
	Msg string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("driver: %s: assertion failed: %s", e.Op, e.Msg)
}

// Is lets errors.Is(err, ErrAssertion) match any assertion.
func (e *AssertionError) Is(target error) bool {
	return target == ErrAssertion
}

func assertionf(op, format string, args ...any) error {
	return &AssertionError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// collaboratorErr wraps err so it matches both ErrCollaborator and the cause.
func collaboratorErr(op string, err error) error {
	return fmt.Errorf("driver: %s failed: %w: %w", op, ErrCollaborator, err)
}
