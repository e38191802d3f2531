package regress

import (
	"errors"
	"fmt"

	"github.com/ethereum-optimism/infra/op-regress/reporting"
)

// RuntimeError means the regression could not be carried out at all: the
// test list did not resolve, commands could not be built or launched, or
// setup failed. The binary exits with exitcodes.RuntimeErr.
type RuntimeError struct {
	Stage string // What was being done, e.g. "resolve test list"
	Err   error
}

func NewRuntimeError(stage string, err error) *RuntimeError {
	return &RuntimeError{Stage: stage, Err: err}
}

func (e *RuntimeError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("runtime error: %v", e.Err)
	}
	return fmt.Sprintf("runtime error: %s: %v", e.Stage, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// TestFailureError means commands ran but some failed or timed out.
// Cause is set when exit-on-error stopped the run early.
type TestFailureError struct {
	Summary reporting.Summary
	Cause   error
}

func NewTestFailureError(summary reporting.Summary, cause error) *TestFailureError {
	return &TestFailureError{Summary: summary, Cause: cause}
}

func (e *TestFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("test failure: %v", e.Cause)
	}
	return fmt.Sprintf("test failure: %s", e.Summary)
}

func (e *TestFailureError) Unwrap() error {
	return e.Cause
}

func IsRuntimeError(err error) bool {
	_, ok := errors.AsType[*RuntimeError](err)
	return ok
}

func IsTestFailureError(err error) bool {
	_, ok := errors.AsType[*TestFailureError](err)
	return ok
}
