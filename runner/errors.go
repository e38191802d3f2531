package runner

import (
	"errors"
	"fmt"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

// LaunchError is returned when the shell for a command cannot be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch command %q: %v", e.Command, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// CommandError is returned when a command exits with a positive return code
// and its invocation asked to stop on errors.
type CommandError struct {
	Result *types.CommandResult
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed with return code %d", e.Result.Invocation.Label(), e.Result.ExitCode)
}

// IsLaunchError checks if the error is or wraps a LaunchError
func IsLaunchError(err error) bool {
	var launchErr *LaunchError
	return err != nil && errors.As(err, &launchErr)
}

// IsCommandError checks if the error is or wraps a CommandError
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return err != nil && errors.As(err, &cmdErr)
}
