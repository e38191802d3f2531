package types

import (
	"time"
)

// DefaultCommandTimeout is the wait budget applied when an invocation does not set one.
const DefaultCommandTimeout = 999 * time.Second

// CommandStatus represents the classified outcome of a command
type CommandStatus string

const (
	CommandStatusSuccess  CommandStatus = "success"
	CommandStatusError    CommandStatus = "error"
	CommandStatusTimeout  CommandStatus = "timeout"
	CommandStatusSignaled CommandStatus = "signaled"
)

// String implements the Stringer interface for CommandStatus
func (s CommandStatus) String() string {
	return string(s)
}

// Failed reports whether the status counts as a failed command in a run summary.
// A signaled command is not an error under the return-code policy and is not counted.
func (s CommandStatus) Failed() bool {
	return s == CommandStatusError || s == CommandStatusTimeout
}

// Invocation describes one shell command to run
type Invocation struct {
	Name            string        // Label used in logs, reports and log file names
	Command         string        // Shell command line
	Timeout         time.Duration // Wait budget, DefaultCommandTimeout when zero
	ExitOnError     bool          // A positive exit code is reported back as a fatal CommandError
	CheckReturnCode bool          // Classify positive exit codes as errors
}

// NewInvocation returns an invocation with the single-command defaults:
// exit on error and return code checking enabled.
func NewInvocation(command string) Invocation {
	return Invocation{
		Command:         command,
		Timeout:         DefaultCommandTimeout,
		ExitOnError:     true,
		CheckReturnCode: true,
	}
}

// NewBatch returns invocations with the batch defaults: failures are reported
// but do not stop the batch.
func NewBatch(commands []string) []Invocation {
	invs := make([]Invocation, 0, len(commands))
	for _, cmd := range commands {
		inv := NewInvocation(cmd)
		inv.ExitOnError = false
		invs = append(invs, inv)
	}
	return invs
}

// EffectiveTimeout returns the timeout to apply to the invocation
func (i Invocation) EffectiveTimeout() time.Duration {
	if i.Timeout <= 0 {
		return DefaultCommandTimeout
	}
	return i.Timeout
}

// Label returns the name of the invocation, or its command when unnamed
func (i Invocation) Label() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Command
}

// CommandResult captures the outcome of a single command run
type CommandResult struct {
	Invocation Invocation
	Status     CommandStatus
	Output     string // Combined stdout and stderr, empty on timeout
	ExitCode   int    // -1 when the process was terminated by a signal
	Duration   time.Duration
	TimedOut   bool
}
