// Package exitcodes defines the standard exit codes used by op-regress.
package exitcodes

// Exit code constants used by op-regress.
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): every command of the regression completed without error
// * TestFailure (1): a command returned a positive exit code or timed out
// * RuntimeErr (2): the run could not proceed, e.g. a malformed test list,
// a missing environment variable or a shell that could not be started
const (
	Success     = 0 // All commands pass
	TestFailure = 1 // Command failures
	RuntimeErr  = 2 // Fatal load, environment or launch errors
)
