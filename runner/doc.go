// Package runner provides components for executing shell commands derived from
// resolved test lists.
//
// The main components are:
//   - CommandExecutor: runs a single command with a timeout and return code classification
//   - ParallelExecutor: launches a batch of commands at once and waits on them in submission order
//   - TerminalRestorer: resets the controlling terminal after each batch wait
//   - ProgressIndicator: reports batch progress to the user
//
// Executors never terminate the process. Fatal conditions are returned as
// *LaunchError or *CommandError and the caller decides what to do with them.
package runner
