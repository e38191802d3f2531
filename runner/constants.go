package runner

// Command execution constants
const (
	// DefaultShell interprets every command line
	DefaultShell = "/bin/bash"

	// ShellFlag makes the shell read the command from its argument
	ShellFlag = "-c"

	// ExecPrefix replaces the shell with the command so a kill reaches it directly
	ExecPrefix = "exec "

	// SttyBinary restores the terminal after batch waits
	SttyBinary = "stty"
	SttySane   = "sane"
)
