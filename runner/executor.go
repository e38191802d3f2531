package runner

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/sourcegraph/conc"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

var _ CommandExecutor = (*shellExecutor)(nil)

// CommandExecutor runs a single shell command to completion.
type CommandExecutor interface {
	// Run launches the invocation and waits up to its timeout.
	// A timeout is not an error: the result has TimedOut set and empty output.
	// A positive return code under ExitOnError returns the result and a *CommandError.
	Run(ctx context.Context, inv types.Invocation) (*types.CommandResult, error)
}

// Config contains executor configuration
type Config struct {
	Log             log.Logger
	Shell           string     // Defaults to DefaultShell
	OutputTailBytes int        // Output logged for failed commands
	CmdBuilder      CmdBuilder // Defaults to a process-group shell command
	Restorer        TerminalRestorer
	Progress        ProgressIndicator
}

// shellExecutor implements CommandExecutor
type shellExecutor struct {
	launcher
}

// NewShellExecutor creates a new single command executor
func NewShellExecutor(cfg Config) CommandExecutor {
	if cfg.Log != nil {
		cfg.Log = cfg.Log.New("component", "executor")
	}
	return &shellExecutor{launcher: newLauncher(cfg)}
}

// Run implements CommandExecutor
func (e *shellExecutor) Run(ctx context.Context, inv types.Invocation) (*types.CommandResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	p, err := e.launch(ctx, inv)
	if err != nil {
		return nil, err
	}

	var wg conc.WaitGroup
	defer wg.Wait()
	wg.Go(p.wait)

	return e.await(ctx, p, inv.EffectiveTimeout())
}
