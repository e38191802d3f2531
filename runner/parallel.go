package runner

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

var _ ParallelExecutor = (*parallelExecutor)(nil)

// ParallelExecutor runs a batch of shell commands concurrently.
type ParallelExecutor interface {
	// RunAll launches every invocation before waiting on any, then waits on
	// them in submission order. Results are returned in submission order.
	// Timeouts never abort the batch. A failing invocation with ExitOnError
	// kills the remaining processes and returns the results so far together
	// with a *CommandError.
	RunAll(ctx context.Context, invs []types.Invocation) ([]*types.CommandResult, error)
}

// parallelExecutor implements ParallelExecutor
type parallelExecutor struct {
	launcher
	restorer TerminalRestorer
	progress ProgressIndicator
}

// NewParallelExecutor creates a new batch executor. The terminal is restored
// with stty after each wait unless cfg.Restorer overrides it.
func NewParallelExecutor(cfg Config) ParallelExecutor {
	if cfg.Log != nil {
		cfg.Log = cfg.Log.New("component", "parallel-executor")
	}
	l := newLauncher(cfg)
	if cfg.Restorer == nil {
		cfg.Restorer = NewSttyRestorer(l.log)
	}
	if cfg.Progress == nil {
		cfg.Progress = NewNoOpProgressIndicator()
	}
	return &parallelExecutor{
		launcher: l,
		restorer: cfg.Restorer,
		progress: cfg.Progress,
	}
}

// RunAll implements ParallelExecutor
func (e *parallelExecutor) RunAll(ctx context.Context, invs []types.Invocation) ([]*types.CommandResult, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	var wg conc.WaitGroup
	defer wg.Wait()

	procs := make([]*process, 0, len(invs))
	for _, inv := range invs {
		p, err := e.launch(ctx, inv)
		if err != nil {
			e.log.Error("Failed to launch batch command, killing started commands", "started", len(procs), "error", err)
			killAll(procs)
			return nil, err
		}
		procs = append(procs, p)
		wg.Go(p.wait)
	}

	e.progress.StartBatch(len(procs))
	defer e.progress.CompleteBatch()

	results := make([]*types.CommandResult, 0, len(procs))
	for i, p := range procs {
		e.log.Info(fmt.Sprintf("Command progress: %d/%d", i+1, len(procs)))
		e.log.Debug("Waiting for command", "name", p.inv.Label(), "cmd", p.inv.Command)

		result, err := e.awaitAndRestore(ctx, p)
		if result != nil {
			results = append(results, result)
			e.progress.CommandDone(p.inv.Label(), result.Status)
		}
		if err != nil {
			e.log.Error("Stopping batch", "waited", i+1, "remaining", len(procs)-i-1, "error", err)
			killAll(procs[i+1:])
			return results, err
		}
	}
	return results, nil
}

// awaitAndRestore waits on one process and restores the terminal afterwards,
// whatever the outcome of the wait.
func (e *parallelExecutor) awaitAndRestore(ctx context.Context, p *process) (*types.CommandResult, error) {
	defer e.restorer.Restore()
	return e.await(ctx, p, p.inv.EffectiveTimeout())
}

// killAll kills processes that will not be waited on through await.
func killAll(procs []*process) {
	for _, p := range procs {
		p.abort()
		p.cleanup()
	}
}
