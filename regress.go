package regress

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ethereum-optimism/infra/op-regress/logging"
	"github.com/ethereum-optimism/infra/op-regress/metrics"
	"github.com/ethereum-optimism/infra/op-regress/reporting"
	"github.com/ethereum-optimism/infra/op-regress/runner"
	"github.com/ethereum-optimism/infra/op-regress/testlist"
	"github.com/ethereum-optimism/infra/op-regress/types"
	"github.com/ethereum-optimism/infra/op-regress/ui"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
)

// regress implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &regress{}

// RunResult captures one regression run
type RunResult struct {
	RunID     string
	OutputDir string
	Entries   []types.TestEntry
	Results   []*types.CommandResult
	Summary   reporting.Summary
	Duration  time.Duration
}

// regress resolves a test list and runs the resulting commands once.
type regress struct {
	config   *Config
	version  string
	resolver *testlist.Resolver
	executor runner.CommandExecutor
	parallel runner.ParallelExecutor
	progress runner.ProgressIndicator
	result   *RunResult

	running atomic.Bool

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*regress, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if config.Out == nil {
		config.Out = os.Stdout
	}

	config.Log.Debug("Creating regression runner with config",
		"testlist", config.TestList,
		"selection", config.Selection.String(),
		"output", config.OutputDir,
		"seed", config.Seed,
		"parallel", config.Parallel,
		"exitOnError", config.ExitOnError)

	var progress runner.ProgressIndicator
	if config.ShowProgress {
		progress = ui.NewProgressBar(os.Stderr)
	} else {
		progress = runner.NewConsoleProgressIndicator(config.Log)
	}

	execCfg := runner.Config{
		Log:      config.Log,
		Shell:    config.Shell,
		Progress: progress,
	}

	return &regress{
		config:  config,
		version: version,
		resolver: testlist.NewResolver(testlist.Config{
			Log:         config.Log,
			Placeholder: config.RootPlaceholder,
		}),
		executor:         runner.NewShellExecutor(execCfg),
		parallel:         runner.NewParallelExecutor(execCfg),
		progress:         progress,
		shutdownCallback: shutdownCallback,
	}, nil
}

// Start runs the regression once.
// Start implements the cliapp.Lifecycle interface.
func (r *regress) Start(ctx context.Context) error {
	r.running.Store(true)
	r.config.Log.Info("Starting regression run", "version", r.version)

	if err := r.run(ctx); err != nil {
		r.config.Log.Error("Regression run failed", "error", err)
		return err
	}

	if r.result.Summary.HasFailures() {
		r.config.Log.Warn("Regression run completed with failures, returning exit code 1")
		return NewTestFailureError(r.result.Summary, nil)
	}

	r.config.Log.Info("Regression run completed, exiting")
	go func() {
		r.shutdownCallback(nil)
	}()
	return nil
}

// Stop stops the regression runner.
// Stop implements the cliapp.Lifecycle interface.
func (r *regress) Stop(ctx context.Context) error {
	if !r.running.Load() {
		r.config.Log.Debug("Regression runner already stopped, nothing to do")
		return nil
	}
	r.running.Store(false)
	r.config.Log.Info("Regression runner stopped")
	return nil
}

// Stopped returns true if the regression runner is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (r *regress) Stopped() bool {
	return !r.running.Load()
}

// Result returns the result of the last run, nil before Start.
func (r *regress) Result() *RunResult {
	return r.result
}

// run resolves, executes and reports. Every returned error is a
// *RuntimeError or a *TestFailureError.
func (r *regress) run(ctx context.Context) error {
	start := time.Now()
	runID := uuid.New().String()

	ctx, span := otel.Tracer("regress").Start(ctx, "regression run")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", runID))

	log := r.config.Log.New("run_id", runID)

	entries, err := r.resolver.Resolve(ctx, r.config.TestList, r.config.Selection)
	if err != nil {
		return NewRuntimeError("resolve test list", err)
	}
	r.result = &RunResult{RunID: runID, OutputDir: r.config.OutputDir, Entries: entries}
	if len(entries) == 0 {
		log.Warn("No tests matched", "selection", r.config.Selection.String())
		return nil
	}

	invs, err := BuildInvocations(entries, BuildOptions{
		Template:        r.config.CmdTemplate,
		Seed:            r.config.Seed,
		OutputDir:       r.config.OutputDir,
		Root:            r.config.Selection.Root,
		RootPlaceholder: r.config.RootPlaceholder,
		Timeout:         r.config.Timeout,
		ExitOnError:     r.config.ExitOnError,
	})
	if err != nil {
		return NewRuntimeError("build commands", err)
	}

	fileLogger, err := logging.NewFileLogger(r.config.OutputDir)
	if err != nil {
		return NewRuntimeError("create output directory", err)
	}
	log.Info("Running commands", "count", len(invs), "parallel", r.config.Parallel, "output", r.config.OutputDir)

	var results []*types.CommandResult
	var execErr error
	if r.config.Parallel {
		results, execErr = r.parallel.RunAll(ctx, invs)
	} else {
		results, execErr = r.runSerial(ctx, invs)
	}

	for _, res := range results {
		if _, err := fileLogger.LogResult(res); err != nil {
			log.Error("Failed to write command log", "name", res.Invocation.Label(), "error", err)
		}
	}

	r.result.Results = results
	r.result.Summary = reporting.Summarize(results)
	r.result.Duration = time.Since(start)

	if len(results) > 0 {
		reporting.WriteResultsTable(r.config.Out, "Regression Results", results)
	}
	if err := fileLogger.LogSummary(r.result.Summary.String() + "\n"); err != nil {
		log.Error("Failed to write summary", "error", err)
	}
	metrics.RecordRegression(runID, r.result.Summary.Result(), r.result.Summary.Total,
		r.result.Summary.Passed, r.result.Summary.Failed+r.result.Summary.TimedOut, r.result.Duration)
	log.Info("Regression run finished", "summary", r.result.Summary.String(), "duration", r.result.Duration)

	switch {
	case execErr == nil:
		return nil
	case runner.IsCommandError(execErr):
		return NewTestFailureError(r.result.Summary, execErr)
	default:
		return NewRuntimeError("run commands", execErr)
	}
}

// runSerial runs invocations one after another, stopping at the first error.
func (r *regress) runSerial(ctx context.Context, invs []types.Invocation) ([]*types.CommandResult, error) {
	r.progress.StartBatch(len(invs))
	defer r.progress.CompleteBatch()

	results := make([]*types.CommandResult, 0, len(invs))
	for _, inv := range invs {
		res, err := r.executor.Run(ctx, inv)
		if res != nil {
			results = append(results, res)
			r.progress.CommandDone(inv.Label(), res.Status)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
