package regress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-regress/environ"
	"github.com/ethereum-optimism/infra/op-regress/flags"
	"github.com/ethereum-optimism/infra/op-regress/testlist"
)

// Config holds the application configuration
type Config struct {
	TestList        string             // Absolute path of the root test list
	Selection       testlist.Selection // Tests, iteration override and root directory
	RootPlaceholder string             // Token replaced by the root directory
	OutputDir       string             // Absolute output directory
	Seed            uint32             // Base seed, incremented per iteration
	Timeout         time.Duration      // Timeout for each command
	Parallel        bool               // Launch all commands as one batch
	ExitOnError     bool               // Stop at the first failing command
	CmdTemplate     string             // Command template for entries without a cmd field
	Shell           string
	ShowProgress    bool
	Out             io.Writer // Destination of result tables
	Log             log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	// Env files first, so they can provide the root directory
	if err := environ.LoadFiles(ctx.StringSlice(flags.EnvFiles.Name)...); err != nil {
		return nil, err
	}

	testList, err := filepath.Abs(ctx.String(flags.TestList.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for test list '%s': %w", ctx.String(flags.TestList.Name), err)
	}

	root := ctx.String(flags.Root.Name)
	if root == "" {
		root, err = environ.Require(flags.RootEnvVar)
		if err != nil {
			return nil, fmt.Errorf("no root directory given: %w", err)
		}
	}

	outputDir := OutputDir(ctx.String(flags.Output.Name), ctx.String(flags.OutputPrefix.Name))
	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for output directory '%s': %w", outputDir, err)
	}

	parallel := ctx.Bool(flags.Parallel.Name)
	// Serial runs stop at the first failure unless told otherwise, batches keep going.
	exitOnError := !parallel
	if ctx.IsSet(flags.ExitOnError.Name) {
		exitOnError = ctx.Bool(flags.ExitOnError.Name)
	}

	seed, err := Seed(ctx.Int64(flags.Seed.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	timeout := ctx.Duration(flags.Timeout.Name)
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", timeout)
	}

	return &Config{
		TestList: testList,
		Selection: testlist.Selection{
			Tests:      ctx.String(flags.Test.Name),
			Iterations: ctx.Int(flags.Iterations.Name),
			Root:       root,
		},
		RootPlaceholder: ctx.String(flags.RootPlaceholder.Name),
		OutputDir:       outputDir,
		Seed:            seed,
		Timeout:         timeout,
		Parallel:        parallel,
		ExitOnError:     exitOnError,
		CmdTemplate:     ctx.String(flags.Cmd.Name),
		Shell:           ctx.String(flags.Shell.Name),
		ShowProgress:    ctx.Bool(flags.ShowProgress.Name),
		Out:             os.Stdout,
		Log:             log,
	}, nil
}
