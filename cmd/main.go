package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	regress "github.com/ethereum-optimism/infra/op-regress"
	"github.com/ethereum-optimism/infra/op-regress/exitcodes"
	"github.com/ethereum-optimism/infra/op-regress/flags"
	"github.com/ethereum-optimism/infra/op-regress/logging"
	"github.com/ethereum-optimism/infra/op-regress/service"
	"github.com/ethereum-optimism/optimism/devnet-sdk/telemetry"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

// svc serves /healthz and /metrics when metrics are enabled
var svc *service.Service

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-regress"
	app.Usage = "Regression runner for hardware verification test lists"
	app.Description = "op-regress resolves a test list and runs the resulting shell commands"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Action = cliapp.LifecycleCmd(run)
	app.Commands = []*cli.Command{
		{
			Name:   "list",
			Usage:  "Resolve the test list and print the matched tests without running them",
			Action: list,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			// Use the exit code from the ExitCoder
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), exitCodeFor(err)))
		}
	}

	// Start telemetry
	ctx, shutdown, err := telemetry.SetupOpenTelemetry(
		context.Background(),
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()
	defer func() {
		if svc != nil {
			svc.Shutdown()
		}
	}()

	// Start CLI
	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

// exitCodeFor maps typed errors to process exit codes
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitcodes.Success
	case regress.IsRuntimeError(err):
		return exitcodes.RuntimeErr
	case regress.IsTestFailureError(err):
		return exitcodes.TestFailure
	default:
		// For other unspecified errors, default to exit code 1
		return exitcodes.TestFailure
	}
}

// setup builds the logger, starts the optional service and reads the config
func setup(ctx *cli.Context) (*regress.Config, error) {
	logger := logging.NewLogger(oplog.AppOut(ctx), logging.Config{
		Verbose: ctx.Bool(flags.Verbose.Name),
		CLI:     oplog.ReadCLIConfig(ctx),
	})
	oplog.SetGlobalLogHandler(logger.Handler())

	svc = service.New(logger, opmetrics.ReadCLIConfig(ctx))
	svc.Start(ctx.Context)

	cfg, err := regress.NewConfig(ctx, logger)
	if err != nil {
		return nil, regress.NewRuntimeError("create config", err)
	}
	cfg.Log.Debug("Config", "config", cfg)
	return cfg, nil
}

func run(ctx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	cfg, err := setup(ctx)
	if err != nil {
		return nil, err
	}

	regressService, err := regress.New(ctx.Context, cfg, Version, closeApp)
	if err != nil {
		return nil, regress.NewRuntimeError("create regression runner", err)
	}

	return regressService, nil
}

func list(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	_, err = regress.List(ctx.Context, cfg)
	return err
}
