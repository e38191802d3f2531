package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	opflags "github.com/ethereum-optimism/optimism/op-service/flags"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "OP_REGRESS"

// RootEnvVar supplies the root directory when --root is not set.
const RootEnvVar = "RISCV_DV_ROOT"

var (
	TestList = &cli.StringFlag{
		Name:     "testlist",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "TESTLIST"),
		Usage:    "Path to the regression test list (eg. 'testlist.yaml')",
	}
	Test = &cli.StringFlag{
		Name:    "test",
		Value:   "all",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TEST"),
		Usage:   "Comma separated tests to run, or 'all'",
	}
	Iterations = &cli.IntFlag{
		Name:    "iterations",
		Aliases: []string{"i"},
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ITERATIONS"),
		Usage:   "Override the iterations of every enabled test. 0 keeps the test list values.",
	}
	Root = &cli.StringFlag{
		Name:    "root",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ROOT"),
		Usage:   fmt.Sprintf("Root directory substituted into test list imports. Defaults to $%s", RootEnvVar),
	}
	RootPlaceholder = &cli.StringFlag{
		Name:    "root-placeholder",
		Value:   "<riscv_dv_root>",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ROOT_PLACEHOLDER"),
		Usage:   "Token replaced by the root directory in import paths",
	}
	Output = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT"),
		Usage:   "Output directory. Defaults to <output-prefix><date>",
	}
	OutputPrefix = &cli.StringFlag{
		Name:    "output-prefix",
		Value:   "out_",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT_PREFIX"),
		Usage:   "Prefix of the default output directory name",
	}
	Seed = &cli.Int64Flag{
		Name:    "seed",
		Value:   -1,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SEED"),
		Usage:   "Base seed for generated commands. A negative seed picks a random one.",
	}
	Timeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   999 * time.Second,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Timeout for each command",
	}
	Parallel = &cli.BoolFlag{
		Name:    "parallel",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PARALLEL"),
		Usage:   "Launch all commands at once instead of one after another",
	}
	ExitOnError = &cli.BoolFlag{
		Name:    "exit-on-error",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "EXIT_ON_ERROR"),
		Usage:   "Stop at the first failing command. Defaults to true for serial runs and false for parallel runs.",
	}
	Cmd = &cli.StringFlag{
		Name:    "cmd",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CMD"),
		Usage:   "Command template for tests without a 'cmd' field. Supports <test>, <iteration>, <seed>, <out> and the root placeholder.",
	}
	Shell = &cli.StringFlag{
		Name:    "shell",
		Value:   "/bin/bash",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SHELL"),
		Usage:   "Shell used to interpret commands",
	}
	EnvFiles = &cli.StringSliceFlag{
		Name:    "env-file",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ENV_FILE"),
		Usage:   "Load environment variables from .env files. Variables already set are kept.",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "VERBOSE"),
		Usage:   "Log at debug level with source locations",
	}
	ShowProgress = &cli.BoolFlag{
		Name:    "show-progress",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SHOW_PROGRESS"),
		Usage:   "Draw a progress bar while commands run",
	}
)

var requiredFlags = []cli.Flag{
	TestList,
}

var optionalFlags = []cli.Flag{
	Test,
	Iterations,
	Root,
	RootPlaceholder,
	Output,
	OutputPrefix,
	Seed,
	Timeout,
	Parallel,
	ExitOnError,
	Cmd,
	Shell,
	EnvFiles,
	Verbose,
	ShowProgress,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return opflags.CheckRequiredXor(ctx)
}
