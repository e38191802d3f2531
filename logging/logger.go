// Package logging builds the process logger and writes per-command output files.
package logging

import (
	"io"
	"log/slog"

	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	"github.com/ethereum/go-ethereum/log"
)

// Config selects between the two logging modes.
// Verbose logs at debug level with source locations; quiet logs informational
// messages and above using the CLI log settings.
type Config struct {
	Verbose bool
	CLI     oplog.CLIConfig
}

// NewLogger creates the logger that is injected into every component.
func NewLogger(w io.Writer, cfg Config) log.Logger {
	if cfg.Verbose {
		return log.NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     log.LevelDebug,
			AddSource: true,
		}))
	}
	cli := cfg.CLI
	if cli.Level < log.LevelInfo {
		cli.Level = log.LevelInfo
	}
	return oplog.NewLogger(w, cli)
}
