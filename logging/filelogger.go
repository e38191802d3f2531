package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/acarl005/stripansi"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

const (
	LogDirName      = "logs"
	SummaryFilename = "summary.log"
	LogFileExt      = ".log"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileLogger writes the output of each command to its own file under <outDir>/logs.
type FileLogger struct {
	logDir string
	mu     sync.Mutex
	used   map[string]int // Filename stem -> times used
}

// NewFileLogger creates the log directory under outDir
func NewFileLogger(outDir string) (*FileLogger, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir cannot be empty")
	}
	logDir := filepath.Join(outDir, LogDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", logDir, err)
	}
	return &FileLogger{
		logDir: logDir,
		used:   make(map[string]int),
	}, nil
}

// LogDir returns the directory holding the command logs
func (l *FileLogger) LogDir() string {
	return l.logDir
}

// LogResult writes the command line and its output, with ANSI escape codes
// removed, and returns the path of the file.
func (l *FileLogger) LogResult(result *types.CommandResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}
	path := filepath.Join(l.logDir, l.filename(result.Invocation.Label()))

	content := fmt.Sprintf("# cmd: %s\n# status: %s\n# exit code: %d\n# duration: %s\n\n%s",
		result.Invocation.Command,
		result.Status,
		result.ExitCode,
		result.Duration,
		stripansi.Strip(result.Output))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write log file %s: %w", path, err)
	}
	return path, nil
}

// LogSummary writes the run summary next to the command logs
func (l *FileLogger) LogSummary(summary string) error {
	path := filepath.Join(l.logDir, SummaryFilename)
	if err := os.WriteFile(path, []byte(stripansi.Strip(summary)), 0644); err != nil {
		return fmt.Errorf("failed to write summary file %s: %w", path, err)
	}
	return nil
}

// filename maps a command label to a unique, filesystem-safe file name.
func (l *FileLogger) filename(label string) string {
	stem := unsafeFilenameChars.ReplaceAllString(label, "_")
	if stem == "" || stem == "." || stem == ".." {
		stem = "command"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.used[stem]++
	if n := l.used[stem]; n > 1 {
		stem = fmt.Sprintf("%s-%d", stem, n)
	}
	return stem + LogFileExt
}
