package runner

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

// ProgressIndicator interface for UI updates
type ProgressIndicator interface {
	StartBatch(total int)
	CommandDone(name string, status types.CommandStatus)
	CompleteBatch()
}

// noOpProgressIndicator provides a no-op implementation of ProgressIndicator
type noOpProgressIndicator struct{}

// NewNoOpProgressIndicator creates a progress indicator that does nothing
func NewNoOpProgressIndicator() ProgressIndicator {
	return &noOpProgressIndicator{}
}

func (n *noOpProgressIndicator) StartBatch(total int)                                {}
func (n *noOpProgressIndicator) CommandDone(name string, status types.CommandStatus) {}
func (n *noOpProgressIndicator) CompleteBatch()                                      {}

// consoleProgressIndicator logs a line per finished command
type consoleProgressIndicator struct {
	logger log.Logger
	mu     sync.Mutex

	total     int
	completed int
	failed    int
	startTime time.Time
}

// NewConsoleProgressIndicator creates a progress indicator that reports through the logger
func NewConsoleProgressIndicator(logger log.Logger) ProgressIndicator {
	return &consoleProgressIndicator{logger: logger}
}

func (c *consoleProgressIndicator) StartBatch(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total = total
	c.completed = 0
	c.failed = 0
	c.startTime = time.Now()
	c.logger.Info("Starting commands", "total", total)
}

func (c *consoleProgressIndicator) CommandDone(name string, status types.CommandStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.completed++
	if status.Failed() {
		c.failed++
	}
	c.logger.Info("Command completed",
		"name", name,
		"status", status,
		"progress", c.completed,
		"total", c.total,
		"failed", c.failed)
}

func (c *consoleProgressIndicator) CompleteBatch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("Commands completed",
		"completed", c.completed,
		"failed", c.failed,
		"elapsed", time.Since(c.startTime).Round(time.Millisecond))
}
