// Package ui contains terminal presentation helpers.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/ethereum-optimism/infra/op-regress/runner"
	"github.com/ethereum-optimism/infra/op-regress/types"
)

var _ runner.ProgressIndicator = (*ProgressBar)(nil)

// ProgressBar draws command progress on a terminal
type ProgressBar struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar

	passed int
	failed int
}

// NewProgressBar creates a progress bar that renders to w, os.Stderr when nil
func NewProgressBar(w io.Writer) *ProgressBar {
	if w == nil {
		w = os.Stderr
	}
	return &ProgressBar{w: w}
}

func describe(passed, failed int) string {
	return color.CyanString("Running commands: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// StartBatch implements runner.ProgressIndicator
func (p *ProgressBar) StartBatch(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.passed = 0
	p.failed = 0
	w := p.w
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// CommandDone implements runner.ProgressIndicator
func (p *ProgressBar) CommandDone(name string, status types.CommandStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	if status.Failed() {
		p.failed++
	} else {
		p.passed++
	}
	_ = p.bar.Set(p.passed + p.failed)
	p.bar.Describe(describe(p.passed, p.failed))
}

// CompleteBatch implements runner.ProgressIndicator
func (p *ProgressBar) CompleteBatch() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

// Counts returns the number of passed and failed commands in the current batch
func (p *ProgressBar) Counts() (passed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.passed, p.failed
}
