package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-regress/metrics"
	"github.com/ethereum-optimism/infra/op-regress/types"
)

// CmdBuilder creates the exec.Cmd for a shell invocation together with a cleanup function.
type CmdBuilder func(ctx context.Context, name string, arg ...string) (*exec.Cmd, func())

// shellCommand builds a command in its own process group with stdin detached,
// so a timeout can kill everything the shell started.
func shellCommand(_ context.Context, name string, arg ...string) (*exec.Cmd, func()) {
	cmd := exec.Command(name, arg...)
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd, func() {}
}

// launcher starts shell processes and turns their exit status into results.
// It is shared by the single and parallel executors.
type launcher struct {
	log        log.Logger
	shell      string
	tailBytes  int
	cmdBuilder CmdBuilder
}

func newLauncher(cfg Config) launcher {
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Shell == "" {
		cfg.Shell = DefaultShell
	}
	if cfg.CmdBuilder == nil {
		cfg.CmdBuilder = shellCommand
	}
	return launcher{
		log:        cfg.Log,
		shell:      cfg.Shell,
		tailBytes:  cfg.OutputTailBytes,
		cmdBuilder: cfg.CmdBuilder,
	}
}

// process is a launched shell command. Both output streams share one pipe
// owned by the process, so completion means the shell exited AND every
// holder of the pipe closed it.
type process struct {
	inv     types.Invocation
	cmd     *exec.Cmd
	cleanup func()
	stdout  *os.File
	output  *bytes.Buffer
	tail    *tailBuffer
	started time.Time
	done    chan error
}

// launch starts inv without waiting for it. The caller must arrange for wait
// to be called exactly once, for example through a conc.WaitGroup.
func (l launcher) launch(ctx context.Context, inv types.Invocation) (*process, error) {
	cmd, cleanup := l.cmdBuilder(ctx, l.shell, ShellFlag, ExecPrefix+inv.Command)

	pr, pw, err := os.Pipe()
	if err != nil {
		cleanup()
		metrics.RecordErrorDetails("launch", err)
		return nil, &LaunchError{Command: inv.Command, Err: err}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	p := &process{
		inv:     inv,
		cmd:     cmd,
		cleanup: cleanup,
		stdout:  pr,
		output:  &bytes.Buffer{},
		tail:    newTailBuffer(l.tailBytes),
		done:    make(chan error, 1),
	}

	l.log.Debug("Launching command", "name", inv.Label(), "cmd", inv.Command)
	p.started = time.Now()
	err = cmd.Start()
	// The child holds its own copy of the write end.
	_ = pw.Close()
	if err != nil {
		_ = pr.Close()
		cleanup()
		metrics.RecordErrorDetails("launch", err)
		return nil, &LaunchError{Command: inv.Command, Err: err}
	}
	return p, nil
}

// wait drains the output until EOF, then reaps the shell. It is run in its
// own goroutine from launch onwards so a chatty command never blocks on a
// full pipe. A background child that keeps the pipe open holds wait back
// until the timeout in await kills the group.
func (p *process) wait() {
	_, _ = io.Copy(io.MultiWriter(p.output, p.tail), p.stdout)
	p.done <- p.cmd.Wait()
}

// abort kills the process group and closes the read end of the output pipe,
// which releases wait even if a process outside the group still holds the
// write end.
func (p *process) abort() {
	p.kill()
	_ = p.stdout.Close()
}

// kill terminates the whole process group of the command.
func (p *process) kill() {
	if p.cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-p.cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = p.cmd.Process.Kill()
	}
}

// await waits up to timeout for the process, measured from this call.
// A timed-out process is killed and reported with empty output and a nil error.
func (l launcher) await(ctx context.Context, p *process, timeout time.Duration) (*types.CommandResult, error) {
	defer p.cleanup()
	defer p.stdout.Close()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-p.done:
		return l.classify(p, err)
	case <-timer.C:
		p.abort()
		<-p.done
		l.log.Error(timeoutMessage(timeout, p.inv.Command), "name", p.inv.Label())
		result := &types.CommandResult{
			Invocation: p.inv,
			Status:     types.CommandStatusTimeout,
			ExitCode:   -1,
			Duration:   time.Since(p.started),
			TimedOut:   true,
		}
		metrics.RecordCommand(result.Status, result.Duration)
		return result, nil
	case <-ctx.Done():
		p.abort()
		<-p.done
		return nil, fmt.Errorf("waiting for command %q: %w", p.inv.Label(), ctx.Err())
	}
}

// timeoutMessage reports the timeout in whole seconds, rounded up so a
// sub-second timeout never reads as zero.
func timeoutMessage(timeout time.Duration, command string) string {
	return fmt.Sprintf("Timeout[%ds]: %s", int64(math.Ceil(timeout.Seconds())), command)
}

// classify turns the exit status of a finished process into a result.
// Only strictly positive return codes take the error branch, and only when
// the invocation checks return codes.
func (l launcher) classify(p *process, waitErr error) (*types.CommandResult, error) {
	result := &types.CommandResult{
		Invocation: p.inv,
		Status:     types.CommandStatusSuccess,
		Output:     p.output.String(),
		Duration:   time.Since(p.started),
	}

	if waitErr != nil {
		exitErr := &exec.ExitError{}
		if !errors.As(waitErr, &exitErr) {
			metrics.RecordErrorDetails("wait", waitErr)
			return nil, fmt.Errorf("waiting for command %q: %w", p.inv.Label(), waitErr)
		}
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode < 0 {
			result.Status = types.CommandStatusSignaled
		}
	}

	l.log.Debug("Command finished", "name", p.inv.Label(), "cmd", p.inv.Command,
		"exit_code", result.ExitCode, "duration", result.Duration)
	l.log.Debug(result.Output)

	if result.ExitCode > 0 && p.inv.CheckReturnCode {
		result.Status = types.CommandStatusError
		l.log.Info(p.tail.snippet())
		l.log.Error(fmt.Sprintf("ERROR return code: %d, cmd:%s", result.ExitCode, p.inv.Command), "name", p.inv.Label())
	}
	metrics.RecordCommand(result.Status, result.Duration)

	if result.Status == types.CommandStatusError && p.inv.ExitOnError {
		return result, &CommandError{Result: result}
	}
	return result, nil
}
