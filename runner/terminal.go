package runner

import (
	"os"
	"os/exec"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/term"
)

// TerminalRestorer resets the controlling terminal after a batch wait.
// Child processes may leave it in raw mode.
type TerminalRestorer interface {
	Restore()
}

var _ TerminalRestorer = (*sttyRestorer)(nil)

// sttyRestorer runs "stty sane" against stdin when stdin is a terminal.
type sttyRestorer struct {
	log   log.Logger
	isTTY func() bool
}

// NewSttyRestorer creates a restorer that runs stty sane on the controlling terminal
func NewSttyRestorer(logger log.Logger) TerminalRestorer {
	return &sttyRestorer{
		log: logger,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Restore implements TerminalRestorer. Failures are logged and otherwise ignored.
func (r *sttyRestorer) Restore() {
	if !r.isTTY() {
		return
	}
	cmd := exec.Command(SttyBinary, SttySane)
	cmd.Stdin = os.Stdin
	if out, err := cmd.CombinedOutput(); err != nil {
		r.log.Debug("Failed to restore terminal", "error", err, "output", string(out))
	}
}

// noOpRestorer leaves the terminal alone
type noOpRestorer struct{}

// NewNoOpRestorer creates a restorer that does nothing
func NewNoOpRestorer() TerminalRestorer {
	return noOpRestorer{}
}

func (noOpRestorer) Restore() {}
