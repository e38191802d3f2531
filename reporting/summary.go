package reporting

import (
	"fmt"
	"time"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

// Summary aggregates the results of a regression run
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	TimedOut int
	Signaled int
	Duration time.Duration
}

// Summarize counts results by status. Duration is the sum of command durations.
func Summarize(results []*types.CommandResult) Summary {
	var s Summary
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Total++
		s.Duration += r.Duration
		switch r.Status {
		case types.CommandStatusSuccess:
			s.Passed++
		case types.CommandStatusTimeout:
			s.TimedOut++
		case types.CommandStatusSignaled:
			s.Signaled++
		default:
			s.Failed++
		}
	}
	return s
}

// HasFailures reports whether any command failed or timed out
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.TimedOut > 0
}

// Result returns the overall result label of the run
func (s Summary) Result() string {
	if s.HasFailures() {
		return "fail"
	}
	return "pass"
}

func (s Summary) String() string {
	return fmt.Sprintf("%d commands: %d passed, %d failed, %d timed out, %d signaled",
		s.Total, s.Passed, s.Failed, s.TimedOut, s.Signaled)
}
