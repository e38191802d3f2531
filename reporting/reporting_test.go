package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

func testResults() []*types.CommandResult {
	return []*types.CommandResult{
		{Invocation: types.Invocation{Name: "arith.0"}, Status: types.CommandStatusSuccess, Duration: time.Second},
		{Invocation: types.Invocation{Name: "arith.1"}, Status: types.CommandStatusError, ExitCode: 3, Duration: 2 * time.Second},
		{Invocation: types.Invocation{Name: "jump.0"}, Status: types.CommandStatusTimeout, ExitCode: -1, Duration: 3 * time.Second, TimedOut: true},
		{Invocation: types.Invocation{Name: "loop.0"}, Status: types.CommandStatusSignaled, ExitCode: -1},
		nil,
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testResults())
	assert.Equal(t, Summary{
		Total:    4,
		Passed:   1,
		Failed:   1,
		TimedOut: 1,
		Signaled: 1,
		Duration: 6 * time.Second,
	}, s)
	assert.True(t, s.HasFailures())
	assert.Equal(t, "fail", s.Result())
	assert.Equal(t, "4 commands: 1 passed, 1 failed, 1 timed out, 1 signaled", s.String())
}

func TestSummarizeSignaledOnly(t *testing.T) {
	s := Summarize([]*types.CommandResult{
		{Status: types.CommandStatusSuccess},
		{Status: types.CommandStatusSignaled},
	})
	assert.False(t, s.HasFailures())
	assert.Equal(t, "pass", s.Result())
}

func TestWriteResultsTable(t *testing.T) {
	var buf bytes.Buffer
	WriteResultsTable(&buf, "Regression Results", testResults())

	out := buf.String()
	assert.Contains(t, out, "Regression Results (6.0s)")
	assert.Contains(t, out, "arith.1")
	assert.Contains(t, out, "✗ fail")
	assert.Contains(t, out, "⏱ timeout")
	assert.Contains(t, out, "- signaled")
}

func TestWriteEntriesTable(t *testing.T) {
	var buf bytes.Buffer
	WriteEntriesTable(&buf, []types.TestEntry{
		{Name: "riscv_arithmetic_basic_test", Iterations: 2, Fields: map[string]any{"gen_opts": "+instr_cnt=100", "rtl_test": "core_base_test"}},
		{Name: "riscv_jump_stress_test", Iterations: 3},
	})

	out := buf.String()
	assert.Contains(t, out, "Matched Tests (2)")
	assert.Contains(t, out, "riscv_jump_stress_test")
	assert.Contains(t, out, "gen_opts=+instr_cnt=100 rtl_test=core_base_test")
	assert.Contains(t, out, "5")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "0.0s", formatDuration(0))
}
