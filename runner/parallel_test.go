package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-regress/types"
)

type countingRestorer struct {
	calls atomic.Int32
}

func (r *countingRestorer) Restore() {
	r.calls.Add(1)
}

type recordingProgress struct {
	mu       sync.Mutex
	total    int
	done     []string
	statuses []types.CommandStatus
	complete bool
}

func (p *recordingProgress) StartBatch(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *recordingProgress) CommandDone(name string, status types.CommandStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = append(p.done, name)
	p.statuses = append(p.statuses, status)
}

func (p *recordingProgress) CompleteBatch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.complete = true
}

func newTestParallelExecutor(restorer TerminalRestorer, progress ProgressIndicator) ParallelExecutor {
	return NewParallelExecutor(Config{
		Log:      testLogger(),
		Restorer: restorer,
		Progress: progress,
	})
}

func TestRunAllSubmissionOrder(t *testing.T) {
	restorer := &countingRestorer{}
	progress := &recordingProgress{}
	invs := types.NewBatch([]string{
		`bash -c 'sleep 0.3; echo one'`,
		"echo two",
		"echo three",
	})
	for i, name := range []string{"first", "second", "third"} {
		invs[i].Name = name
	}

	results, err := newTestParallelExecutor(restorer, progress).RunAll(context.Background(), invs)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "one\n", results[0].Output)
	assert.Equal(t, "two\n", results[1].Output)
	assert.Equal(t, "three\n", results[2].Output)

	assert.Equal(t, int32(3), restorer.calls.Load())
	assert.Equal(t, 3, progress.total)
	assert.Equal(t, []string{"first", "second", "third"}, progress.done)
	assert.True(t, progress.complete)
}

func TestRunAllLaunchesBeforeWaiting(t *testing.T) {
	invs := types.NewBatch([]string{"sleep 1", "sleep 1", "sleep 1", "sleep 1"})

	start := time.Now()
	results, err := newTestParallelExecutor(&countingRestorer{}, nil).RunAll(context.Background(), invs)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestRunAllTimeoutDoesNotAbortBatch(t *testing.T) {
	restorer := &countingRestorer{}
	invs := types.NewBatch([]string{"sleep 10", "echo two", "echo three", "echo four"})
	for i := range invs {
		invs[i].Timeout = 300 * time.Millisecond
	}
	// A timeout never stops the batch, even when failures would.
	invs[0].ExitOnError = true

	results, err := newTestParallelExecutor(restorer, nil).RunAll(context.Background(), invs)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].TimedOut)
	assert.Empty(t, results[0].Output)
	assert.Equal(t, "two\n", results[1].Output)
	assert.Equal(t, "three\n", results[2].Output)
	assert.Equal(t, "four\n", results[3].Output)
	for _, r := range results[1:] {
		assert.Equal(t, types.CommandStatusSuccess, r.Status)
	}
	assert.Equal(t, int32(4), restorer.calls.Load())
}

func TestRunAllBackgroundOutputDoesNotAbortBatch(t *testing.T) {
	restorer := &countingRestorer{}
	invs := types.NewBatch([]string{"sleep 1 & echo hi", "echo two"})

	results, err := newTestParallelExecutor(restorer, nil).RunAll(context.Background(), invs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "hi\n", results[0].Output)
	assert.Equal(t, "two\n", results[1].Output)
	for _, r := range results {
		assert.Equal(t, types.CommandStatusSuccess, r.Status)
	}
	assert.Equal(t, int32(2), restorer.calls.Load())
}

func TestRunAllTimeoutMeasuredFromWait(t *testing.T) {
	invs := types.NewBatch([]string{
		`bash -c 'sleep 1; echo a'`,
		`bash -c 'sleep 2; echo b'`,
	})
	for i := range invs {
		invs[i].Timeout = 1500 * time.Millisecond
	}

	results, err := newTestParallelExecutor(&countingRestorer{}, nil).RunAll(context.Background(), invs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a\n", results[0].Output)
	// Launched two seconds before it finished, but waited on for only one.
	assert.False(t, results[1].TimedOut)
	assert.Equal(t, "b\n", results[1].Output)
}

func TestRunAllFailuresContinueByDefault(t *testing.T) {
	restorer := &countingRestorer{}
	invs := types.NewBatch([]string{`bash -c 'echo bad; exit 2'`, "echo ok"})

	results, err := newTestParallelExecutor(restorer, nil).RunAll(context.Background(), invs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, types.CommandStatusError, results[0].Status)
	assert.Equal(t, 2, results[0].ExitCode)
	assert.Equal(t, "bad\n", results[0].Output)
	assert.Equal(t, types.CommandStatusSuccess, results[1].Status)
	assert.Equal(t, int32(2), restorer.calls.Load())
}

func TestRunAllExitOnError(t *testing.T) {
	restorer := &countingRestorer{}
	invs := types.NewBatch([]string{`bash -c 'exit 2'`, "sleep 10"})
	invs[0].ExitOnError = true

	start := time.Now()
	results, err := newTestParallelExecutor(restorer, nil).RunAll(context.Background(), invs)
	require.Error(t, err)
	assert.True(t, IsCommandError(err))
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), restorer.calls.Load())
}

func TestRunAllLaunchError(t *testing.T) {
	e := NewParallelExecutor(Config{
		Log:      testLogger(),
		Shell:    "/nonexistent/bash",
		Restorer: &countingRestorer{},
	})

	results, err := e.RunAll(context.Background(), types.NewBatch([]string{"echo one", "echo two"}))
	require.Error(t, err)
	assert.True(t, IsLaunchError(err))
	assert.Nil(t, results)
}

func TestRunAllEmptyBatch(t *testing.T) {
	results, err := newTestParallelExecutor(&countingRestorer{}, nil).RunAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSttyRestorerSkipsWithoutTerminal(t *testing.T) {
	var checked int
	r := &sttyRestorer{
		log: testLogger(),
		isTTY: func() bool {
			checked++
			return false
		},
	}
	r.Restore()
	r.Restore()
	assert.Equal(t, 2, checked)
}
